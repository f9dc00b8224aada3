package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContainmentValue string

const (
	ContainmentUnknown ContainmentValue = "unknown"
	ContainmentInside  ContainmentValue = "inside"
	ContainmentOutside ContainmentValue = "outside"
)

// ContainmentState is the last known inside/outside value for one
// (device, geofence) pair. Enter/exit detection is impossible without it: a
// transition fires only when this value flips.
type ContainmentState struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	DeviceID   primitive.ObjectID `json:"device_id" bson:"device_id"`
	GeofenceID primitive.ObjectID `json:"geofence_id" bson:"geofence_id"`
	Value      ContainmentValue   `json:"value" bson:"value"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

func ContainmentFromBool(inside bool) ContainmentValue {
	if inside {
		return ContainmentInside
	}
	return ContainmentOutside
}
