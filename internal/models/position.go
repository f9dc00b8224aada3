package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Position is one immutable location sample reported by a device, ordered by
// timestamp per device.
type Position struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	DeviceID     primitive.ObjectID `json:"device_id" bson:"device_id" validate:"required"`
	Latitude     float64            `json:"latitude" bson:"latitude" validate:"required"`
	Longitude    float64            `json:"longitude" bson:"longitude" validate:"required"`
	SpeedKPH     float64            `json:"speed_kph" bson:"speed_kph"`
	BatteryLevel float64            `json:"battery_level" bson:"battery_level"`
	Altitude     float64            `json:"altitude" bson:"altitude"`
	Course       float64            `json:"course" bson:"course"`
	Timestamp    time.Time          `json:"timestamp" bson:"timestamp"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}
