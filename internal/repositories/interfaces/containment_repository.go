package interfaces

import (
	"context"

	"fleettrack/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContainmentRepository stores the last known inside/outside value per
// (device, geofence) pair.
type ContainmentRepository interface {
	// Get returns ContainmentUnknown for pairs that were never evaluated.
	Get(ctx context.Context, deviceID, geofenceID primitive.ObjectID) (models.ContainmentValue, error)
	Set(ctx context.Context, deviceID, geofenceID primitive.ObjectID, value models.ContainmentValue) error
	DeleteByGeofence(ctx context.Context, geofenceID primitive.ObjectID) error
}
