package interfaces

import (
	"context"

	"fleettrack/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GeofenceRepository interface {
	Create(ctx context.Context, geofence *models.Geofence) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Geofence, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// ListByDevice returns the device's geofences in creation order.
	ListByDevice(ctx context.Context, deviceID primitive.ObjectID) ([]*models.Geofence, error)
}
