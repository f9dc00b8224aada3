package interfaces

import (
	"context"

	"fleettrack/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DeviceRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Device, error)
	GetByIMEI(ctx context.Context, imei string) (*models.Device, error)
}
