package mongodb

import (
	"context"
	"fmt"

	"fleettrack/internal/models"
	"fleettrack/internal/repositories/interfaces"
	"fleettrack/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type deviceRepository struct {
	collection *mongo.Collection
}

func NewDeviceRepository(db *mongo.Database) interfaces.DeviceRepository {
	return &deviceRepository{
		collection: db.Collection("devices"),
	}
}

func (r *deviceRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Device, error) {
	var device models.Device
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&device)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("device")
		}
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	return &device, nil
}

func (r *deviceRepository) GetByIMEI(ctx context.Context, imei string) (*models.Device, error) {
	var device models.Device
	err := r.collection.FindOne(ctx, bson.M{"imei": imei}).Decode(&device)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("device")
		}
		return nil, fmt.Errorf("failed to get device by imei: %w", err)
	}

	return &device, nil
}
