package mongodb

import (
	"context"
	"fmt"
	"time"

	"fleettrack/internal/models"
	"fleettrack/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type containmentRepository struct {
	collection *mongo.Collection
}

func NewContainmentRepository(db *mongo.Database) interfaces.ContainmentRepository {
	return &containmentRepository{
		collection: db.Collection("containment_states"),
	}
}

func (r *containmentRepository) Get(ctx context.Context, deviceID, geofenceID primitive.ObjectID) (models.ContainmentValue, error) {
	var state models.ContainmentState
	err := r.collection.FindOne(ctx, bson.M{
		"device_id":   deviceID,
		"geofence_id": geofenceID,
	}).Decode(&state)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.ContainmentUnknown, nil
		}
		return models.ContainmentUnknown, fmt.Errorf("failed to get containment state: %w", err)
	}

	return state.Value, nil
}

func (r *containmentRepository) Set(ctx context.Context, deviceID, geofenceID primitive.ObjectID, value models.ContainmentValue) error {
	filter := bson.M{
		"device_id":   deviceID,
		"geofence_id": geofenceID,
	}
	update := bson.M{
		"$set": bson.M{
			"value":      value,
			"updated_at": time.Now(),
		},
		"$setOnInsert": bson.M{
			"device_id":   deviceID,
			"geofence_id": geofenceID,
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to set containment state: %w", err)
	}

	return nil
}

func (r *containmentRepository) DeleteByGeofence(ctx context.Context, geofenceID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"geofence_id": geofenceID})
	if err != nil {
		return fmt.Errorf("failed to delete containment states by geofence: %w", err)
	}

	return nil
}
