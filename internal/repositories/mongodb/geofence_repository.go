package mongodb

import (
	"context"
	"fmt"
	"time"

	"fleettrack/internal/models"
	"fleettrack/internal/repositories/interfaces"
	"fleettrack/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type geofenceRepository struct {
	collection *mongo.Collection
}

func NewGeofenceRepository(db *mongo.Database) interfaces.GeofenceRepository {
	return &geofenceRepository{
		collection: db.Collection("geofences"),
	}
}

func (r *geofenceRepository) Create(ctx context.Context, geofence *models.Geofence) error {
	geofence.ID = primitive.NewObjectID()
	geofence.CreatedAt = time.Now()
	geofence.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, geofence)
	if err != nil {
		return fmt.Errorf("failed to create geofence: %w", err)
	}

	return nil
}

func (r *geofenceRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Geofence, error) {
	var geofence models.Geofence
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&geofence)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("geofence")
		}
		return nil, fmt.Errorf("failed to get geofence: %w", err)
	}

	return &geofence, nil
}

func (r *geofenceRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update geofence: %w", err)
	}

	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("geofence")
	}

	return nil
}

func (r *geofenceRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete geofence: %w", err)
	}

	if result.DeletedCount == 0 {
		return utils.NewNotFoundError("geofence")
	}

	return nil
}

func (r *geofenceRepository) ListByDevice(ctx context.Context, deviceID primitive.ObjectID) ([]*models.Geofence, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"device_id": deviceID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find geofences: %w", err)
	}
	defer cursor.Close(ctx)

	var geofences []*models.Geofence
	for cursor.Next(ctx) {
		var geofence models.Geofence
		if err := cursor.Decode(&geofence); err != nil {
			return nil, fmt.Errorf("failed to decode geofence: %w", err)
		}
		geofences = append(geofences, &geofence)
	}

	return geofences, nil
}
