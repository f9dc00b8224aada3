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

type positionRepository struct {
	collection *mongo.Collection
}

func NewPositionRepository(db *mongo.Database) interfaces.PositionRepository {
	return &positionRepository{
		collection: db.Collection("positions"),
	}
}

func (r *positionRepository) Create(ctx context.Context, position *models.Position) error {
	position.ID = primitive.NewObjectID()
	position.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, position)
	if err != nil {
		return fmt.Errorf("failed to create position: %w", err)
	}

	return nil
}

func (r *positionRepository) GetLatest(ctx context.Context, deviceID primitive.ObjectID) (*models.Position, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})

	var position models.Position
	err := r.collection.FindOne(ctx, bson.M{"device_id": deviceID}, opts).Decode(&position)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("position")
		}
		return nil, fmt.Errorf("failed to get latest position: %w", err)
	}

	return &position, nil
}

func (r *positionRepository) ListByDevice(ctx context.Context, deviceID primitive.ObjectID, from, to time.Time, params *utils.PaginationParams) ([]*models.Position, int64, error) {
	filter := bson.M{"device_id": deviceID}
	if !from.IsZero() || !to.IsZero() {
		timeFilter := bson.M{}
		if !from.IsZero() {
			timeFilter["$gte"] = from
		}
		if !to.IsZero() {
			timeFilter["$lte"] = to
		}
		filter["timestamp"] = timeFilter
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count positions: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find positions: %w", err)
	}
	defer cursor.Close(ctx)

	var positions []*models.Position
	for cursor.Next(ctx) {
		var position models.Position
		if err := cursor.Decode(&position); err != nil {
			return nil, 0, fmt.Errorf("failed to decode position: %w", err)
		}
		positions = append(positions, &position)
	}

	return positions, total, nil
}
