package interfaces

import (
	"context"
	"time"

	"fleettrack/internal/models"
	"fleettrack/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PositionRepository interface {
	Create(ctx context.Context, position *models.Position) error
	GetLatest(ctx context.Context, deviceID primitive.ObjectID) (*models.Position, error)
	ListByDevice(ctx context.Context, deviceID primitive.ObjectID, from, to time.Time, params *utils.PaginationParams) ([]*models.Position, int64, error)
}
