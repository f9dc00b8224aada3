package interfaces

import (
	"context"

	"fleettrack/internal/models"
	"fleettrack/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error)
	GetByCustomer(ctx context.Context, customerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Notification, int64, error)
	GetUnreadByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]*models.Notification, error)
	GetUnreadCount(ctx context.Context, customerID primitive.ObjectID) (int64, error)

	// MarkAsRead and MarkAsPushSent are monotonic: they are no-ops when the
	// flag is already set and never reset timestamps.
	MarkAsRead(ctx context.Context, id primitive.ObjectID) error
	MarkAllAsRead(ctx context.Context, customerID primitive.ObjectID) error
	MarkAsPushSent(ctx context.Context, id primitive.ObjectID) error

	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByCustomer(ctx context.Context, customerID primitive.ObjectID) error
}
