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

type notificationRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewNotificationRepository(db *mongo.Database, cache CacheService) interfaces.NotificationRepository {
	return &notificationRepository{
		collection: db.Collection("notifications"),
		cache:      cache,
	}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()
	notification.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, notification)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	r.invalidateUnreadCountCache(ctx, notification.CustomerID)

	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	var notification models.Notification
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&notification)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("notification")
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	return &notification, nil
}

func (r *notificationRepository) GetByCustomer(ctx context.Context, customerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Notification, int64, error) {
	filter := bson.M{"customer_id": customerID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []*models.Notification
	for cursor.Next(ctx) {
		var notification models.Notification
		if err := cursor.Decode(&notification); err != nil {
			return nil, 0, fmt.Errorf("failed to decode notification: %w", err)
		}
		notifications = append(notifications, &notification)
	}

	return notifications, total, nil
}

func (r *notificationRepository) GetUnreadByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]*models.Notification, error) {
	filter := bson.M{
		"customer_id": customerID,
		"is_read":     false,
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find unread notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []*models.Notification
	for cursor.Next(ctx) {
		var notification models.Notification
		if err := cursor.Decode(&notification); err != nil {
			return nil, fmt.Errorf("failed to decode notification: %w", err)
		}
		notifications = append(notifications, &notification)
	}

	return notifications, nil
}

func (r *notificationRepository) GetUnreadCount(ctx context.Context, customerID primitive.ObjectID) (int64, error) {
	cacheKey := fmt.Sprintf("unread_count_%s", customerID.Hex())
	if r.cache != nil {
		var count int64
		if err := r.cache.Get(ctx, cacheKey, &count); err == nil {
			return count, nil
		}
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{
		"customer_id": customerID,
		"is_read":     false,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	if r.cache != nil {
		r.cache.Set(ctx, cacheKey, count, utils.UnreadCountCacheTTL)
	}

	return count, nil
}

// MarkAsRead only touches unread rows, so read_at is written once and a
// repeat call is a no-op.
func (r *notificationRepository) MarkAsRead(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now()
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "is_read": false},
		bson.M{"$set": bson.M{
			"is_read":    true,
			"read_at":    now,
			"updated_at": now,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	if result.MatchedCount == 0 {
		// Either already read (no-op) or missing.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return nil
	}

	notification, err := r.GetByID(ctx, id)
	if err == nil {
		r.invalidateUnreadCountCache(ctx, notification.CustomerID)
	}

	return nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, customerID primitive.ObjectID) error {
	now := time.Now()
	_, err := r.collection.UpdateMany(
		ctx,
		bson.M{"customer_id": customerID, "is_read": false},
		bson.M{"$set": bson.M{
			"is_read":    true,
			"read_at":    now,
			"updated_at": now,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}

	r.invalidateUnreadCountCache(ctx, customerID)

	return nil
}

// MarkAsPushSent follows the same monotonic pattern as MarkAsRead.
func (r *notificationRepository) MarkAsPushSent(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now()
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "push_sent": false},
		bson.M{"$set": bson.M{
			"push_sent":    true,
			"push_sent_at": now,
			"updated_at":   now,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification as push sent: %w", err)
	}

	if result.MatchedCount == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return nil
	}

	return nil
}

func (r *notificationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	notification, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}

	r.invalidateUnreadCountCache(ctx, notification.CustomerID)

	return nil
}

func (r *notificationRepository) DeleteByCustomer(ctx context.Context, customerID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"customer_id": customerID})
	if err != nil {
		return fmt.Errorf("failed to delete notifications by customer: %w", err)
	}

	r.invalidateUnreadCountCache(ctx, customerID)

	return nil
}

func (r *notificationRepository) invalidateUnreadCountCache(ctx context.Context, customerID primitive.ObjectID) {
	if r.cache != nil {
		cacheKey := fmt.Sprintf("unread_count_%s", customerID.Hex())
		r.cache.Delete(ctx, cacheKey)
	}
}
