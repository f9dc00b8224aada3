package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fleettrack/internal/models"
	"fleettrack/internal/repositories/interfaces"
	"fleettrack/internal/utils"
	"fleettrack/pkg/logger"
)

// NotificationService exposes the per-customer notification feed. Read and
// push-sent flags are monotonic: marking twice is a no-op and the original
// timestamp survives.
type NotificationService struct {
	notificationRepo interfaces.NotificationRepository
	logger           *logger.Logger
}

func NewNotificationService(notificationRepo interfaces.NotificationRepository, log *logger.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		logger:           log,
	}
}

func (s *NotificationService) GetNotifications(ctx context.Context, customerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Notification, int64, error) {
	return s.notificationRepo.GetByCustomer(ctx, customerID, params)
}

func (s *NotificationService) GetUnreadNotifications(ctx context.Context, customerID primitive.ObjectID) ([]*models.Notification, error) {
	return s.notificationRepo.GetUnreadByCustomer(ctx, customerID)
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, customerID primitive.ObjectID) (int64, error) {
	return s.notificationRepo.GetUnreadCount(ctx, customerID)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, customerID, notificationID primitive.ObjectID) error {
	notification, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification == nil || notification.CustomerID != customerID {
		return utils.NewNotFoundError("notification")
	}
	if notification.IsRead {
		return nil
	}

	return s.notificationRepo.MarkAsRead(ctx, notificationID)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, customerID primitive.ObjectID) error {
	if err := s.notificationRepo.MarkAllAsRead(ctx, customerID); err != nil {
		s.logger.WithError(err).WithCustomerID(customerID).Error("Failed to mark all notifications read")
		return err
	}
	return nil
}

func (s *NotificationService) DeleteNotification(ctx context.Context, customerID, notificationID primitive.ObjectID) error {
	notification, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification == nil || notification.CustomerID != customerID {
		return utils.NewNotFoundError("notification")
	}

	return s.notificationRepo.Delete(ctx, notificationID)
}

// DeleteAllNotifications clears the customer's entire feed.
func (s *NotificationService) DeleteAllNotifications(ctx context.Context, customerID primitive.ObjectID) error {
	if err := s.notificationRepo.DeleteByCustomer(ctx, customerID); err != nil {
		s.logger.WithError(err).WithCustomerID(customerID).Error("Failed to delete notifications")
		return err
	}
	return nil
}
