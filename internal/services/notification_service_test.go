package services

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fleettrack/internal/models"
	"fleettrack/internal/utils"
)

func seedNotification(repo *fakeNotificationRepo, customerID primitive.ObjectID, read bool) *models.Notification {
	n := &models.Notification{
		ID:         primitive.NewObjectID(),
		CustomerID: customerID,
		Type:       models.NotificationTypeGeofenceEnter,
		Title:      "Geofence Alert",
		Message:    "Van entered Warehouse",
		IsRead:     read,
		CreatedAt:  time.Now(),
	}
	if read {
		at := time.Now().Add(-time.Hour)
		n.ReadAt = &at
	}
	repo.rows = append(repo.rows, n)
	return n
}

func TestMarkAsRead(t *testing.T) {
	customerID := primitive.NewObjectID()
	repo := &fakeNotificationRepo{}
	n := seedNotification(repo, customerID, false)
	svc := NewNotificationService(repo, testLogger(t))

	if err := svc.MarkAsRead(context.Background(), customerID, n.ID); err != nil {
		t.Fatalf("MarkAsRead returned error: %v", err)
	}
	if !n.IsRead || n.ReadAt == nil {
		t.Error("notification should be read with a timestamp")
	}
}

func TestMarkAsReadIsIdempotent(t *testing.T) {
	customerID := primitive.NewObjectID()
	repo := &fakeNotificationRepo{}
	n := seedNotification(repo, customerID, true)
	originalReadAt := *n.ReadAt
	svc := NewNotificationService(repo, testLogger(t))

	if err := svc.MarkAsRead(context.Background(), customerID, n.ID); err != nil {
		t.Fatalf("second MarkAsRead returned error: %v", err)
	}
	if len(repo.markReadIDs) != 0 {
		t.Error("already-read notification should not hit the repository again")
	}
	if !n.ReadAt.Equal(originalReadAt) {
		t.Error("read_at timestamp must not move on repeat marks")
	}
}

func TestMarkAsReadRejectsOtherCustomers(t *testing.T) {
	repo := &fakeNotificationRepo{}
	n := seedNotification(repo, primitive.NewObjectID(), false)
	svc := NewNotificationService(repo, testLogger(t))

	err := svc.MarkAsRead(context.Background(), primitive.NewObjectID(), n.ID)
	if !utils.IsNotFoundError(err) {
		t.Fatalf("foreign notification: got %v, want not-found", err)
	}
	if n.IsRead {
		t.Error("foreign notification must stay unread")
	}
}

func TestMarkAllAsRead(t *testing.T) {
	customerID := primitive.NewObjectID()
	repo := &fakeNotificationRepo{}
	seedNotification(repo, customerID, false)
	seedNotification(repo, customerID, false)
	other := seedNotification(repo, primitive.NewObjectID(), false)
	svc := NewNotificationService(repo, testLogger(t))

	if err := svc.MarkAllAsRead(context.Background(), customerID); err != nil {
		t.Fatalf("MarkAllAsRead returned error: %v", err)
	}

	count, _ := svc.GetUnreadCount(context.Background(), customerID)
	if count != 0 {
		t.Errorf("unread count = %d, want 0", count)
	}
	if other.IsRead {
		t.Error("other customers' notifications must be untouched")
	}
}

func TestDeleteNotificationRejectsOtherCustomers(t *testing.T) {
	repo := &fakeNotificationRepo{}
	n := seedNotification(repo, primitive.NewObjectID(), false)
	svc := NewNotificationService(repo, testLogger(t))

	err := svc.DeleteNotification(context.Background(), primitive.NewObjectID(), n.ID)
	if !utils.IsNotFoundError(err) {
		t.Fatalf("foreign delete: got %v, want not-found", err)
	}
	if len(repo.rows) != 1 {
		t.Error("foreign delete must not remove the row")
	}
}

func TestDeleteAllNotifications(t *testing.T) {
	customerID := primitive.NewObjectID()
	repo := &fakeNotificationRepo{}
	seedNotification(repo, customerID, false)
	seedNotification(repo, customerID, true)
	other := seedNotification(repo, primitive.NewObjectID(), false)
	svc := NewNotificationService(repo, testLogger(t))

	if err := svc.DeleteAllNotifications(context.Background(), customerID); err != nil {
		t.Fatalf("DeleteAllNotifications returned error: %v", err)
	}

	if len(repo.rows) != 1 || repo.rows[0].ID != other.ID {
		t.Errorf("kept %d rows, want only the other customer's row", len(repo.rows))
	}
}

func TestGetUnreadNotifications(t *testing.T) {
	customerID := primitive.NewObjectID()
	repo := &fakeNotificationRepo{}
	seedNotification(repo, customerID, true)
	unread := seedNotification(repo, customerID, false)
	svc := NewNotificationService(repo, testLogger(t))

	got, err := svc.GetUnreadNotifications(context.Background(), customerID)
	if err != nil {
		t.Fatalf("GetUnreadNotifications returned error: %v", err)
	}
	if len(got) != 1 || got[0].ID != unread.ID {
		t.Errorf("got %d unread, want exactly the unread row", len(got))
	}
}
