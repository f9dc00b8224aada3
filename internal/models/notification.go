package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationTypeGeofenceEnter    NotificationType = "geofence_enter"
	NotificationTypeGeofenceExit     NotificationType = "geofence_exit"
	NotificationTypeLowBattery       NotificationType = "low_battery"
	NotificationTypeSpeedAlert       NotificationType = "speed_alert"
	NotificationTypePanic            NotificationType = "panic"
	NotificationTypeDeviceRemoval    NotificationType = "device_removal"
	NotificationTypeSubscriptionPaid NotificationType = "subscription_paid"
)

// Notification is the persisted in-app record, one row per recipient per
// alert. IsRead and PushSent only ever move false to true.
type Notification struct {
	ID         primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	CustomerID primitive.ObjectID     `json:"customer_id" bson:"customer_id" validate:"required"`
	Type       NotificationType       `json:"type" bson:"type" validate:"required"`
	Title      string                 `json:"title" bson:"title" validate:"required"`
	Message    string                 `json:"message" bson:"message" validate:"required"`
	Data       map[string]interface{} `json:"data" bson:"data"`
	IsRead     bool                   `json:"is_read" bson:"is_read"`
	ReadAt     *time.Time             `json:"read_at" bson:"read_at"`
	PushSent   bool                   `json:"push_sent" bson:"push_sent"`
	PushSentAt *time.Time             `json:"push_sent_at" bson:"push_sent_at"`
	CreatedAt  time.Time              `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at" bson:"updated_at"`
}
