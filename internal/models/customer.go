package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Customer struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name" validate:"required"`
	Phone       string             `json:"phone" bson:"phone"`
	Email       string             `json:"email" bson:"email"`
	DeviceToken string             `json:"device_token" bson:"device_token"`
	Platform    string             `json:"platform" bson:"platform"` // fcm, apns
	Locale      string             `json:"locale" bson:"locale"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// HasPushDestination reports whether the customer can receive push
// notifications.
func (c *Customer) HasPushDestination() bool {
	return c.DeviceToken != ""
}

// DeviceShare grants a customer read/alert access to a device owned by
// someone else.
type DeviceShare struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	DeviceID   primitive.ObjectID `json:"device_id" bson:"device_id" validate:"required"`
	CustomerID primitive.ObjectID `json:"customer_id" bson:"customer_id" validate:"required"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// EmergencyContact is paged over WhatsApp (or SMS) on panic alerts.
type EmergencyContact struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CustomerID     primitive.ObjectID `json:"customer_id" bson:"customer_id" validate:"required"`
	Name           string             `json:"name" bson:"name" validate:"required"`
	Phone          string             `json:"phone" bson:"phone" validate:"required"`
	NotifyWhatsapp bool               `json:"notify_whatsapp" bson:"notify_whatsapp" default:"true"`
	Priority       int                `json:"priority" bson:"priority"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}
