package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Device struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CustomerID        primitive.ObjectID `json:"customer_id" bson:"customer_id" validate:"required"`
	IMEI              string             `json:"imei" bson:"imei" validate:"required"`
	Name              string             `json:"name" bson:"name"`
	Plate             string             `json:"plate" bson:"plate"`
	Model             string             `json:"model" bson:"model"`
	SpeedLimitKPH     float64            `json:"speed_limit_kph" bson:"speed_limit_kph"`
	BatteryAlertLevel float64            `json:"battery_alert_level" bson:"battery_alert_level"`
	IsActive          bool               `json:"is_active" bson:"is_active" default:"true"`
	CreatedAt         time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at" bson:"updated_at"`
}

// DisplayName is the vehicle name used in notification text: alias, then
// plate, then IMEI.
func (d *Device) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	if d.Plate != "" {
		return d.Plate
	}
	return d.IMEI
}
