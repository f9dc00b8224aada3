package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AlertKind string

const (
	AlertKindGeofenceEnter    AlertKind = "geofence_enter"
	AlertKindGeofenceExit     AlertKind = "geofence_exit"
	AlertKindLowBattery       AlertKind = "low_battery"
	AlertKindSpeedAlert       AlertKind = "speed_alert"
	AlertKindPanic            AlertKind = "panic"
	AlertKindDeviceRemoval    AlertKind = "device_removal"
	AlertKindSubscriptionPaid AlertKind = "subscription_paid"
)

// AlertEvent is the transient value carried from evaluation to the
// dispatcher. It is never persisted; the dispatcher turns it into
// per-recipient Notification rows.
type AlertEvent struct {
	Kind       AlertKind
	Device     *Device
	Position   *Position
	OccurredAt time.Time

	// geofence_enter / geofence_exit
	Geofence *Geofence

	// low_battery
	BatteryLevel float64

	// speed_alert
	SpeedKPH      float64
	SpeedLimitKPH float64

	// panic; resolved by the dispatcher when nil
	Contacts []*EmergencyContact

	// subscription_paid; DeviceID identifies the device when no full
	// Device is loaded
	CustomerID primitive.ObjectID
	DeviceID   primitive.ObjectID
	PlanName   string
	PaidUntil  time.Time
}

// NotificationType maps the alert kind onto the persisted notification type.
func (e *AlertEvent) NotificationType() NotificationType {
	return NotificationType(e.Kind)
}
