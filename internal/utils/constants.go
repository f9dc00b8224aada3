package utils

import "time"

// Application Constants
const (
	AppName    = "FleetTrack"
	AppVersion = "1.0.0"

	// Default values
	DefaultLanguage = "en"
	DefaultTimeZone = "UTC"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Geofence geometry
	MinGeofenceRadiusMeters = 50.0
	MaxGeofenceRadiusMeters = 50000.0
	MinPolygonVertices      = 3

	// Tracking defaults
	DefaultBatteryAlertLevel = 20.0 // percent
	DefaultSpeedLimitKPH     = 0.0  // 0 disables speed alerts

	// Notification delivery
	DefaultDeliveryTimeout = 5 * time.Second
	DefaultAlertQueueSize  = 1024
	DefaultAlertWorkers    = 4

	// Cache
	UnreadCountCacheTTL  = 5 * time.Minute
	LastPositionCacheTTL = 10 * time.Minute
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrValidationFailed = "validation failed"
	ErrInternalServer   = "internal server error"
	ErrUnauthorized     = "unauthorized"
	ErrForbidden        = "forbidden"
	ErrDeviceNotFound   = "device not found"
	ErrDeviceInactive   = "device is not active"
	ErrGeofenceNotFound = "geofence not found"
)
