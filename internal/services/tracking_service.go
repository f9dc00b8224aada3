package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fleettrack/internal/models"
	"fleettrack/internal/repositories/interfaces"
	"fleettrack/internal/utils"
	"fleettrack/pkg/logger"
	"fleettrack/pkg/websocket"
)

// ErrDeviceInactive rejects samples from devices that were disabled; their
// history must stay frozen.
var ErrDeviceInactive = errors.New(utils.ErrDeviceInactive)

// GeofenceEvaluator runs the containment state machine for one sample.
type GeofenceEvaluator interface {
	Evaluate(ctx context.Context, device *models.Device, position *models.Position) ([]*models.AlertEvent, error)
}

// PositionCache holds the latest sample per device for cheap dashboard reads.
type PositionCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// IngestRequest is one report from a tracker, already decoded from the
// device protocol by the gateway.
type IngestRequest struct {
	IMEI         string    `json:"imei" binding:"required"`
	Latitude     float64   `json:"latitude" binding:"required"`
	Longitude    float64   `json:"longitude" binding:"required"`
	SpeedKPH     float64   `json:"speed_kph"`
	BatteryLevel float64   `json:"battery_level"`
	Altitude     float64   `json:"altitude"`
	Course       float64   `json:"course"`
	Timestamp    time.Time `json:"timestamp"`

	// Raw alarm flag from the tracker: "sos", "tamper", "removal".
	Alarm string `json:"alarm"`
}

// TrackingService is the position ingestion pipeline: persist the sample,
// run geofence evaluation, derive battery/speed/alarm alerts and fan the
// update out to live dashboards.
type TrackingService struct {
	deviceRepo   interfaces.DeviceRepository
	positionRepo interfaces.PositionRepository
	evaluator    GeofenceEvaluator
	alerts       AlertDispatcher
	cache        PositionCache  // nil disables the last-position cache
	hub          *websocket.Hub // nil disables live fanout
	logger       *logger.Logger
}

func NewTrackingService(
	deviceRepo interfaces.DeviceRepository,
	positionRepo interfaces.PositionRepository,
	evaluator GeofenceEvaluator,
	alerts AlertDispatcher,
	cache PositionCache,
	hub *websocket.Hub,
	log *logger.Logger,
) *TrackingService {
	return &TrackingService{
		deviceRepo:   deviceRepo,
		positionRepo: positionRepo,
		evaluator:    evaluator,
		alerts:       alerts,
		cache:        cache,
		hub:          hub,
		logger:       log,
	}
}

// Ingest processes one tracker report. The sample is persisted before any
// alerting runs; evaluation or dispatch failures never lose the position.
func (s *TrackingService) Ingest(ctx context.Context, req *IngestRequest) (*models.Position, error) {
	if !utils.IsValidCoordinates(req.Latitude, req.Longitude) {
		return nil, utils.NewValidationError(map[string]string{"coordinates": "invalid latitude/longitude"})
	}

	device, err := s.deviceRepo.GetByIMEI(ctx, req.IMEI)
	if err != nil {
		return nil, err
	}
	if device == nil {
		return nil, utils.NewNotFoundError("device")
	}
	if !device.IsActive {
		return nil, ErrDeviceInactive
	}

	previous, err := s.positionRepo.GetLatest(ctx, device.ID)
	if err != nil {
		// A device's very first sample has no predecessor.
		if !utils.IsNotFoundError(err) {
			s.logger.WithError(err).WithDeviceID(device.ID).Warn("Failed to load previous position")
		}
		previous = nil
	}

	now := time.Now()
	timestamp := req.Timestamp
	if timestamp.IsZero() {
		timestamp = now
	}

	position := &models.Position{
		ID:           primitive.NewObjectID(),
		DeviceID:     device.ID,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		SpeedKPH:     req.SpeedKPH,
		BatteryLevel: req.BatteryLevel,
		Altitude:     req.Altitude,
		Course:       req.Course,
		Timestamp:    timestamp,
		CreatedAt:    now,
	}

	if err := s.positionRepo.Create(ctx, position); err != nil {
		s.logger.WithError(err).WithDeviceID(device.ID).Error("Failed to persist position")
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, lastPositionKey(device.ID), position, utils.LastPositionCacheTTL); err != nil {
			s.logger.WithError(err).WithDeviceID(device.ID).Debug("Failed to cache last position")
		}
	}

	events, err := s.evaluator.Evaluate(ctx, device, position)
	if err != nil {
		s.logger.WithError(err).WithDeviceID(device.ID).Error("Geofence evaluation failed")
		events = nil
	}
	events = append(events, s.derivedEvents(device, previous, position, req.Alarm)...)

	for _, event := range events {
		s.alerts.Enqueue(event)
	}

	s.broadcastPosition(device, position)
	return position, nil
}

// derivedEvents produces the non-geofence alerts for this sample. Battery
// and speed alerts are edge-triggered against the previous sample so a
// device parked below its battery threshold does not page on every report.
func (s *TrackingService) derivedEvents(device *models.Device, previous, position *models.Position, alarm string) []*models.AlertEvent {
	var events []*models.AlertEvent

	batteryLevel := device.BatteryAlertLevel
	if batteryLevel <= 0 {
		batteryLevel = utils.DefaultBatteryAlertLevel
	}
	if position.BatteryLevel > 0 && position.BatteryLevel <= batteryLevel {
		if previous == nil || previous.BatteryLevel > batteryLevel || previous.BatteryLevel == 0 {
			events = append(events, &models.AlertEvent{
				Kind:         models.AlertKindLowBattery,
				Device:       device,
				Position:     position,
				OccurredAt:   position.Timestamp,
				BatteryLevel: position.BatteryLevel,
			})
		}
	}

	if device.SpeedLimitKPH > 0 && position.SpeedKPH > device.SpeedLimitKPH {
		if previous == nil || previous.SpeedKPH <= device.SpeedLimitKPH {
			events = append(events, &models.AlertEvent{
				Kind:          models.AlertKindSpeedAlert,
				Device:        device,
				Position:      position,
				OccurredAt:    position.Timestamp,
				SpeedKPH:      position.SpeedKPH,
				SpeedLimitKPH: device.SpeedLimitKPH,
			})
		}
	}

	switch alarm {
	case "sos":
		events = append(events, &models.AlertEvent{
			Kind:       models.AlertKindPanic,
			Device:     device,
			Position:   position,
			OccurredAt: position.Timestamp,
		})
	case "tamper", "removal":
		events = append(events, &models.AlertEvent{
			Kind:       models.AlertKindDeviceRemoval,
			Device:     device,
			Position:   position,
			OccurredAt: position.Timestamp,
		})
	}

	return events
}

func (s *TrackingService) broadcastPosition(device *models.Device, position *models.Position) {
	if s.hub == nil {
		return
	}

	msg := websocket.Message{
		Type:      "position_update",
		DeviceID:  device.ID.Hex(),
		Timestamp: position.Timestamp.Unix(),
		Data: map[string]interface{}{
			"latitude":      position.Latitude,
			"longitude":     position.Longitude,
			"speed_kph":     position.SpeedKPH,
			"battery_level": position.BatteryLevel,
			"course":        position.Course,
		},
	}

	s.hub.SendToCustomer(device.CustomerID, msg)
	s.hub.SendDeviceUpdate(device.ID, msg)
}

// GetLatestPosition serves the live map: cache first, then storage.
func (s *TrackingService) GetLatestPosition(ctx context.Context, deviceID primitive.ObjectID) (*models.Position, error) {
	if s.cache != nil {
		var cached models.Position
		if err := s.cache.Get(ctx, lastPositionKey(deviceID), &cached); err == nil {
			return &cached, nil
		}
	}

	position, err := s.positionRepo.GetLatest(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if position == nil {
		return nil, utils.NewNotFoundError("position")
	}
	return position, nil
}

func (s *TrackingService) GetPositionHistory(ctx context.Context, deviceID primitive.ObjectID, from, to time.Time, params *utils.PaginationParams) ([]*models.Position, int64, error) {
	return s.positionRepo.ListByDevice(ctx, deviceID, from, to, params)
}

func lastPositionKey(deviceID primitive.ObjectID) string {
	return "last_position_" + deviceID.Hex()
}
