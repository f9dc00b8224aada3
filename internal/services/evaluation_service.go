package services

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fleettrack/internal/models"
	"fleettrack/internal/repositories/interfaces"
	"fleettrack/internal/utils"
	"fleettrack/pkg/logger"
)

// EvaluationService runs the geofence containment state machine. For every
// position sample it compares the new inside/outside value of each geofence
// against the stored one and emits enter/exit events on transitions.
type EvaluationService struct {
	geofenceRepo    interfaces.GeofenceRepository
	containmentRepo interfaces.ContainmentRepository
	logger          *logger.Logger

	// Samples for the same device must be evaluated one at a time or two
	// concurrent reports could both observe the same previous state and
	// double-fire a transition.
	deviceLocks sync.Map
}

func NewEvaluationService(
	geofenceRepo interfaces.GeofenceRepository,
	containmentRepo interfaces.ContainmentRepository,
	log *logger.Logger,
) *EvaluationService {
	return &EvaluationService{
		geofenceRepo:    geofenceRepo,
		containmentRepo: containmentRepo,
		logger:          log,
	}
}

func (s *EvaluationService) lockDevice(deviceID primitive.ObjectID) *sync.Mutex {
	mu, _ := s.deviceLocks.LoadOrStore(deviceID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Evaluate processes one position sample against every geofence of the
// device, in geofence creation order. Returned events are enter/exit alerts
// ready for dispatch; state is persisted even when no event fires.
//
// A geofence's first ever observation only seeds the state, it never fires.
// While a geofence's schedule window is inactive the state still updates
// silently, so reactivation does not replay movements as spurious edges.
func (s *EvaluationService) Evaluate(ctx context.Context, device *models.Device, position *models.Position) ([]*models.AlertEvent, error) {
	mu := s.lockDevice(device.ID)
	mu.Lock()
	defer mu.Unlock()

	geofences, err := s.geofenceRepo.ListByDevice(ctx, device.ID)
	if err != nil {
		return nil, err
	}

	point := utils.Point{Lat: position.Latitude, Lng: position.Longitude}
	var events []*models.AlertEvent

	for _, geofence := range geofences {
		if !geofence.IsActive {
			continue
		}

		previous, err := s.containmentRepo.Get(ctx, device.ID, geofence.ID)
		if err != nil {
			s.logger.WithError(err).WithDeviceID(device.ID).WithGeofenceID(geofence.ID).
				Error("Failed to load containment state")
			continue
		}

		current := models.ContainmentFromBool(geofence.Contains(point))
		if current == previous {
			continue
		}

		if err := s.containmentRepo.Set(ctx, device.ID, geofence.ID, current); err != nil {
			s.logger.WithError(err).WithDeviceID(device.ID).WithGeofenceID(geofence.ID).
				Error("Failed to persist containment state")
			continue
		}

		if previous == models.ContainmentUnknown {
			continue
		}
		if !geofence.Schedule.IsActiveAt(position.Timestamp) {
			continue
		}

		if current == models.ContainmentInside && geofence.AlertOnEnter {
			events = append(events, s.transitionEvent(models.AlertKindGeofenceEnter, device, position, geofence))
		}
		if current == models.ContainmentOutside && geofence.AlertOnExit {
			events = append(events, s.transitionEvent(models.AlertKindGeofenceExit, device, position, geofence))
		}
	}

	return events, nil
}

func (s *EvaluationService) transitionEvent(kind models.AlertKind, device *models.Device, position *models.Position, geofence *models.Geofence) *models.AlertEvent {
	s.logger.WithDeviceID(device.ID).WithGeofenceID(geofence.ID).
		WithField("kind", string(kind)).Debug("Geofence transition")

	return &models.AlertEvent{
		Kind:       kind,
		Device:     device,
		Position:   position,
		OccurredAt: position.Timestamp,
		Geofence:   geofence,
	}
}
