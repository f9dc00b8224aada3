package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fleettrack/internal/models"
	"fleettrack/internal/repositories/interfaces"
	"fleettrack/internal/utils"
	"fleettrack/pkg/logger"
)

type GeofenceService struct {
	geofenceRepo    interfaces.GeofenceRepository
	containmentRepo interfaces.ContainmentRepository
	deviceRepo      interfaces.DeviceRepository
	logger          *logger.Logger
}

func NewGeofenceService(
	geofenceRepo interfaces.GeofenceRepository,
	containmentRepo interfaces.ContainmentRepository,
	deviceRepo interfaces.DeviceRepository,
	log *logger.Logger,
) *GeofenceService {
	return &GeofenceService{
		geofenceRepo:    geofenceRepo,
		containmentRepo: containmentRepo,
		deviceRepo:      deviceRepo,
		logger:          log,
	}
}

// GeofenceUpdate carries the mutable subset of a geofence. Geometry (type,
// center, radius, vertices) is fixed at creation; changing the shape means
// creating a new geofence so historical containment stays meaningful.
type GeofenceUpdate struct {
	Name         *string                  `json:"name,omitempty"`
	Icon         *string                  `json:"icon,omitempty"`
	Color        *string                  `json:"color,omitempty"`
	AlertOnEnter *bool                    `json:"alert_on_enter,omitempty"`
	AlertOnExit  *bool                    `json:"alert_on_exit,omitempty"`
	Schedule     *models.GeofenceSchedule `json:"schedule,omitempty"`
	IsActive     *bool                    `json:"is_active,omitempty"`
}

func (s *GeofenceService) CreateGeofence(ctx context.Context, geofence *models.Geofence) error {
	if fields := s.validateGeofence(geofence); len(fields) > 0 {
		return utils.NewValidationError(fields)
	}

	device, err := s.deviceRepo.GetByID(ctx, geofence.DeviceID)
	if err != nil {
		return err
	}
	if device == nil {
		return utils.NewNotFoundError("device")
	}

	now := time.Now()
	geofence.ID = primitive.NewObjectID()
	geofence.CreatedAt = now
	geofence.UpdatedAt = now

	if err := s.geofenceRepo.Create(ctx, geofence); err != nil {
		s.logger.WithError(err).WithDeviceID(geofence.DeviceID).Error("Failed to create geofence")
		return err
	}

	s.logger.WithGeofenceID(geofence.ID).WithDeviceID(geofence.DeviceID).
		WithField("type", geofence.Type).Info("Geofence created")
	return nil
}

func (s *GeofenceService) GetGeofence(ctx context.Context, id primitive.ObjectID) (*models.Geofence, error) {
	geofence, err := s.geofenceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if geofence == nil {
		return nil, utils.NewNotFoundError("geofence")
	}
	return geofence, nil
}

func (s *GeofenceService) ListGeofences(ctx context.Context, deviceID primitive.ObjectID) ([]*models.Geofence, error) {
	return s.geofenceRepo.ListByDevice(ctx, deviceID)
}

func (s *GeofenceService) UpdateGeofence(ctx context.Context, id primitive.ObjectID, update *GeofenceUpdate) (*models.Geofence, error) {
	existing, err := s.GetGeofence(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if update.Name != nil {
		if *update.Name == "" {
			return nil, utils.NewValidationError(map[string]string{"name": "name cannot be empty"})
		}
		updates["name"] = *update.Name
	}
	if update.Icon != nil {
		updates["icon"] = *update.Icon
	}
	if update.Color != nil {
		updates["color"] = *update.Color
	}
	if update.AlertOnEnter != nil {
		updates["alert_on_enter"] = *update.AlertOnEnter
	}
	if update.AlertOnExit != nil {
		updates["alert_on_exit"] = *update.AlertOnExit
	}
	if update.Schedule != nil {
		if fields := validateSchedule(update.Schedule); len(fields) > 0 {
			return nil, utils.NewValidationError(fields)
		}
		updates["schedule"] = *update.Schedule
	}
	if update.IsActive != nil {
		updates["is_active"] = *update.IsActive
	}

	if len(updates) == 0 {
		return existing, nil
	}
	updates["updated_at"] = time.Now()

	if err := s.geofenceRepo.Update(ctx, id, updates); err != nil {
		s.logger.WithError(err).WithGeofenceID(id).Error("Failed to update geofence")
		return nil, err
	}

	return s.GetGeofence(ctx, id)
}

// DeleteGeofence removes the geofence and its containment states so a future
// geofence reusing the id space starts from an unknown state.
func (s *GeofenceService) DeleteGeofence(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.GetGeofence(ctx, id); err != nil {
		return err
	}

	if err := s.geofenceRepo.Delete(ctx, id); err != nil {
		s.logger.WithError(err).WithGeofenceID(id).Error("Failed to delete geofence")
		return err
	}

	if err := s.containmentRepo.DeleteByGeofence(ctx, id); err != nil {
		s.logger.WithError(err).WithGeofenceID(id).Warn("Failed to clear containment states for deleted geofence")
	}

	s.logger.WithGeofenceID(id).Info("Geofence deleted")
	return nil
}

func (s *GeofenceService) validateGeofence(geofence *models.Geofence) map[string]string {
	fields := map[string]string{}

	if geofence.Name == "" {
		fields["name"] = "name is required"
	}
	if geofence.DeviceID.IsZero() {
		fields["device_id"] = "device_id is required"
	}
	if geofence.CustomerID.IsZero() {
		fields["customer_id"] = "customer_id is required"
	}

	switch geofence.Type {
	case models.GeofenceTypeCircle:
		if !utils.IsValidCoordinates(geofence.CenterLat, geofence.CenterLng) {
			fields["center"] = "invalid center coordinates"
		}
		if geofence.RadiusMeters < utils.MinGeofenceRadiusMeters || geofence.RadiusMeters > utils.MaxGeofenceRadiusMeters {
			fields["radius_meters"] = "radius must be between 50 and 50000 meters"
		}
		if len(geofence.Vertices) > 0 {
			fields["vertices"] = "circle geofence cannot have vertices"
		}

	case models.GeofenceTypePolygon:
		if len(geofence.Vertices) < utils.MinPolygonVertices {
			fields["vertices"] = "polygon requires at least 3 vertices"
		}
		for _, v := range geofence.Vertices {
			if !utils.IsValidCoordinates(v.Lat, v.Lng) {
				fields["vertices"] = "invalid vertex coordinates"
				break
			}
		}
		if geofence.CenterLat != 0 || geofence.CenterLng != 0 {
			fields["center"] = "polygon geofence cannot have a center"
		}
		if geofence.RadiusMeters != 0 {
			fields["radius_meters"] = "polygon geofence cannot have a radius"
		}

	default:
		fields["type"] = "type must be circle or polygon"
	}

	for k, v := range validateSchedule(&geofence.Schedule) {
		fields[k] = v
	}

	return fields
}

func validateSchedule(schedule *models.GeofenceSchedule) map[string]string {
	fields := map[string]string{}
	if !schedule.Enabled {
		return fields
	}

	if _, err := utils.ParseClock(schedule.Start); err != nil {
		fields["schedule.start"] = "start must be HH:MM"
	}
	if _, err := utils.ParseClock(schedule.End); err != nil {
		fields["schedule.end"] = "end must be HH:MM"
	}
	if len(schedule.Days) == 0 {
		fields["schedule.days"] = "at least one day is required"
	}
	for _, day := range schedule.Days {
		if day < time.Sunday || day > time.Saturday {
			fields["schedule.days"] = "invalid weekday"
			break
		}
	}
	return fields
}
