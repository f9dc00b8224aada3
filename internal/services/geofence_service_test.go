package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fleettrack/internal/models"
	"fleettrack/internal/utils"
)

func newTestGeofenceService(t *testing.T, geofenceRepo *fakeGeofenceRepo, containmentRepo *fakeContainmentRepo, devices ...*models.Device) *GeofenceService {
	t.Helper()
	return NewGeofenceService(geofenceRepo, containmentRepo, &fakeDeviceRepo{devices: devices}, testLogger(t))
}

func TestCreateGeofenceValidation(t *testing.T) {
	device := testDevice()
	svc := newTestGeofenceService(t, newFakeGeofenceRepo(), newFakeContainmentRepo(), device)

	tests := []struct {
		name      string
		geofence  *models.Geofence
		wantField string
	}{
		{
			"radius below minimum",
			&models.Geofence{
				DeviceID: device.ID, CustomerID: device.CustomerID, Name: "Tiny",
				Type: models.GeofenceTypeCircle, CenterLat: 19.43, CenterLng: -99.13, RadiusMeters: 10,
			},
			"radius_meters",
		},
		{
			"radius above maximum",
			&models.Geofence{
				DeviceID: device.ID, CustomerID: device.CustomerID, Name: "Huge",
				Type: models.GeofenceTypeCircle, CenterLat: 19.43, CenterLng: -99.13, RadiusMeters: 60000,
			},
			"radius_meters",
		},
		{
			"invalid center",
			&models.Geofence{
				DeviceID: device.ID, CustomerID: device.CustomerID, Name: "Nowhere",
				Type: models.GeofenceTypeCircle, CenterLat: 95, CenterLng: -99.13, RadiusMeters: 500,
			},
			"center",
		},
		{
			"too few vertices",
			&models.Geofence{
				DeviceID: device.ID, CustomerID: device.CustomerID, Name: "Line",
				Type:     models.GeofenceTypePolygon,
				Vertices: []utils.Point{{Lat: 19.42, Lng: -99.14}, {Lat: 19.44, Lng: -99.12}},
			},
			"vertices",
		},
		{
			"circle with vertices",
			&models.Geofence{
				DeviceID: device.ID, CustomerID: device.CustomerID, Name: "Mixed",
				Type: models.GeofenceTypeCircle, CenterLat: 19.43, CenterLng: -99.13, RadiusMeters: 500,
				Vertices: []utils.Point{{Lat: 19.42, Lng: -99.14}},
			},
			"vertices",
		},
		{
			"polygon with circle geometry",
			&models.Geofence{
				DeviceID: device.ID, CustomerID: device.CustomerID, Name: "Mixed",
				Type:      models.GeofenceTypePolygon,
				CenterLat: 19.43, CenterLng: -99.13, RadiusMeters: 500,
				Vertices: []utils.Point{
					{Lat: 19.42, Lng: -99.14}, {Lat: 19.44, Lng: -99.14}, {Lat: 19.44, Lng: -99.12},
				},
			},
			"center",
		},
		{
			"missing name",
			&models.Geofence{
				DeviceID: device.ID, CustomerID: device.CustomerID,
				Type: models.GeofenceTypeCircle, CenterLat: 19.43, CenterLng: -99.13, RadiusMeters: 500,
			},
			"name",
		},
		{
			"unknown type",
			&models.Geofence{
				DeviceID: device.ID, CustomerID: device.CustomerID, Name: "Blob", Type: "ellipse",
			},
			"type",
		},
		{
			"bad schedule clock",
			&models.Geofence{
				DeviceID: device.ID, CustomerID: device.CustomerID, Name: "Scheduled",
				Type: models.GeofenceTypeCircle, CenterLat: 19.43, CenterLng: -99.13, RadiusMeters: 500,
				Schedule: models.GeofenceSchedule{Enabled: true, Days: []time.Weekday{time.Monday}, Start: "25:00", End: "17:00"},
			},
			"schedule.start",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CreateGeofence(context.Background(), tt.geofence)
			var validationErr *utils.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("got %v, want validation error", err)
			}
			if _, ok := validationErr.Fields[tt.wantField]; !ok {
				t.Errorf("fields = %v, want %q flagged", validationErr.Fields, tt.wantField)
			}
		})
	}
}

func TestCreateGeofenceUnknownDevice(t *testing.T) {
	svc := newTestGeofenceService(t, newFakeGeofenceRepo(), newFakeContainmentRepo())

	err := svc.CreateGeofence(context.Background(), &models.Geofence{
		DeviceID: primitive.NewObjectID(), CustomerID: primitive.NewObjectID(), Name: "Orphan",
		Type: models.GeofenceTypeCircle, CenterLat: 19.43, CenterLng: -99.13, RadiusMeters: 500,
	})
	if !utils.IsNotFoundError(err) {
		t.Fatalf("got %v, want not-found", err)
	}
}

func TestCreateGeofenceSuccess(t *testing.T) {
	device := testDevice()
	geofenceRepo := newFakeGeofenceRepo()
	svc := newTestGeofenceService(t, geofenceRepo, newFakeContainmentRepo(), device)

	geofence := &models.Geofence{
		DeviceID: device.ID, CustomerID: device.CustomerID, Name: "Warehouse",
		Type: models.GeofenceTypeCircle, CenterLat: 19.43, CenterLng: -99.13, RadiusMeters: 500,
		AlertOnEnter: true,
	}
	if err := svc.CreateGeofence(context.Background(), geofence); err != nil {
		t.Fatalf("CreateGeofence returned error: %v", err)
	}

	if len(geofenceRepo.geofences) != 1 {
		t.Fatalf("stored %d geofences, want 1", len(geofenceRepo.geofences))
	}
	if geofence.ID.IsZero() || geofence.CreatedAt.IsZero() {
		t.Error("create must assign id and timestamps")
	}
}

func TestUpdateGeofenceMutableFieldsOnly(t *testing.T) {
	device := testDevice()
	geofence := circleGeofence(device.ID)
	geofenceRepo := newFakeGeofenceRepo(geofence)
	svc := newTestGeofenceService(t, geofenceRepo, newFakeContainmentRepo(), device)

	name := "New Name"
	active := false
	if _, err := svc.UpdateGeofence(context.Background(), geofence.ID, &GeofenceUpdate{
		Name:     &name,
		IsActive: &active,
	}); err != nil {
		t.Fatalf("UpdateGeofence returned error: %v", err)
	}

	updates := geofenceRepo.updates[geofence.ID]
	if updates["name"] != "New Name" {
		t.Errorf("name update missing: %v", updates)
	}
	if updates["is_active"] != false {
		t.Errorf("is_active update missing: %v", updates)
	}
	for _, frozen := range []string{"type", "center_lat", "center_lng", "radius_meters", "vertices"} {
		if _, ok := updates[frozen]; ok {
			t.Errorf("geometry field %q must never be updated", frozen)
		}
	}
}

func TestUpdateGeofenceRejectsEmptyName(t *testing.T) {
	device := testDevice()
	geofence := circleGeofence(device.ID)
	svc := newTestGeofenceService(t, newFakeGeofenceRepo(geofence), newFakeContainmentRepo(), device)

	empty := ""
	_, err := svc.UpdateGeofence(context.Background(), geofence.ID, &GeofenceUpdate{Name: &empty})
	if !utils.IsValidationError(err) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestDeleteGeofenceCascadesContainment(t *testing.T) {
	device := testDevice()
	geofence := circleGeofence(device.ID)
	geofenceRepo := newFakeGeofenceRepo(geofence)
	containmentRepo := newFakeContainmentRepo()
	svc := newTestGeofenceService(t, geofenceRepo, containmentRepo, device)

	if err := svc.DeleteGeofence(context.Background(), geofence.ID); err != nil {
		t.Fatalf("DeleteGeofence returned error: %v", err)
	}

	if len(geofenceRepo.geofences) != 0 {
		t.Error("geofence should be removed")
	}
	if len(containmentRepo.deleted) != 1 || containmentRepo.deleted[0] != geofence.ID {
		t.Error("containment states must be cleared with the geofence")
	}
}

func TestDeleteGeofenceNotFound(t *testing.T) {
	svc := newTestGeofenceService(t, newFakeGeofenceRepo(), newFakeContainmentRepo())

	err := svc.DeleteGeofence(context.Background(), primitive.NewObjectID())
	if !utils.IsNotFoundError(err) {
		t.Fatalf("got %v, want not-found", err)
	}
}
