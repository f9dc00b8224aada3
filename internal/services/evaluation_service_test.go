package services

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fleettrack/internal/models"
)

var (
	insidePoint  = [2]float64{19.4326, -99.1332}  // geofence center
	outsidePoint = [2]float64{19.4500, -99.1332}  // ~1.9km north
)

func testDevice() *models.Device {
	return &models.Device{
		ID:         primitive.NewObjectID(),
		CustomerID: primitive.NewObjectID(),
		IMEI:       "869000000000001",
		IsActive:   true,
	}
}

func circleGeofence(deviceID primitive.ObjectID) *models.Geofence {
	return &models.Geofence{
		ID:           primitive.NewObjectID(),
		DeviceID:     deviceID,
		Name:         "Warehouse",
		Type:         models.GeofenceTypeCircle,
		CenterLat:    insidePoint[0],
		CenterLng:    insidePoint[1],
		RadiusMeters: 500,
		AlertOnEnter: true,
		AlertOnExit:  true,
		IsActive:     true,
	}
}

func sampleAt(deviceID primitive.ObjectID, coords [2]float64, at time.Time) *models.Position {
	return &models.Position{
		ID:        primitive.NewObjectID(),
		DeviceID:  deviceID,
		Latitude:  coords[0],
		Longitude: coords[1],
		Timestamp: at,
	}
}

func TestEvaluateTransitionSequence(t *testing.T) {
	device := testDevice()
	geofence := circleGeofence(device.ID)
	geofenceRepo := newFakeGeofenceRepo(geofence)
	containmentRepo := newFakeContainmentRepo()
	svc := NewEvaluationService(geofenceRepo, containmentRepo, testLogger(t))

	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	sequence := []struct {
		coords    [2]float64
		wantKinds []models.AlertKind
	}{
		{outsidePoint, nil}, // first observation seeds silently
		{insidePoint, []models.AlertKind{models.AlertKindGeofenceEnter}},
		{insidePoint, nil}, // no transition, no event
		{outsidePoint, []models.AlertKind{models.AlertKindGeofenceExit}},
	}

	for i, step := range sequence {
		events, err := svc.Evaluate(context.Background(), device, sampleAt(device.ID, step.coords, at.Add(time.Duration(i)*time.Minute)))
		if err != nil {
			t.Fatalf("step %d: Evaluate returned error: %v", i, err)
		}
		if len(events) != len(step.wantKinds) {
			t.Fatalf("step %d: got %d events, want %d", i, len(events), len(step.wantKinds))
		}
		for j, want := range step.wantKinds {
			if events[j].Kind != want {
				t.Errorf("step %d event %d: kind = %s, want %s", i, j, events[j].Kind, want)
			}
			if events[j].Geofence.ID != geofence.ID {
				t.Errorf("step %d event %d: wrong geofence attached", i, j)
			}
		}
	}
}

func TestEvaluateFirstObservationInsideIsSilent(t *testing.T) {
	device := testDevice()
	geofence := circleGeofence(device.ID)
	svc := NewEvaluationService(newFakeGeofenceRepo(geofence), newFakeContainmentRepo(), testLogger(t))

	events, err := svc.Evaluate(context.Background(), device, sampleAt(device.ID, insidePoint, time.Now()))
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("first observation inside fired %d events, want 0", len(events))
	}
}

func TestEvaluateAlertFlagsGateEvents(t *testing.T) {
	device := testDevice()
	geofence := circleGeofence(device.ID)
	geofence.AlertOnEnter = false
	svc := NewEvaluationService(newFakeGeofenceRepo(geofence), newFakeContainmentRepo(), testLogger(t))

	ctx := context.Background()
	if _, err := svc.Evaluate(ctx, device, sampleAt(device.ID, outsidePoint, time.Now())); err != nil {
		t.Fatal(err)
	}

	events, err := svc.Evaluate(ctx, device, sampleAt(device.ID, insidePoint, time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Fatalf("enter with alert_on_enter=false fired %d events, want 0", len(events))
	}

	// Exit is still armed.
	events, err = svc.Evaluate(ctx, device, sampleAt(device.ID, outsidePoint, time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Kind != models.AlertKindGeofenceExit {
		t.Fatalf("exit with alert_on_exit=true fired %v, want one geofence_exit", events)
	}
}

func TestEvaluateInactiveGeofenceSkipped(t *testing.T) {
	device := testDevice()
	geofence := circleGeofence(device.ID)
	geofence.IsActive = false
	containmentRepo := newFakeContainmentRepo()
	svc := NewEvaluationService(newFakeGeofenceRepo(geofence), containmentRepo, testLogger(t))

	ctx := context.Background()
	if _, err := svc.Evaluate(ctx, device, sampleAt(device.ID, outsidePoint, time.Now())); err != nil {
		t.Fatal(err)
	}
	events, err := svc.Evaluate(ctx, device, sampleAt(device.ID, insidePoint, time.Now()))
	if err != nil {
		t.Fatal(err)
	}

	if len(events) != 0 {
		t.Fatalf("inactive geofence fired %d events, want 0", len(events))
	}
	if len(containmentRepo.states) != 0 {
		t.Error("inactive geofence should not even track state")
	}
}

func TestEvaluateScheduleSuppressesButUpdatesState(t *testing.T) {
	device := testDevice()
	geofence := circleGeofence(device.ID)
	// Active Mondays 09:00-17:00; 2024-01-01 was a Monday.
	geofence.Schedule = models.GeofenceSchedule{
		Enabled: true,
		Days:    []time.Weekday{time.Monday},
		Start:   "09:00",
		End:     "17:00",
	}
	containmentRepo := newFakeContainmentRepo()
	svc := NewEvaluationService(newFakeGeofenceRepo(geofence), containmentRepo, testLogger(t))

	ctx := context.Background()
	nightTime := time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC)
	dayTime := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	// Seed outside, then enter while the window is inactive.
	if _, err := svc.Evaluate(ctx, device, sampleAt(device.ID, outsidePoint, nightTime)); err != nil {
		t.Fatal(err)
	}
	events, err := svc.Evaluate(ctx, device, sampleAt(device.ID, insidePoint, nightTime.Add(time.Minute)))
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Fatalf("transition outside the window fired %d events, want 0", len(events))
	}

	// State must have advanced: staying inside when the window opens is not
	// a fresh enter.
	events, err = svc.Evaluate(ctx, device, sampleAt(device.ID, insidePoint, dayTime))
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Fatalf("window opening replayed %d events, want 0", len(events))
	}

	// A real transition inside the window still fires.
	events, err = svc.Evaluate(ctx, device, sampleAt(device.ID, outsidePoint, dayTime.Add(time.Minute)))
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Kind != models.AlertKindGeofenceExit {
		t.Fatalf("in-window exit fired %v, want one geofence_exit", events)
	}
}

func TestEvaluateMultipleGeofencesCreationOrder(t *testing.T) {
	device := testDevice()
	first := circleGeofence(device.ID)
	first.Name = "First"
	second := circleGeofence(device.ID)
	second.Name = "Second"
	svc := NewEvaluationService(newFakeGeofenceRepo(first, second), newFakeContainmentRepo(), testLogger(t))

	ctx := context.Background()
	if _, err := svc.Evaluate(ctx, device, sampleAt(device.ID, outsidePoint, time.Now())); err != nil {
		t.Fatal(err)
	}
	events, err := svc.Evaluate(ctx, device, sampleAt(device.ID, insidePoint, time.Now()))
	if err != nil {
		t.Fatal(err)
	}

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Geofence.Name != "First" || events[1].Geofence.Name != "Second" {
		t.Errorf("events out of creation order: %s, %s", events[0].Geofence.Name, events[1].Geofence.Name)
	}
}
