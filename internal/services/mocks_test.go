package services

import (
	"context"
	"io"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fleettrack/internal/models"
	"fleettrack/internal/utils"
	"fleettrack/pkg/logger"
	"fleettrack/pkg/messaging"
	"fleettrack/pkg/push"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text"})
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}
	log.SetOutput(io.Discard)
	return log
}

// --- geofence repository ---

type fakeGeofenceRepo struct {
	geofences []*models.Geofence
	updates   map[primitive.ObjectID]map[string]interface{}
	listErr   error
}

func newFakeGeofenceRepo(geofences ...*models.Geofence) *fakeGeofenceRepo {
	return &fakeGeofenceRepo{
		geofences: geofences,
		updates:   make(map[primitive.ObjectID]map[string]interface{}),
	}
}

func (r *fakeGeofenceRepo) Create(ctx context.Context, geofence *models.Geofence) error {
	r.geofences = append(r.geofences, geofence)
	return nil
}

func (r *fakeGeofenceRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Geofence, error) {
	for _, g := range r.geofences {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, nil
}

func (r *fakeGeofenceRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.updates[id] = updates
	return nil
}

func (r *fakeGeofenceRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	for i, g := range r.geofences {
		if g.ID == id {
			r.geofences = append(r.geofences[:i], r.geofences[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeGeofenceRepo) ListByDevice(ctx context.Context, deviceID primitive.ObjectID) ([]*models.Geofence, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*models.Geofence
	for _, g := range r.geofences {
		if g.DeviceID == deviceID {
			out = append(out, g)
		}
	}
	return out, nil
}

// --- containment repository ---

type fakeContainmentRepo struct {
	states  map[string]models.ContainmentValue
	deleted []primitive.ObjectID
}

func newFakeContainmentRepo() *fakeContainmentRepo {
	return &fakeContainmentRepo{states: make(map[string]models.ContainmentValue)}
}

func containmentKey(deviceID, geofenceID primitive.ObjectID) string {
	return deviceID.Hex() + "/" + geofenceID.Hex()
}

func (r *fakeContainmentRepo) Get(ctx context.Context, deviceID, geofenceID primitive.ObjectID) (models.ContainmentValue, error) {
	if v, ok := r.states[containmentKey(deviceID, geofenceID)]; ok {
		return v, nil
	}
	return models.ContainmentUnknown, nil
}

func (r *fakeContainmentRepo) Set(ctx context.Context, deviceID, geofenceID primitive.ObjectID, value models.ContainmentValue) error {
	r.states[containmentKey(deviceID, geofenceID)] = value
	return nil
}

func (r *fakeContainmentRepo) DeleteByGeofence(ctx context.Context, geofenceID primitive.ObjectID) error {
	r.deleted = append(r.deleted, geofenceID)
	return nil
}

// --- device repository ---

type fakeDeviceRepo struct {
	devices []*models.Device
}

func (r *fakeDeviceRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Device, error) {
	for _, d := range r.devices {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, nil
}

func (r *fakeDeviceRepo) GetByIMEI(ctx context.Context, imei string) (*models.Device, error) {
	for _, d := range r.devices {
		if d.IMEI == imei {
			return d, nil
		}
	}
	return nil, nil
}

// --- position repository ---

type fakePositionRepo struct {
	positions []*models.Position
	createErr error
}

func (r *fakePositionRepo) Create(ctx context.Context, position *models.Position) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.positions = append(r.positions, position)
	return nil
}

func (r *fakePositionRepo) GetLatest(ctx context.Context, deviceID primitive.ObjectID) (*models.Position, error) {
	var latest *models.Position
	for _, p := range r.positions {
		if p.DeviceID != deviceID {
			continue
		}
		if latest == nil || p.Timestamp.After(latest.Timestamp) {
			latest = p
		}
	}
	return latest, nil
}

func (r *fakePositionRepo) ListByDevice(ctx context.Context, deviceID primitive.ObjectID, from, to time.Time, params *utils.PaginationParams) ([]*models.Position, int64, error) {
	var out []*models.Position
	for _, p := range r.positions {
		if p.DeviceID == deviceID && !p.Timestamp.Before(from) && !p.Timestamp.After(to) {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

// --- customer repository ---

type fakeCustomerRepo struct {
	customers map[primitive.ObjectID]*models.Customer
	shared    map[primitive.ObjectID][]*models.Customer
	contacts  map[primitive.ObjectID][]*models.EmergencyContact
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{
		customers: make(map[primitive.ObjectID]*models.Customer),
		shared:    make(map[primitive.ObjectID][]*models.Customer),
		contacts:  make(map[primitive.ObjectID][]*models.EmergencyContact),
	}
}

func (r *fakeCustomerRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error) {
	return r.customers[id], nil
}

func (r *fakeCustomerRepo) GetSharedForDevice(ctx context.Context, deviceID primitive.ObjectID) ([]*models.Customer, error) {
	return r.shared[deviceID], nil
}

func (r *fakeCustomerRepo) GetEmergencyContacts(ctx context.Context, customerID primitive.ObjectID) ([]*models.EmergencyContact, error) {
	return r.contacts[customerID], nil
}

// --- notification repository ---

type fakeNotificationRepo struct {
	rows         []*models.Notification
	pushSentIDs  []primitive.ObjectID
	markReadIDs  []primitive.ObjectID
	markAllCalls int
	createErr    error
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.rows = append(r.rows, notification)
	return nil
}

func (r *fakeNotificationRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	for _, n := range r.rows {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, nil
}

func (r *fakeNotificationRepo) GetByCustomer(ctx context.Context, customerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Notification, int64, error) {
	var out []*models.Notification
	for _, n := range r.rows {
		if n.CustomerID == customerID {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) GetUnreadByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]*models.Notification, error) {
	var out []*models.Notification
	for _, n := range r.rows {
		if n.CustomerID == customerID && !n.IsRead {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) GetUnreadCount(ctx context.Context, customerID primitive.ObjectID) (int64, error) {
	unread, _ := r.GetUnreadByCustomer(ctx, customerID)
	return int64(len(unread)), nil
}

func (r *fakeNotificationRepo) MarkAsRead(ctx context.Context, id primitive.ObjectID) error {
	r.markReadIDs = append(r.markReadIDs, id)
	for _, n := range r.rows {
		if n.ID == id && !n.IsRead {
			now := time.Now()
			n.IsRead = true
			n.ReadAt = &now
		}
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, customerID primitive.ObjectID) error {
	r.markAllCalls++
	for _, n := range r.rows {
		if n.CustomerID == customerID && !n.IsRead {
			now := time.Now()
			n.IsRead = true
			n.ReadAt = &now
		}
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAsPushSent(ctx context.Context, id primitive.ObjectID) error {
	r.pushSentIDs = append(r.pushSentIDs, id)
	for _, n := range r.rows {
		if n.ID == id && !n.PushSent {
			now := time.Now()
			n.PushSent = true
			n.PushSentAt = &now
		}
	}
	return nil
}

func (r *fakeNotificationRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	for i, n := range r.rows {
		if n.ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeNotificationRepo) DeleteByCustomer(ctx context.Context, customerID primitive.ObjectID) error {
	kept := r.rows[:0]
	for _, n := range r.rows {
		if n.CustomerID != customerID {
			kept = append(kept, n)
		}
	}
	r.rows = kept
	return nil
}

// --- outbound providers ---

type mockPushProvider struct {
	requests []*push.NotificationRequest
	sendFn   func(request *push.NotificationRequest) (*push.NotificationResponse, error)
}

func (p *mockPushProvider) SendNotification(ctx context.Context, request *push.NotificationRequest) (*push.NotificationResponse, error) {
	p.requests = append(p.requests, request)
	if p.sendFn != nil {
		return p.sendFn(request)
	}
	return &push.NotificationResponse{MessageID: "msg-1", Success: true}, nil
}

type mockMessagingProvider struct {
	whatsAppTo []string
	smsTo      []string
	whatsAppFn func(to string) error
	smsFn      func(to string) error
}

func (p *mockMessagingProvider) SendWhatsApp(ctx context.Context, to, message string) (*messaging.SendResult, error) {
	p.whatsAppTo = append(p.whatsAppTo, to)
	if p.whatsAppFn != nil {
		if err := p.whatsAppFn(to); err != nil {
			return nil, err
		}
	}
	return &messaging.SendResult{MessageID: "wa-1", Status: "sent"}, nil
}

func (p *mockMessagingProvider) SendSMS(ctx context.Context, to, message string) (*messaging.SendResult, error) {
	p.smsTo = append(p.smsTo, to)
	if p.smsFn != nil {
		if err := p.smsFn(to); err != nil {
			return nil, err
		}
	}
	return &messaging.SendResult{MessageID: "sms-1", Status: "sent"}, nil
}

// --- pipeline collaborators ---

type mockDispatcher struct {
	events []*models.AlertEvent
}

func (d *mockDispatcher) Enqueue(event *models.AlertEvent) {
	d.events = append(d.events, event)
}

type stubEvaluator struct {
	events []*models.AlertEvent
	err    error
}

func (e *stubEvaluator) Evaluate(ctx context.Context, device *models.Device, position *models.Position) ([]*models.AlertEvent, error) {
	return e.events, e.err
}
