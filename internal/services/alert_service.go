package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fleettrack/internal/models"
	"fleettrack/internal/repositories/interfaces"
	"fleettrack/internal/utils"
	"fleettrack/pkg/logger"
	"fleettrack/pkg/maps"
	"fleettrack/pkg/messaging"
	"fleettrack/pkg/push"
	"fleettrack/pkg/websocket"
)

// AlertDispatcher accepts evaluated alert events for asynchronous fanout.
type AlertDispatcher interface {
	Enqueue(event *models.AlertEvent)
}

// AlertService turns alert events into per-recipient notification rows and
// delivers them over push, WhatsApp/SMS and websocket. Delivery is
// best-effort per recipient: one failed channel never blocks the others and
// never reaches the ingestion path.
type AlertService struct {
	notificationRepo interfaces.NotificationRepository
	customerRepo     interfaces.CustomerRepository
	pushProvider     push.Provider      // nil disables push
	msgProvider      messaging.Provider // nil disables contact paging
	geocoder         maps.Geocoder      // nil disables address enrichment
	hub              *websocket.Hub     // nil disables live fanout
	logger           *logger.Logger

	queue           chan *models.AlertEvent
	workers         int
	deliveryTimeout time.Duration

	wg       sync.WaitGroup
	stopOnce sync.Once
}

type AlertServiceOptions struct {
	QueueSize       int
	Workers         int
	DeliveryTimeout time.Duration
}

func NewAlertService(
	notificationRepo interfaces.NotificationRepository,
	customerRepo interfaces.CustomerRepository,
	pushProvider push.Provider,
	msgProvider messaging.Provider,
	geocoder maps.Geocoder,
	hub *websocket.Hub,
	log *logger.Logger,
	opts AlertServiceOptions,
) *AlertService {
	if opts.QueueSize <= 0 {
		opts.QueueSize = utils.DefaultAlertQueueSize
	}
	if opts.Workers <= 0 {
		opts.Workers = utils.DefaultAlertWorkers
	}
	if opts.DeliveryTimeout <= 0 {
		opts.DeliveryTimeout = utils.DefaultDeliveryTimeout
	}

	return &AlertService{
		notificationRepo: notificationRepo,
		customerRepo:     customerRepo,
		pushProvider:     pushProvider,
		msgProvider:      msgProvider,
		geocoder:         geocoder,
		hub:              hub,
		logger:           log,
		queue:            make(chan *models.AlertEvent, opts.QueueSize),
		workers:          opts.Workers,
		deliveryTimeout:  opts.DeliveryTimeout,
	}
}

func (s *AlertService) Start() {
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
	s.logger.WithField("workers", s.workers).Info("Alert dispatcher started")
}

// Stop drains queued events and waits for in-flight deliveries.
func (s *AlertService) Stop() {
	s.stopOnce.Do(func() {
		close(s.queue)
	})
	s.wg.Wait()
	s.logger.Info("Alert dispatcher stopped")
}

// Enqueue never blocks the caller. When the queue is saturated the event is
// dropped and logged; position ingestion must not stall on slow delivery.
func (s *AlertService) Enqueue(event *models.AlertEvent) {
	select {
	case s.queue <- event:
	default:
		s.logger.WithField("kind", string(event.Kind)).Warn("Alert queue full, event dropped")
	}
}

func (s *AlertService) worker() {
	defer s.wg.Done()
	for event := range s.queue {
		s.processEvent(event)
	}
}

func (s *AlertService) processEvent(event *models.AlertEvent) {
	title, message := s.renderContent(event)
	data := eventData(event)

	switch event.Kind {
	case models.AlertKindPanic:
		s.dispatchPanic(event, title, message, data)

	case models.AlertKindSubscriptionPaid:
		s.notifyCustomer(event.CustomerID, event, title, message, data, true)
		s.logger.LogAlertEvent(string(event.Kind), event.DeviceID, 1)

	default:
		recipients := s.resolveRecipients(event)
		for _, customerID := range recipients {
			s.notifyCustomer(customerID, event, title, message, data, true)
		}
		s.logger.LogAlertEvent(string(event.Kind), event.Device.ID, len(recipients))
	}
}

// resolveRecipients returns the device owner followed by every customer the
// device is shared with.
func (s *AlertService) resolveRecipients(event *models.AlertEvent) []primitive.ObjectID {
	ctx, cancel := context.WithTimeout(context.Background(), s.deliveryTimeout)
	defer cancel()

	recipients := []primitive.ObjectID{event.Device.CustomerID}

	shared, err := s.customerRepo.GetSharedForDevice(ctx, event.Device.ID)
	if err != nil {
		s.logger.WithError(err).WithDeviceID(event.Device.ID).Warn("Failed to resolve shared customers")
		return recipients
	}
	for _, customer := range shared {
		recipients = append(recipients, customer.ID)
	}
	return recipients
}

// notifyCustomer persists the notification row, then attempts delivery.
// Persistence always happens first so the in-app feed is complete even when
// every outbound channel fails.
func (s *AlertService) notifyCustomer(customerID primitive.ObjectID, event *models.AlertEvent, title, message string, data map[string]interface{}, sendPush bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.deliveryTimeout)
	defer cancel()

	now := time.Now()
	notification := &models.Notification{
		ID:         primitive.NewObjectID(),
		CustomerID: customerID,
		Type:       event.NotificationType(),
		Title:      title,
		Message:    message,
		Data:       data,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.logger.WithError(err).WithCustomerID(customerID).Error("Failed to persist notification")
		return
	}

	if s.hub != nil {
		s.hub.SendToCustomer(customerID, websocket.Message{
			Type:      "alert",
			Timestamp: now.Unix(),
			Data: map[string]interface{}{
				"notification_id": notification.ID.Hex(),
				"kind":            string(event.Kind),
				"title":           title,
				"message":         message,
			},
		})
	}

	if !sendPush || s.pushProvider == nil {
		return
	}

	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil || customer == nil || !customer.HasPushDestination() {
		return
	}

	pushData := make(map[string]string, len(data)+1)
	for k, v := range data {
		pushData[k] = fmt.Sprint(v)
	}
	// The client deep-links to the row and marks it read from the push.
	pushData["notification_id"] = notification.ID.Hex()

	resp, err := s.pushProvider.SendNotification(ctx, &push.NotificationRequest{
		Token:    customer.DeviceToken,
		Title:    title,
		Body:     message,
		Data:     pushData,
		Sound:    "default",
		Priority: "high",
	})
	if err != nil || (resp != nil && !resp.Success) {
		if err == nil {
			err = errors.New(resp.Error)
		}
		s.logger.LogDeliveryFailure("push", customerID.Hex(), err)
		return
	}

	if err := s.notificationRepo.MarkAsPushSent(ctx, notification.ID); err != nil {
		s.logger.WithError(err).Warn("Failed to mark notification push_sent")
	}
}

// dispatchPanic pages emergency contacts over WhatsApp with SMS fallback.
// The owner gets the persisted row and websocket message only; they raised
// the alarm themselves.
func (s *AlertService) dispatchPanic(event *models.AlertEvent, title, message string, data map[string]interface{}) {
	s.notifyCustomer(event.Device.CustomerID, event, title, message, data, false)

	contacts := event.Contacts
	if contacts == nil {
		ctx, cancel := context.WithTimeout(context.Background(), s.deliveryTimeout)
		loaded, err := s.customerRepo.GetEmergencyContacts(ctx, event.Device.CustomerID)
		cancel()
		if err != nil {
			s.logger.WithError(err).WithDeviceID(event.Device.ID).Error("Failed to load emergency contacts")
			return
		}
		contacts = loaded
	}

	delivered := 0
	for _, contact := range contacts {
		if s.pageContact(contact, message) {
			delivered++
		}
	}

	s.logger.LogAlertEvent(string(event.Kind), event.Device.ID, delivered+1)
}

// pageContact tries WhatsApp first for contacts that opted in, falling back
// to SMS when the provider cannot serve the channel or the send fails.
func (s *AlertService) pageContact(contact *models.EmergencyContact, message string) bool {
	if s.msgProvider == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.deliveryTimeout)
	defer cancel()

	if contact.NotifyWhatsapp {
		if _, err := s.msgProvider.SendWhatsApp(ctx, contact.Phone, message); err == nil {
			return true
		} else if !errors.Is(err, messaging.ErrChannelUnsupported) {
			s.logger.LogDeliveryFailure("whatsapp", contact.Phone, err)
		}
	}

	if _, err := s.msgProvider.SendSMS(ctx, contact.Phone, message); err != nil {
		s.logger.LogDeliveryFailure("sms", contact.Phone, utils.NewDeliveryError("sms", contact.Phone, err))
		return false
	}
	return true
}

func (s *AlertService) renderContent(event *models.AlertEvent) (string, string) {
	vehicle := ""
	if event.Device != nil {
		vehicle = event.Device.DisplayName()
	}

	switch event.Kind {
	case models.AlertKindGeofenceEnter:
		return "Geofence Alert", fmt.Sprintf("%s entered %s", vehicle, event.Geofence.Name)

	case models.AlertKindGeofenceExit:
		return "Geofence Alert", fmt.Sprintf("%s left %s", vehicle, event.Geofence.Name)

	case models.AlertKindLowBattery:
		return "Low Battery", fmt.Sprintf("%s battery is at %.0f%%", vehicle, event.BatteryLevel)

	case models.AlertKindSpeedAlert:
		return "Speed Alert", fmt.Sprintf("%s is moving at %.0f km/h (limit %.0f km/h)", vehicle, event.SpeedKPH, event.SpeedLimitKPH)

	case models.AlertKindPanic:
		return "SOS Alert", fmt.Sprintf("%s triggered an SOS alert near %s", vehicle, s.locationText(event))

	case models.AlertKindDeviceRemoval:
		return "Tamper Alert", fmt.Sprintf("%s tracker may have been removed", vehicle)

	case models.AlertKindSubscriptionPaid:
		return "Subscription Renewed", fmt.Sprintf("Your %s plan is active until %s", event.PlanName, event.PaidUntil.Format("Jan 2, 2006"))
	}

	return "Alert", vehicle
}

// locationText prefers a reverse-geocoded address and falls back to raw
// coordinates when the geocoder is absent or fails.
func (s *AlertService) locationText(event *models.AlertEvent) string {
	if event.Position == nil {
		return "an unknown location"
	}

	coords := fmt.Sprintf("%.6f,%.6f", event.Position.Latitude, event.Position.Longitude)
	if s.geocoder == nil {
		return coords
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.deliveryTimeout)
	defer cancel()

	address, err := s.geocoder.ReverseGeocode(ctx, event.Position.Latitude, event.Position.Longitude)
	if err != nil {
		s.logger.WithError(err).Debug("Reverse geocoding failed")
		return coords
	}
	return address
}

func eventData(event *models.AlertEvent) map[string]interface{} {
	data := map[string]interface{}{
		"kind": string(event.Kind),
	}
	if event.Device != nil {
		data["device_id"] = event.Device.ID.Hex()
	} else if !event.DeviceID.IsZero() {
		data["device_id"] = event.DeviceID.Hex()
	}
	if event.Position != nil {
		data["latitude"] = event.Position.Latitude
		data["longitude"] = event.Position.Longitude
	}
	if event.Geofence != nil {
		data["geofence_id"] = event.Geofence.ID.Hex()
		data["geofence_name"] = event.Geofence.Name
	}
	return data
}
