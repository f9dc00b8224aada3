package interfaces

import (
	"context"

	"fleettrack/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CustomerRepository resolves notification recipients: owners, members
// sharing a device, and emergency contacts.
type CustomerRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error)
	GetSharedForDevice(ctx context.Context, deviceID primitive.ObjectID) ([]*models.Customer, error)

	// GetEmergencyContacts returns contacts in priority order.
	GetEmergencyContacts(ctx context.Context, customerID primitive.ObjectID) ([]*models.EmergencyContact, error)
}
