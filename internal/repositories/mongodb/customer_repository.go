package mongodb

import (
	"context"
	"fmt"

	"fleettrack/internal/models"
	"fleettrack/internal/repositories/interfaces"
	"fleettrack/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type customerRepository struct {
	customers *mongo.Collection
	shares    *mongo.Collection
	contacts  *mongo.Collection
}

func NewCustomerRepository(db *mongo.Database) interfaces.CustomerRepository {
	return &customerRepository{
		customers: db.Collection("customers"),
		shares:    db.Collection("device_shares"),
		contacts:  db.Collection("emergency_contacts"),
	}
}

func (r *customerRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error) {
	var customer models.Customer
	err := r.customers.FindOne(ctx, bson.M{"_id": id}).Decode(&customer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("customer")
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return &customer, nil
}

func (r *customerRepository) GetSharedForDevice(ctx context.Context, deviceID primitive.ObjectID) ([]*models.Customer, error) {
	cursor, err := r.shares.Find(ctx, bson.M{"device_id": deviceID})
	if err != nil {
		return nil, fmt.Errorf("failed to find device shares: %w", err)
	}
	defer cursor.Close(ctx)

	var customerIDs []primitive.ObjectID
	for cursor.Next(ctx) {
		var share models.DeviceShare
		if err := cursor.Decode(&share); err != nil {
			return nil, fmt.Errorf("failed to decode device share: %w", err)
		}
		customerIDs = append(customerIDs, share.CustomerID)
	}

	if len(customerIDs) == 0 {
		return nil, nil
	}

	custCursor, err := r.customers.Find(ctx, bson.M{"_id": bson.M{"$in": customerIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to find shared customers: %w", err)
	}
	defer custCursor.Close(ctx)

	var customers []*models.Customer
	for custCursor.Next(ctx) {
		var customer models.Customer
		if err := custCursor.Decode(&customer); err != nil {
			return nil, fmt.Errorf("failed to decode customer: %w", err)
		}
		customers = append(customers, &customer)
	}

	return customers, nil
}

func (r *customerRepository) GetEmergencyContacts(ctx context.Context, customerID primitive.ObjectID) ([]*models.EmergencyContact, error) {
	opts := options.Find().SetSort(bson.D{{Key: "priority", Value: 1}})

	cursor, err := r.contacts.Find(ctx, bson.M{"customer_id": customerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find emergency contacts: %w", err)
	}
	defer cursor.Close(ctx)

	var contacts []*models.EmergencyContact
	for cursor.Next(ctx) {
		var contact models.EmergencyContact
		if err := cursor.Decode(&contact); err != nil {
			return nil, fmt.Errorf("failed to decode emergency contact: %w", err)
		}
		contacts = append(contacts, &contact)
	}

	return contacts, nil
}
