package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/models"
	"backend/internal/shipping"
)

// Shipments backs the shipment tracker. Shipments are only ever inserted
// through Orders.CreateOrderWithShipment; this store reads them and applies
// guarded status updates.
type Shipments struct {
	db *mongo.Database
}

func NewShipments(db *mongo.Database) *Shipments {
	return &Shipments{db: db}
}

func (r *Shipments) Get(ctx context.Context, id primitive.ObjectID) (models.Shipment, error) {
	var shipment models.Shipment
	err := r.db.Collection("shipments").FindOne(ctx, bson.M{"_id": id}).Decode(&shipment)
	if err == mongo.ErrNoDocuments {
		return models.Shipment{}, shipping.NotFoundError{Entity: "shipment", ID: id.Hex()}
	}
	if err != nil {
		return models.Shipment{}, err
	}
	return shipment, nil
}

func (r *Shipments) GetByOrderID(ctx context.Context, orderID primitive.ObjectID) (models.Shipment, error) {
	var shipment models.Shipment
	err := r.db.Collection("shipments").FindOne(ctx, bson.M{"orderId": orderID}).Decode(&shipment)
	if err == mongo.ErrNoDocuments {
		return models.Shipment{}, shipping.NotFoundError{Entity: "shipment for order", ID: orderID.Hex()}
	}
	if err != nil {
		return models.Shipment{}, err
	}
	return shipment, nil
}

// CompareAndSetStatus moves the shipment from -> to only if it still sits in
// from, reporting whether any document matched.
func (r *Shipments) CompareAndSetStatus(ctx context.Context, id primitive.ObjectID, from, to models.ShipmentStatus, at time.Time) (bool, error) {
	res, err := r.db.Collection("shipments").UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updatedAt": at}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}
