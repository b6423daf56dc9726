package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/checkout"
	"backend/internal/models"
)

// Orders persists order documents and their one-to-one shipments.
type Orders struct {
	db *mongo.Database
}

func NewOrders(db *mongo.Database) *Orders {
	return &Orders{db: db}
}

// CreateOrderWithShipment inserts the order and its shipment in one mongo
// transaction. Either both documents land or neither does.
func (r *Orders) CreateOrderWithShipment(ctx context.Context, order models.Order, shipment models.Shipment) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if _, err := r.db.Collection("orders").InsertOne(sessCtx, order); err != nil {
			return nil, err
		}
		if _, err := r.db.Collection("shipments").InsertOne(sessCtx, shipment); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

// OrderWithShipment is the read model for order listings: the order document
// with its shipment embedded.
type OrderWithShipment struct {
	models.Order `bson:",inline"`
	Shipment     *models.Shipment `bson:"-" json:"shipment,omitempty"`
}

// ListByUser returns the caller's orders, newest first, each with its
// shipment attached.
func (r *Orders) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]OrderWithShipment, error) {
	cursor, err := r.db.Collection("orders").Find(ctx,
		bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []OrderWithShipment
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []OrderWithShipment{}, nil
	}

	shipmentIDs := make([]primitive.ObjectID, 0, len(orders))
	for _, o := range orders {
		shipmentIDs = append(shipmentIDs, o.ShipmentID)
	}

	shipCursor, err := r.db.Collection("shipments").Find(ctx, bson.M{"_id": bson.M{"$in": shipmentIDs}})
	if err != nil {
		return nil, err
	}
	defer shipCursor.Close(ctx)

	var shipments []models.Shipment
	if err := shipCursor.All(ctx, &shipments); err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.Shipment, len(shipments))
	for _, s := range shipments {
		byID[s.ID] = s
	}
	for i := range orders {
		if s, ok := byID[orders[i].ShipmentID]; ok {
			shipment := s
			orders[i].Shipment = &shipment
		}
	}
	return orders, nil
}

func (r *Orders) Get(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	var order models.Order
	err := r.db.Collection("orders").FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return models.Order{}, checkout.NotFoundError{Entity: "order", ID: id.Hex()}
	}
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// MarkPaid records external payment confirmation. Only an order still in
// Processing can move to Paid; the conditional filter makes the update
// atomic per record under concurrent confirmations.
func (r *Orders) MarkPaid(ctx context.Context, orderID primitive.ObjectID) error {
	return r.setPaymentStatus(ctx, orderID, models.PaymentStatusPaid)
}

// MarkFailed records external payment failure for an order in Processing.
func (r *Orders) MarkFailed(ctx context.Context, orderID primitive.ObjectID) error {
	return r.setPaymentStatus(ctx, orderID, models.PaymentStatusFailed)
}

func (r *Orders) setPaymentStatus(ctx context.Context, orderID primitive.ObjectID, to models.PaymentStatus) error {
	res, err := r.db.Collection("orders").UpdateOne(ctx,
		bson.M{"_id": orderID, "paymentStatus": models.PaymentStatusProcessing},
		bson.M{"$set": bson.M{"paymentStatus": to}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing order from one not awaiting confirmation.
		if _, err := r.Get(ctx, orderID); err != nil {
			return err
		}
		return checkout.InvalidPaymentStateError{OrderID: orderID, To: to}
	}
	return nil
}
