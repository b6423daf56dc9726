package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/checkout"
)

// checkoutKeyDoc is the persisted idempotency record. The unique compound
// index on (userId, key) makes Begin first-writer-wins.
type checkoutKeyDoc struct {
	UserID          primitive.ObjectID        `bson:"userId"`
	Key             string                    `bson:"key"`
	State           checkout.IdempotencyState `bson:"state"`
	OrderID         primitive.ObjectID        `bson:"orderId,omitempty"`
	PaymentRequired bool                      `bson:"paymentRequired"`
	CreatedAt       time.Time                 `bson:"createdAt"`
}

// CheckoutKeys implements the checkout idempotency store on mongo.
type CheckoutKeys struct {
	db *mongo.Database
}

func NewCheckoutKeys(db *mongo.Database) *CheckoutKeys {
	return &CheckoutKeys{db: db}
}

// Begin reserves the key by inserting a pending record. On a duplicate-key
// error the existing record is returned instead, so exactly one caller per
// (user, key) ever observes created == true.
func (r *CheckoutKeys) Begin(ctx context.Context, userID primitive.ObjectID, key string) (checkout.IdempotencyRecord, bool, error) {
	doc := checkoutKeyDoc{
		UserID:    userID,
		Key:       key,
		State:     checkout.IdempotencyPending,
		CreatedAt: time.Now(),
	}
	_, err := r.db.Collection("checkout_keys").InsertOne(ctx, doc)
	if err == nil {
		return checkout.IdempotencyRecord{State: checkout.IdempotencyPending}, true, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return checkout.IdempotencyRecord{}, false, err
	}

	var existing checkoutKeyDoc
	findErr := r.db.Collection("checkout_keys").
		FindOne(ctx, bson.M{"userId": userID, "key": key}).
		Decode(&existing)
	if findErr != nil {
		return checkout.IdempotencyRecord{}, false, findErr
	}
	return checkout.IdempotencyRecord{
		State:           existing.State,
		OrderID:         existing.OrderID,
		PaymentRequired: existing.PaymentRequired,
	}, false, nil
}

func (r *CheckoutKeys) Complete(ctx context.Context, userID primitive.ObjectID, key string, orderID primitive.ObjectID, paymentRequired bool) error {
	_, err := r.db.Collection("checkout_keys").UpdateOne(ctx,
		bson.M{"userId": userID, "key": key},
		bson.M{"$set": bson.M{
			"state":           checkout.IdempotencyCompleted,
			"orderId":         orderID,
			"paymentRequired": paymentRequired,
		}},
	)
	return err
}

// Abandon drops a pending record after a failed attempt so the client may
// retry with the same key.
func (r *CheckoutKeys) Abandon(ctx context.Context, userID primitive.ObjectID, key string) error {
	_, err := r.db.Collection("checkout_keys").DeleteOne(ctx, bson.M{"userId": userID, "key": key})
	return err
}
