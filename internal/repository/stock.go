package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/checkout"
)

// Stock is the single mutation boundary for product stock. The filter makes
// the decrement conditional: it matches only while stock still covers the
// quantity, so stock can never be driven negative by racing checkouts.
type Stock struct {
	db *mongo.Database
}

func NewStock(db *mongo.Database) *Stock {
	return &Stock{db: db}
}

func (r *Stock) DecrementStock(ctx context.Context, productID primitive.ObjectID, qty int) error {
	filter := bson.M{
		"_id":       productID,
		"isDeleted": bson.M{"$ne": true},
		"stock":     bson.M{"$gte": qty},
	}
	update := bson.M{"$inc": bson.M{"stock": -qty}}

	res, err := r.db.Collection("products").UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return checkout.ErrStockConflict
	}
	return nil
}

// IncrementStock is the compensating path: it restores quantity a
// reservation decremented. Unconditional, so a release can never fail the
// way a decrement can.
func (r *Stock) IncrementStock(ctx context.Context, productID primitive.ObjectID, qty int) error {
	_, err := r.db.Collection("products").UpdateOne(ctx,
		bson.M{"_id": productID},
		bson.M{"$inc": bson.M{"stock": qty}},
	)
	return err
}
