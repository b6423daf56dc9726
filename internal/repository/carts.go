package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/models"
)

// Carts backs the cart snapshot provider. Checkout reads the snapshot and
// clears it after commit; line-item edits happen elsewhere.
type Carts struct {
	db *mongo.Database
}

func NewCarts(db *mongo.Database) *Carts {
	return &Carts{db: db}
}

// GetCart returns the user's current line items. A missing cart document is
// simply an empty cart.
func (r *Carts) GetCart(ctx context.Context, userID primitive.ObjectID) ([]models.CartItem, error) {
	var cart models.Cart
	err := r.db.Collection("carts").FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cart.Items, nil
}

// ClearCart empties the user's cart. Clearing an already-empty cart is a
// no-op, which keeps post-commit retries idempotent.
func (r *Carts) ClearCart(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.db.Collection("carts").UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"items": []models.CartItem{}, "updatedAt": time.Now()}},
	)
	return err
}
