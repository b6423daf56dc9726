package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	userIDIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetName("userId_index"),
	}

	log.Println("EnsureOrderIndexes: creating userId_index index")
	_, err := db.Collection("orders").Indexes().CreateOne(ctx, userIDIndex)
	if err != nil {
		log.Println("EnsureOrderIndexes: userId index error:", err)
		return err
	}
	return nil
}

// EnsureShipmentIndexes enforces shipment ownership: one shipment per order
// and a globally unique tracking number.
func EnsureShipmentIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "orderId", Value: 1}},
			Options: options.Index().SetName("orderId_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "trackingNumber", Value: 1}},
			Options: options.Index().SetName("trackingNumber_unique").SetUnique(true),
		},
	}

	log.Println("EnsureShipmentIndexes: creating shipment indexes")
	_, err := db.Collection("shipments").Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Println("EnsureShipmentIndexes: shipment index error:", err)
		return err
	}
	return nil
}

// EnsureCheckoutKeyIndexes makes idempotency-key reservation
// first-writer-wins: the second insert for the same (userId, key) pair
// fails with a duplicate-key error.
func EnsureCheckoutKeyIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	keyIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "key", Value: 1},
		},
		Options: options.Index().SetName("userId_key_unique").SetUnique(true),
	}

	log.Println("EnsureCheckoutKeyIndexes: creating userId_key_unique index")
	_, err := db.Collection("checkout_keys").Indexes().CreateOne(ctx, keyIndex)
	if err != nil {
		log.Println("EnsureCheckoutKeyIndexes: checkout key index error:", err)
		return err
	}
	return nil
}

func EnsureCartIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	userIDIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetName("userId_unique").SetUnique(true),
	}

	log.Println("EnsureCartIndexes: creating userId_unique index")
	_, err := db.Collection("carts").Indexes().CreateOne(ctx, userIDIndex)
	if err != nil {
		log.Println("EnsureCartIndexes: cart index error:", err)
		return err
	}
	return nil
}
