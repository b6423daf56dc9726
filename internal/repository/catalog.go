package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/checkout"
	"backend/internal/models"
)

// Catalog is the mongo-backed product reader. The checkout core only ever
// reads products through here; stock writes go through Stock.
type Catalog struct {
	db *mongo.Database
}

func NewCatalog(db *mongo.Database) *Catalog {
	return &Catalog{db: db}
}

func (r *Catalog) GetProduct(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var product models.Product
	err := r.db.Collection("products").FindOne(ctx, bson.M{
		"_id":       id,
		"isDeleted": bson.M{"$ne": true},
	}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return models.Product{}, checkout.NotFoundError{Entity: "product", ID: id.Hex()}
	}
	if err != nil {
		return models.Product{}, err
	}
	product.Normalize()
	return product, nil
}

func (r *Catalog) ListProducts(ctx context.Context) ([]models.Product, error) {
	cursor, err := r.db.Collection("products").Find(ctx, bson.M{
		"isDeleted": bson.M{"$ne": true},
		"isActive":  true,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	for i := range products {
		products[i].Normalize()
	}
	return products, nil
}
