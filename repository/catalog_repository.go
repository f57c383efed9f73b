package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/ecocycle/backend/errors"
	"github.com/ecocycle/backend/models"
)

// ProductFilter narrows a catalog listing.
type ProductFilter struct {
	Name  string
	Limit int
	Skip  int
}

// CatalogReader exposes read-only access to product records. This subsystem
// never writes to the catalog.
type CatalogReader interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
	Find(ctx context.Context, filter ProductFilter) ([]models.Product, error)
}

// MongoCatalog implements CatalogReader over the products collection.
type MongoCatalog struct {
	collection *mongo.Collection
}

func NewMongoCatalog(db *mongo.Database) *MongoCatalog {
	return &MongoCatalog{collection: db.Collection("products")}
}

func (r *MongoCatalog) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *MongoCatalog) Find(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	query := bson.M{}
	if filter.Name != "" {
		query["name"] = bson.M{"$regex": filter.Name, "$options": "i"}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if filter.Limit > 0 {
		findOptions.SetLimit(int64(filter.Limit))
	}
	if filter.Skip > 0 {
		findOptions.SetSkip(int64(filter.Skip))
	}

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}
