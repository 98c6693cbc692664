package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

// MongoProductRepository is a MongoDB implementation of ProductRepository.
type MongoProductRepository struct {
	docs documents[models.Product]
}

func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{docs: documents[models.Product]{coll: db.Collection(productsCollection), kind: "product"}}
}

// ValidID reports whether id is a 24 character hex ObjectID.
func (r *MongoProductRepository) ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

func (r *MongoProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	cursor, err := r.docs.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, mongoError(err, "failed to get all products")
	}
	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, mongoError(err, "failed to decode products")
	}
	return products, nil
}

func (r *MongoProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return r.docs.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = newObjectID()
	}
	return r.docs.insert(ctx, product)
}

func (r *MongoProductRepository) Update(ctx context.Context, product *models.Product) error {
	return r.docs.replace(ctx, product.ID, product)
}

func (r *MongoProductRepository) Delete(ctx context.Context, id string) (*models.Product, error) {
	return r.docs.deleteOne(ctx, id)
}
