package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/models"
)

// MongoUserRepository is a MongoDB implementation of UserRepository.
type MongoUserRepository struct {
	docs documents[models.User]
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{docs: documents[models.User]{coll: db.Collection(usersCollection), kind: "user"}}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = newObjectID()
	}
	return r.docs.insert(ctx, user)
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.docs.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.docs.findOne(ctx, bson.M{"username": username})
}

func (r *MongoUserRepository) Update(ctx context.Context, user *models.User) error {
	return r.docs.replace(ctx, user.ID, user)
}

func (r *MongoUserRepository) Delete(ctx context.Context, id string) (*models.User, error) {
	return r.docs.deleteOne(ctx, id)
}
