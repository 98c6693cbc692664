package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/models"
)

// MongoAdminRepository is a MongoDB implementation of AdminRepository.
type MongoAdminRepository struct {
	docs documents[models.Admin]
}

func NewMongoAdminRepository(db *mongo.Database) *MongoAdminRepository {
	return &MongoAdminRepository{docs: documents[models.Admin]{coll: db.Collection(adminsCollection), kind: "admin"}}
}

func (r *MongoAdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	if admin.ID == "" {
		admin.ID = newObjectID()
	}
	return r.docs.insert(ctx, admin)
}

func (r *MongoAdminRepository) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	return r.docs.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoAdminRepository) GetByUsername(ctx context.Context, adminUsername string) (*models.Admin, error) {
	return r.docs.findOne(ctx, bson.M{"adminUsername": adminUsername})
}

func (r *MongoAdminRepository) GetByAdminID(ctx context.Context, adminID int64) (*models.Admin, error) {
	return r.docs.findOne(ctx, bson.M{"AdminID": adminID})
}

func (r *MongoAdminRepository) Update(ctx context.Context, admin *models.Admin) error {
	return r.docs.replace(ctx, admin.ID, admin)
}

func (r *MongoAdminRepository) Delete(ctx context.Context, id string) (*models.Admin, error) {
	return r.docs.deleteOne(ctx, id)
}
