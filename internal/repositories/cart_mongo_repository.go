package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

// cart upserts are retried when concurrent first adds for the same user race
// on the unique userId index.
const cartUpsertAttempts = 3

var errCartContention = errors.New("cart is being modified concurrently")

// MongoCartRepository keeps one document per user with the line items
// embedded. Every change is a single-document atomic update.
type MongoCartRepository struct {
	coll *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) *MongoCartRepository {
	return &MongoCartRepository{coll: db.Collection(cartsCollection)}
}

func (r *MongoCartRepository) GetByUserID(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart); err != nil {
		return nil, mongoError(err, "failed to get cart for user %s", userID)
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}

// AddItem increments the matching line with $inc, or pushes a new line with
// an upsert that also creates the cart. The $inc only matches a line that
// stays within models.MaxItemQuantity.
func (r *MongoCartRepository) AddItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	if quantity > models.MaxItemQuantity {
		return nil, mongoError(models.ErrQuantityLimit, "failed to add product %s to cart of user %s", productID, userID)
	}
	for attempt := 0; attempt < cartUpsertAttempts; attempt++ {
		now := time.Now().UTC()

		res, err := r.coll.UpdateOne(ctx,
			bson.M{
				"userId": userID,
				"items": bson.M{"$elemMatch": bson.M{
					"productId": productID,
					"quantity":  bson.M{"$lte": models.MaxItemQuantity - quantity},
				}},
			},
			bson.M{
				"$inc": bson.M{"items.$.quantity": quantity},
				"$set": bson.M{"updatedAt": now},
			},
		)
		if err != nil {
			return nil, mongoError(err, "failed to increment product %s in cart of user %s", productID, userID)
		}
		if res.MatchedCount > 0 {
			return r.GetByUserID(ctx, userID)
		}

		full, err := r.coll.CountDocuments(ctx, bson.M{"userId": userID, "items.productId": productID})
		if err != nil {
			return nil, mongoError(err, "failed to check product %s in cart of user %s", productID, userID)
		}
		if full > 0 {
			return nil, mongoError(models.ErrQuantityLimit, "failed to add product %s to cart of user %s", productID, userID)
		}

		_, err = r.coll.UpdateOne(ctx,
			bson.M{"userId": userID, "items.productId": bson.M{"$ne": productID}},
			bson.M{
				"$push":        bson.M{"items": models.CartItem{ProductID: productID, Quantity: quantity}},
				"$set":         bson.M{"updatedAt": now},
				"$setOnInsert": bson.M{"_id": newObjectID(), "createdAt": now},
			},
			options.Update().SetUpsert(true),
		)
		if mongo.IsDuplicateKeyError(err) {
			// another request created the cart or the line first
			continue
		}
		if err != nil {
			return nil, mongoError(err, "failed to add product %s to cart of user %s", productID, userID)
		}
		return r.GetByUserID(ctx, userID)
	}
	return nil, mongoError(errCartContention, "gave up adding product %s to cart of user %s", productID, userID)
}

func (r *MongoCartRepository) RemoveProduct(ctx context.Context, productID string) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"items.productId": productID},
		bson.M{
			"$pull": bson.M{"items": bson.M{"productId": productID}},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return 0, mongoError(err, "failed to remove product %s from carts", productID)
	}
	return res.ModifiedCount, nil
}
