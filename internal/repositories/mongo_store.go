package repositories

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/pkg/utils"
)

const (
	usersCollection    = "users"
	adminsCollection   = "admins"
	productsCollection = "products"
	cartsCollection    = "carts"
)

var decimalType = reflect.TypeOf(decimal.Decimal{})

// NewMongoRegistry returns the default BSON registry extended with a
// decimal.Decimal <-> Decimal128 codec.
func NewMongoRegistry() *bsoncodec.Registry {
	registry := bson.NewRegistry()
	registry.RegisterTypeEncoder(decimalType, bsoncodec.ValueEncoderFunc(encodeDecimal))
	registry.RegisterTypeDecoder(decimalType, bsoncodec.ValueDecoderFunc(decodeDecimal))
	return registry
}

func encodeDecimal(_ bsoncodec.EncodeContext, vw bsonrw.ValueWriter, val reflect.Value) error {
	if !val.IsValid() || val.Type() != decimalType {
		return bsoncodec.ValueEncoderError{Name: "encodeDecimal", Types: []reflect.Type{decimalType}, Received: val}
	}
	d := val.Interface().(decimal.Decimal)
	d128, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return fmt.Errorf("encode decimal %s: %w", d, err)
	}
	return vw.WriteDecimal128(d128)
}

func decodeDecimal(_ bsoncodec.DecodeContext, vr bsonrw.ValueReader, val reflect.Value) error {
	if !val.CanSet() || val.Type() != decimalType {
		return bsoncodec.ValueDecoderError{Name: "decodeDecimal", Types: []reflect.Type{decimalType}, Received: val}
	}

	var (
		d   decimal.Decimal
		err error
	)
	switch vr.Type() {
	case bsontype.Decimal128:
		var d128 primitive.Decimal128
		if d128, err = vr.ReadDecimal128(); err == nil {
			d, err = decimal.NewFromString(d128.String())
		}
	case bsontype.Double:
		var f float64
		if f, err = vr.ReadDouble(); err == nil {
			d = decimal.NewFromFloat(f)
		}
	case bsontype.Int32:
		var i int32
		if i, err = vr.ReadInt32(); err == nil {
			d = decimal.NewFromInt32(i)
		}
	case bsontype.Int64:
		var i int64
		if i, err = vr.ReadInt64(); err == nil {
			d = decimal.NewFromInt(i)
		}
	case bsontype.String:
		var s string
		if s, err = vr.ReadString(); err == nil {
			d, err = decimal.NewFromString(s)
		}
	case bsontype.Null:
		err = vr.ReadNull()
	default:
		return fmt.Errorf("cannot decode %v into a decimal", vr.Type())
	}
	if err != nil {
		return err
	}

	val.Set(reflect.ValueOf(d))
	return nil
}

// OpenMongo connects to MongoDB and wires the document repositories.
func OpenMongo(ctx context.Context, cfg utils.DatabaseConfig) (*Store, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetRegistry(NewMongoRegistry()).
		SetConnectTimeout(5 * time.Second)
	if cfg.MaxConns > 0 {
		opts.SetMaxPoolSize(uint64(cfg.MaxConns))
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo failed: %w", err)
	}

	return NewMongoStore(client, client.Database(cfg.MongoDatabase)), nil
}

// NewMongoStore wires every document repository onto db.
func NewMongoStore(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		Users:    NewMongoUserRepository(db),
		Admins:   NewMongoAdminRepository(db),
		Products: NewMongoProductRepository(db),
		Carts:    NewMongoCartRepository(db),
		migrate: func(ctx context.Context) error {
			return EnsureMongoIndexes(ctx, db)
		},
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		close: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	}
}

// EnsureMongoIndexes creates the unique indexes that turn racing duplicate
// writes into duplicate key errors.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	unique := func(keys ...string) mongo.IndexModel {
		doc := bson.D{}
		for _, k := range keys {
			doc = append(doc, bson.E{Key: k, Value: 1})
		}
		return mongo.IndexModel{Keys: doc, Options: options.Index().SetUnique(true)}
	}

	indexes := map[string][]mongo.IndexModel{
		usersCollection:  {unique("username")},
		adminsCollection: {unique("AdminID"), unique("adminUsername")},
		cartsCollection: {
			unique("userId"),
			{Keys: bson.D{{Key: "items.productId", Value: 1}}},
		},
	}
	for name, idx := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// mongoError maps driver errors onto the repository sentinels.
func mongoError(err error, format string, args ...any) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf(format+": %w", append(args, ErrDuplicate)...)
	default:
		return fmt.Errorf(format+": %w", append(args, err)...)
	}
}

func newObjectID() string {
	return primitive.NewObjectID().Hex()
}

// documents is the CRUD every entity collection shares. Documents are keyed
// by a string _id.
type documents[T any] struct {
	coll *mongo.Collection
	kind string
}

func (d documents[T]) insert(ctx context.Context, doc *T) error {
	if _, err := d.coll.InsertOne(ctx, doc); err != nil {
		return mongoError(err, "failed to create %s", d.kind)
	}
	return nil
}

func (d documents[T]) findOne(ctx context.Context, filter bson.M) (*T, error) {
	var doc T
	if err := d.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mongoError(err, "failed to get %s by %v", d.kind, filter)
	}
	return &doc, nil
}

func (d documents[T]) replace(ctx context.Context, id string, doc *T) error {
	res, err := d.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return mongoError(err, "failed to update %s %s", d.kind, id)
	}
	if res.MatchedCount == 0 {
		return mongoError(mongo.ErrNoDocuments, "%s with ID %s not found for update", d.kind, id)
	}
	return nil
}

func (d documents[T]) deleteOne(ctx context.Context, id string) (*T, error) {
	var doc T
	if err := d.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, mongoError(err, "failed to delete %s %s", d.kind, id)
	}
	return &doc, nil
}
