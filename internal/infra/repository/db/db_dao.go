package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	OrdersCollection          = "orders"
	ProductsCollection        = "products"
	CategoriesCollection      = "categories"
	CouponsCollection         = "coupons"
	CustomersCollection       = "customers"
	UsersCollection           = "users"
	PasswordResetsCollection  = "password_resets"
	SettingsCollection        = "settings"
	PaymentGatewaysCollection = "payment_gateways"
	SocialLinksCollection     = "social_links"
	ExternalLinksCollection   = "external_links"
)

type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ IStore = (*MongoStore)(nil)

// Connect 建立連線並確認可用，呼叫端負責 Close
func Connect(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return NewStore(client, dbName), nil
}

func NewStore(client *mongo.Client, dbName string) *MongoStore {
	return &MongoStore{
		client: client,
		db:     client.Database(dbName),
	}
}

func (s *MongoStore) coll(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// DropDatabase 只給測試清資料用
func (s *MongoStore) DropDatabase(ctx context.Context) error {
	return s.db.Drop(ctx)
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	return err
}

func (s *MongoStore) insert(ctx context.Context, coll string, doc any) error {
	_, err := s.coll(coll).InsertOne(ctx, doc)
	return mapErr(err)
}

func (s *MongoStore) findOne(ctx context.Context, coll string, filter any, out any) error {
	return mapErr(s.coll(coll).FindOne(ctx, filter).Decode(out))
}

func (s *MongoStore) replaceByID(ctx context.Context, coll, id string, doc any) error {
	res, err := s.coll(coll).ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) upsertByID(ctx context.Context, coll, id string, doc any) error {
	_, err := s.coll(coll).ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	return mapErr(err)
}

func (s *MongoStore) deleteByID(ctx context.Context, coll, id string) error {
	res, err := s.coll(coll).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapErr(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	res := []T{}
	if err := cursor.All(ctx, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func sortBy(field string, desc bool) bson.D {
	dir := 1
	if desc {
		dir = -1
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: 1}}
}
