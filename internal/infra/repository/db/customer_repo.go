package db

import (
	"context"
	"regexp"

	"github.com/RoyceAzure/lab/storefront/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func customerFilterToBson(filter model.CustomerFilter) bson.M {
	m := bson.M{}
	if filter.Group != "" {
		m["customer_group"] = filter.Group
	}
	if filter.Search != "" {
		re := bson.M{"$regex": regexp.QuoteMeta(filter.Search), "$options": "i"}
		m["$or"] = bson.A{bson.M{"_id": re}, bson.M{"name": re}}
	}
	return m
}

func (s *MongoStore) UpsertCustomer(ctx context.Context, customer *model.Customer) error {
	return s.upsertByID(ctx, CustomersCollection, customer.Email, customer)
}

func (s *MongoStore) GetCustomerByEmail(ctx context.Context, email string) (*model.Customer, error) {
	var customer model.Customer
	if err := s.findOne(ctx, CustomersCollection, bson.M{"_id": email}, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *MongoStore) ListCustomers(ctx context.Context, filter model.CustomerFilter) ([]model.Customer, int64, error) {
	f := customerFilterToBson(filter)
	coll := s.coll(CustomersCollection)

	total, err := coll.CountDocuments(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().SetSort(sortBy("total_spent", true))
	if filter.Limit > 0 {
		opts.SetSkip(int64(filter.Skip())).SetLimit(int64(filter.Limit))
	}
	customers, err := findAll[model.Customer](ctx, coll, f, opts)
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

func (s *MongoStore) CountCustomers(ctx context.Context) (int64, error) {
	return s.coll(CustomersCollection).CountDocuments(ctx, bson.M{})
}
