package db

import (
	"context"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func orderFilterToBson(filter model.OrderFilter) bson.M {
	m := bson.M{}
	if filter.Status != "" {
		m["status"] = filter.Status
	}
	if filter.UserID != "" {
		m["user_id"] = filter.UserID
	}
	if filter.UserEmail != "" {
		m["user_email"] = filter.UserEmail
	}
	return m
}

func (s *MongoStore) CreateOrder(ctx context.Context, order *model.Order) error {
	return s.insert(ctx, OrdersCollection, order)
}

func (s *MongoStore) GetOrderByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	if err := s.findOne(ctx, OrdersCollection, bson.M{"_id": id}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *MongoStore) UpdateOrder(ctx context.Context, order *model.Order) error {
	order.UpdatedAt = time.Now().UTC()
	return s.replaceByID(ctx, OrdersCollection, order.ID, order)
}

func (s *MongoStore) ListOrders(ctx context.Context, filter model.OrderFilter) ([]model.Order, int64, error) {
	f := orderFilterToBson(filter)
	coll := s.coll(OrdersCollection)

	total, err := coll.CountDocuments(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(sortBy("created_at", true))
	if filter.Limit > 0 {
		opts.SetSkip(int64(filter.Skip())).SetLimit(int64(filter.Limit))
	}
	orders, err := findAll[model.Order](ctx, coll, f, opts)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *MongoStore) CountOrders(ctx context.Context, filter model.OrderFilter) (int64, error) {
	return s.coll(OrdersCollection).CountDocuments(ctx, orderFilterToBson(filter))
}

func (s *MongoStore) SumOrderRevenue(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": bson.M{"$ne": model.OrderStatusCancelled}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "revenue": bson.M{"$sum": "$total"}}}},
	}
	cursor, err := s.coll(OrdersCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	var rows []struct {
		Revenue float64 `bson:"revenue"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Revenue, nil
}

var paymentRefField = map[model.PaymentMethod]string{
	model.PaymentMethodStripe:  "stripe_payment_id",
	model.PaymentMethodPaypal:  "paypal_order_id",
	model.PaymentMethodPlisio:  "plisio_invoice_id",
	model.PaymentMethodBinance: "binance_prepay_id",
}

func (s *MongoStore) FindOrderByPaymentRef(ctx context.Context, method model.PaymentMethod, ref string) (*model.Order, error) {
	field, ok := paymentRefField[method]
	if !ok || ref == "" {
		return nil, ErrNotFound
	}
	var order model.Order
	if err := s.findOne(ctx, OrdersCollection, bson.M{field: ref}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
