package db

import (
	"context"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *MongoStore) CreateCoupon(ctx context.Context, coupon *model.Coupon) error {
	return s.insert(ctx, CouponsCollection, coupon)
}

func (s *MongoStore) GetCouponByID(ctx context.Context, id string) (*model.Coupon, error) {
	var coupon model.Coupon
	if err := s.findOne(ctx, CouponsCollection, bson.M{"_id": id}, &coupon); err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (s *MongoStore) GetCouponByCode(ctx context.Context, code string) (*model.Coupon, error) {
	var coupon model.Coupon
	if err := s.findOne(ctx, CouponsCollection, bson.M{"code": code}, &coupon); err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (s *MongoStore) UpdateCoupon(ctx context.Context, coupon *model.Coupon) error {
	coupon.UpdatedAt = time.Now().UTC()
	return s.replaceByID(ctx, CouponsCollection, coupon.ID, coupon)
}

func (s *MongoStore) DeleteCoupon(ctx context.Context, id string) error {
	return s.deleteByID(ctx, CouponsCollection, id)
}

func (s *MongoStore) ListCoupons(ctx context.Context) ([]model.Coupon, error) {
	opts := options.Find().SetSort(sortBy("created_at", true))
	return findAll[model.Coupon](ctx, s.coll(CouponsCollection), bson.M{}, opts)
}

// RedeemCoupon 以 filter 保證 uses_count < max_uses 時才 $inc，並發下不會超發
func (s *MongoStore) RedeemCoupon(ctx context.Context, code string) (*model.Coupon, error) {
	filter := bson.M{
		"code": code,
		"$or": bson.A{
			bson.M{"max_uses": bson.M{"$lte": 0}},
			bson.M{"max_uses": bson.M{"$exists": false}},
			bson.M{"$expr": bson.M{"$lt": bson.A{"$uses_count", "$max_uses"}}},
		},
	}
	update := bson.M{
		"$inc": bson.M{"uses_count": 1},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var coupon model.Coupon
	err := s.coll(CouponsCollection).FindOneAndUpdate(ctx, filter, update, opts).Decode(&coupon)
	if err != nil {
		err = mapErr(err)
		if err != ErrNotFound {
			return nil, err
		}
		// 區分 code 不存在與次數用盡
		if _, getErr := s.GetCouponByCode(ctx, code); getErr != nil {
			return nil, getErr
		}
		return nil, ErrCouponExhausted
	}
	return &coupon, nil
}

// ReleaseCoupon 只在 uses_count > 0 時 $inc -1
func (s *MongoStore) ReleaseCoupon(ctx context.Context, code string) error {
	filter := bson.M{"code": code, "uses_count": bson.M{"$gt": 0}}
	update := bson.M{
		"$inc": bson.M{"uses_count": -1},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := s.coll(CouponsCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		// uses_count 已為 0 時不視為錯誤
		if _, err := s.GetCouponByCode(ctx, code); err != nil {
			return err
		}
	}
	return nil
}
