package db

import (
	"context"
	"regexp"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func productFilterToBson(filter model.ProductFilter) bson.M {
	m := bson.M{}
	if filter.Category != "" {
		m["category"] = filter.Category
	}
	if filter.OnSale != nil {
		m["on_sale"] = *filter.OnSale
	}
	if filter.IsNew != nil {
		m["is_new"] = *filter.IsNew
	}
	if filter.BestSeller != nil {
		m["best_seller"] = *filter.BestSeller
	}
	if filter.Featured != nil {
		m["featured"] = *filter.Featured
	}
	if filter.ActiveOnly {
		m["active"] = true
	}
	price := bson.M{}
	if filter.MinPrice != nil {
		price["$gte"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		price["$lte"] = *filter.MaxPrice
	}
	if len(price) > 0 {
		m["price"] = price
	}
	if filter.MaxStock != nil {
		m["stock"] = bson.M{"$lte": *filter.MaxStock}
	}
	if filter.SearchQuery != "" {
		re := bson.M{"$regex": regexp.QuoteMeta(filter.SearchQuery), "$options": "i"}
		m["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
			bson.M{"tags": re},
			bson.M{"category": re},
		}
	}
	return m
}

func (s *MongoStore) CreateProduct(ctx context.Context, product *model.Product) error {
	return s.insert(ctx, ProductsCollection, product)
}

func (s *MongoStore) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := s.findOne(ctx, ProductsCollection, bson.M{"_id": id}, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *MongoStore) UpdateProduct(ctx context.Context, product *model.Product) error {
	product.UpdatedAt = time.Now().UTC()
	return s.replaceByID(ctx, ProductsCollection, product.ID, product)
}

func (s *MongoStore) DeleteProduct(ctx context.Context, id string) error {
	return s.deleteByID(ctx, ProductsCollection, id)
}

func (s *MongoStore) ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, int64, error) {
	f := productFilterToBson(filter)
	coll := s.coll(ProductsCollection)

	total, err := coll.CountDocuments(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	sortField := string(filter.SortBy)
	if sortField == "" {
		sortField = string(model.ProductSortCreatedAt)
	}
	opts := options.Find().SetSort(sortBy(sortField, filter.SortDesc))
	if filter.Limit > 0 {
		opts.SetSkip(int64(filter.Skip())).SetLimit(int64(filter.Limit))
	}
	products, err := findAll[model.Product](ctx, coll, f, opts)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (s *MongoStore) CountProducts(ctx context.Context, filter model.ProductFilter) (int64, error) {
	return s.coll(ProductsCollection).CountDocuments(ctx, productFilterToBson(filter))
}

func (s *MongoStore) IncrementProductCounters(ctx context.Context, id string, delta model.ProductCounterDelta) error {
	inc := bson.M{}
	if delta.Views != 0 {
		inc["view_count"] = delta.Views
	}
	if delta.Sales != 0 {
		inc["sales_count"] = delta.Sales
	}
	if delta.Stock != 0 {
		inc["stock"] = delta.Stock
	}
	if len(inc) == 0 {
		return nil
	}
	res, err := s.coll(ProductsCollection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": inc})
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) CreateCategory(ctx context.Context, category *model.Category) error {
	return s.insert(ctx, CategoriesCollection, category)
}

func (s *MongoStore) GetCategoryByID(ctx context.Context, id string) (*model.Category, error) {
	var category model.Category
	if err := s.findOne(ctx, CategoriesCollection, bson.M{"_id": id}, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *MongoStore) UpdateCategory(ctx context.Context, category *model.Category) error {
	category.UpdatedAt = time.Now().UTC()
	return s.replaceByID(ctx, CategoriesCollection, category.ID, category)
}

func (s *MongoStore) DeleteCategory(ctx context.Context, id string) error {
	return s.deleteByID(ctx, CategoriesCollection, id)
}

func (s *MongoStore) ListCategories(ctx context.Context) ([]model.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}, {Key: "name", Value: 1}})
	return findAll[model.Category](ctx, s.coll(CategoriesCollection), bson.M{}, opts)
}
