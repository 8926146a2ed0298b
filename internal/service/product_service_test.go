package service

import (
	"context"
	"testing"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/memdb"
	"github.com/RoyceAzure/lab/storefront/internal/model"
	er "github.com/RoyceAzure/lab/storefront/internal/pkg/rj_error"
	"github.com/stretchr/testify/require"
)

func newTestProductService(t *testing.T) (*ProductService, *memdb.Store) {
	t.Helper()
	store := memdb.NewStore()
	svc := NewProductService(store, nil)
	svc.async = func(f func()) { f() }

	ctx := context.Background()
	for _, p := range []model.Product{
		{Name: "Red Cap", Price: 20, Stock: 3, Category: "hats", Tags: []string{"summer"}, Active: true, Featured: true},
		{Name: "Blue Sneaker", Price: 80, Stock: 10, Category: "shoes", Active: true},
		{Name: "Old Boot", Price: 50, Stock: 1, Category: "shoes", Active: false},
	} {
		p := p
		_, err := svc.CreateProduct(ctx, &p)
		require.NoError(t, err)
	}
	return svc, store
}

func findProduct(t *testing.T, svc *ProductService, name string) *model.Product {
	t.Helper()
	products, _, err := svc.AdminListProducts(context.Background(), model.ProductFilter{})
	require.NoError(t, err)
	for _, p := range products {
		if p.Name == name {
			return &p
		}
	}
	t.Fatalf("product %s not found", name)
	return nil
}

func TestProductListAndSearch(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestProductService(t)

	products, total, err := svc.ListProducts(ctx, model.ProductFilter{Category: "shoes", Paging: model.NewPaging(1, 10)})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Blue Sneaker", products[0].Name)

	_, total, err = svc.AdminListProducts(ctx, model.ProductFilter{Category: "shoes"})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)

	products, _, err = svc.ListProducts(ctx, model.ProductFilter{SortBy: model.ProductSortPrice})
	require.NoError(t, err)
	require.Equal(t, "Red Cap", products[0].Name)

	_, _, err = svc.ListProducts(ctx, model.ProductFilter{SortBy: "weight"})
	require.Equal(t, er.BadRequestCode, er.CodeOf(err))

	products, _, err = svc.SearchProducts(ctx, "SUMMER", model.NewPaging(1, 10))
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "Red Cap", products[0].Name)

	_, _, err = svc.SearchProducts(ctx, "  ", model.NewPaging(1, 10))
	require.Equal(t, er.BadRequestCode, er.CodeOf(err))

	sneaker := findProduct(t, svc, "Blue Sneaker")
	require.NoError(t, store.IncrementProductCounters(ctx, sneaker.ID, model.ProductCounterDelta{Sales: 7}))
	best, err := svc.BestSellers(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, "Blue Sneaker", best[0].Name)

	featured, err := svc.Featured(ctx, 0)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	require.Equal(t, "red-cap", featured[0].Slug)
}

func TestProductGetIncrementsViews(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestProductService(t)
	capID := findProduct(t, svc, "Red Cap").ID

	_, err := svc.GetProduct(ctx, capID)
	require.NoError(t, err)
	p, err := svc.GetProduct(ctx, capID)
	require.NoError(t, err)
	require.Equal(t, 1, p.ViewCount)

	_, err = svc.GetProduct(ctx, findProduct(t, svc, "Old Boot").ID)
	require.Equal(t, er.NotFoundCode, er.CodeOf(err))

	_, err = svc.GetProduct(ctx, "missing")
	require.Equal(t, er.NotFoundCode, er.CodeOf(err))
}

func TestProductUpdateKeepsCounters(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestProductService(t)
	p := findProduct(t, svc, "Red Cap")
	require.NoError(t, store.IncrementProductCounters(ctx, p.ID, model.ProductCounterDelta{Sales: 4, Views: 9}))

	p.Price = 25
	p.SalesCount = 0
	p.ViewCount = 0
	updated, err := svc.UpdateProduct(ctx, p)
	require.NoError(t, err)
	require.Equal(t, 25.0, updated.Price)
	require.Equal(t, 4, updated.SalesCount)
	require.Equal(t, 9, updated.ViewCount)

	p.Stock = -1
	_, err = svc.UpdateProduct(ctx, p)
	require.Equal(t, er.BadRequestCode, er.CodeOf(err))

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))
	require.Equal(t, er.NotFoundCode, er.CodeOf(svc.DeleteProduct(ctx, p.ID)))
}

func TestCategoryCRUD(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryService(memdb.NewStore())

	_, err := svc.CreateCategory(ctx, &model.Category{Name: " "})
	require.Equal(t, er.BadRequestCode, er.CodeOf(err))

	b, err := svc.CreateCategory(ctx, &model.Category{Name: "Bags & Wallets", SortOrder: 2})
	require.NoError(t, err)
	require.Equal(t, "bags-wallets", b.Slug)
	_, err = svc.CreateCategory(ctx, &model.Category{Name: "Hats", SortOrder: 1})
	require.NoError(t, err)

	list, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Hats", list[0].Name)

	b.Name = "Bags"
	b.Slug = ""
	updated, err := svc.UpdateCategory(ctx, b)
	require.NoError(t, err)
	require.Equal(t, "bags", updated.Slug)

	require.NoError(t, svc.DeleteCategory(ctx, b.ID))
	_, err = svc.GetCategory(ctx, b.ID)
	require.Equal(t, er.NotFoundCode, er.CodeOf(err))
}
