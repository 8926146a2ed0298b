package redis_decorator

import (
	"context"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/memdb"
	"github.com/RoyceAzure/lab/storefront/internal/model"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/cache"
	"github.com/stretchr/testify/require"
)

type countingRepo struct {
	*memdb.Store
	gets int
}

func (c *countingRepo) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	c.gets++
	return c.Store.GetProductByID(ctx, id)
}

func setup(t *testing.T) (*CacheAsideProductRepo, *countingRepo) {
	t.Helper()
	store := &countingRepo{Store: memdb.NewStore()}
	require.NoError(t, store.CreateProduct(context.Background(), &model.Product{ID: "p1", Name: "Mug", Price: 10, Stock: 5}))
	return NewCacheAsideProductRepo(store, cache.NewMemoryCache(), time.Minute), store
}

func TestGetProductIsCached(t *testing.T) {
	ctx := context.Background()
	repo, inner := setup(t)

	for i := 0; i < 3; i++ {
		p, err := repo.GetProductByID(ctx, "p1")
		require.NoError(t, err)
		require.Equal(t, "Mug", p.Name)
	}
	require.Equal(t, 1, inner.gets)
}

func TestUpdateInvalidates(t *testing.T) {
	ctx := context.Background()
	repo, inner := setup(t)

	p, err := repo.GetProductByID(ctx, "p1")
	require.NoError(t, err)
	p.Price = 12
	require.NoError(t, repo.UpdateProduct(ctx, p))

	p, err = repo.GetProductByID(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 12.0, p.Price)
	require.Equal(t, 2, inner.gets)
}

func TestStockChangeInvalidatesButViewsDoNot(t *testing.T) {
	ctx := context.Background()
	repo, inner := setup(t)

	_, err := repo.GetProductByID(ctx, "p1")
	require.NoError(t, err)

	require.NoError(t, repo.IncrementProductCounters(ctx, "p1", model.ProductCounterDelta{Views: 1}))
	_, err = repo.GetProductByID(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 1, inner.gets)

	require.NoError(t, repo.IncrementProductCounters(ctx, "p1", model.ProductCounterDelta{Stock: -1, Sales: 1}))
	p, err := repo.GetProductByID(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 4, p.Stock)
	require.Equal(t, 2, inner.gets)
}

func TestDeleteInvalidates(t *testing.T) {
	ctx := context.Background()
	repo, _ := setup(t)

	_, err := repo.GetProductByID(ctx, "p1")
	require.NoError(t, err)
	require.NoError(t, repo.DeleteProduct(ctx, "p1"))
	_, err = repo.GetProductByID(ctx, "p1")
	require.Error(t, err)
}
