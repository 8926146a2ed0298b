package service

import (
	"context"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/memdb"
	"github.com/RoyceAzure/lab/storefront/internal/model"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	store := memdb.NewStore()
	svc := NewDashboardService(store)
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	for i, o := range []struct {
		status model.OrderStatus
		total  float64
	}{
		{model.OrderStatusPending, 10.5},
		{model.OrderStatusPending, 20},
		{model.OrderStatusDelivered, 100},
		{model.OrderStatusCancelled, 999},
		{model.OrderStatusProcessing, 30.25},
		{model.OrderStatusShipped, 40},
	} {
		seedOrder(t, store, string(rune('a'+i)), "x@example.com", o.total, o.status, base.Add(time.Duration(i)*time.Hour))
	}
	require.NoError(t, store.CreateProduct(ctx, &model.Product{ID: "p1", Stock: 5}))
	require.NoError(t, store.CreateProduct(ctx, &model.Product{ID: "p2", Stock: 6}))
	require.NoError(t, store.CreateProduct(ctx, &model.Product{ID: "p3", Stock: 0}))
	require.NoError(t, store.UpsertCustomer(ctx, &model.Customer{Email: "x@example.com"}))

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(6), stats.TotalOrders)
	require.Equal(t, int64(2), stats.PendingOrders)
	require.Equal(t, 200.75, stats.TotalRevenue)
	require.Equal(t, int64(3), stats.TotalProducts)
	require.Equal(t, int64(2), stats.LowStockProducts)
	require.Equal(t, int64(1), stats.TotalCustomers)
	require.Len(t, stats.RecentOrders, 5)
	require.Equal(t, "f", stats.RecentOrders[0].ID)
}
