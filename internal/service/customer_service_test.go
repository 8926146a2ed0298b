package service

import (
	"context"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/memdb"
	"github.com/RoyceAzure/lab/storefront/internal/model"
	er "github.com/RoyceAzure/lab/storefront/internal/pkg/rj_error"
	"github.com/stretchr/testify/require"
)

func seedOrder(t *testing.T, store *memdb.Store, id, email string, total float64, status model.OrderStatus, created time.Time) {
	t.Helper()
	require.NoError(t, store.CreateOrder(context.Background(), &model.Order{
		ID:        id,
		UserEmail: email,
		UserName:  "Name " + id,
		Total:     total,
		Status:    status,
		CreatedAt: created,
	}))
}

func TestCustomerRebuildFromOrders(t *testing.T) {
	ctx := context.Background()
	store := memdb.NewStore()
	svc := NewCustomerService(store, store, nil)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	seedOrder(t, store, "o1", "whale@example.com", 3000, model.OrderStatusDelivered, base)
	seedOrder(t, store, "o2", "whale@example.com", 2500.5, model.OrderStatusProcessing, base.Add(time.Hour))
	seedOrder(t, store, "o3", "vip@example.com", 1000, model.OrderStatusPending, base)
	seedOrder(t, store, "o4", "small@example.com", 20, model.OrderStatusPending, base)
	seedOrder(t, store, "o5", "small@example.com", 5000, model.OrderStatusCancelled, base)

	require.NoError(t, store.UpsertCustomer(ctx, &model.Customer{Email: "vip@example.com", Notes: "prefers DHL"}))

	n, err := svc.RebuildFromOrders(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	whale, err := svc.GetCustomer(ctx, "WHALE@example.com")
	require.NoError(t, err)
	require.Equal(t, 2, whale.TotalOrders)
	require.Equal(t, 5500.5, whale.TotalSpent)
	require.Equal(t, model.CustomerGroupWholesale, whale.CustomerGroup)
	require.Equal(t, "Name o2", whale.Name)
	require.True(t, whale.LastOrderAt.Equal(base.Add(time.Hour)))

	vip, err := svc.GetCustomer(ctx, "vip@example.com")
	require.NoError(t, err)
	require.Equal(t, model.CustomerGroupVip, vip.CustomerGroup)
	require.Equal(t, "prefers DHL", vip.Notes)

	small, err := svc.GetCustomer(ctx, "small@example.com")
	require.NoError(t, err)
	require.Equal(t, 1, small.TotalOrders)
	require.Equal(t, model.CustomerGroupRegular, small.CustomerGroup)

	list, total, err := svc.ListCustomers(ctx, model.CustomerFilter{Group: string(model.CustomerGroupVip), Paging: model.NewPaging(1, 10)})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "vip@example.com", list[0].Email)

	_, _, err = svc.ListCustomers(ctx, model.CustomerFilter{Group: "gold"})
	require.Equal(t, er.BadRequestCode, er.CodeOf(err))
}

func TestCustomerUpdate(t *testing.T) {
	ctx := context.Background()
	store := memdb.NewStore()
	svc := NewCustomerService(store, store, nil)
	require.NoError(t, store.UpsertCustomer(ctx, &model.Customer{Email: "a@example.com", CustomerGroup: model.CustomerGroupRegular}))

	group := string(model.CustomerGroupWholesale)
	notes := "net 30"
	c, err := svc.UpdateCustomer(ctx, "a@example.com", CustomerUpdate{Group: &group, Notes: &notes})
	require.NoError(t, err)
	require.Equal(t, model.CustomerGroupWholesale, c.CustomerGroup)
	require.Equal(t, "net 30", c.Notes)

	bad := "gold"
	_, err = svc.UpdateCustomer(ctx, "a@example.com", CustomerUpdate{Group: &bad})
	require.Equal(t, er.BadRequestCode, er.CodeOf(err))

	_, err = svc.UpdateCustomer(ctx, "missing@example.com", CustomerUpdate{Notes: &notes})
	require.Equal(t, er.NotFoundCode, er.CodeOf(err))
}
