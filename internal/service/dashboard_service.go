package service

import (
	"context"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/model"
	"github.com/RoyceAzure/lab/storefront/internal/util"
	"golang.org/x/sync/errgroup"
)

type IDashboardService interface {
	// GetStats 各項統計同時查詢，任一失敗即回傳錯誤
	GetStats(ctx context.Context) (*model.DashboardStats, error)
}

type DashboardService struct {
	store db.IStore
}

func NewDashboardService(store db.IStore) *DashboardService {
	if util.IsNil(store) {
		panic("dashboard service initialization failed: store cannot be nil")
	}
	return &DashboardService{store: store}
}

func (s *DashboardService) GetStats(ctx context.Context) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.TotalOrders, err = s.store.CountOrders(ctx, model.OrderFilter{})
		return repoErr(err, "order")
	})
	g.Go(func() (err error) {
		stats.PendingOrders, err = s.store.CountOrders(ctx, model.OrderFilter{Status: string(model.OrderStatusPending)})
		return repoErr(err, "order")
	})
	g.Go(func() error {
		revenue, err := s.store.SumOrderRevenue(ctx)
		if err != nil {
			return repoErr(err, "order")
		}
		stats.TotalRevenue = util.RoundMoney(revenue)
		return nil
	})
	g.Go(func() (err error) {
		stats.TotalProducts, err = s.store.CountProducts(ctx, model.ProductFilter{})
		return repoErr(err, "product")
	})
	g.Go(func() (err error) {
		maxStock := constants.LowStockThreshold
		stats.LowStockProducts, err = s.store.CountProducts(ctx, model.ProductFilter{MaxStock: &maxStock})
		return repoErr(err, "product")
	})
	g.Go(func() (err error) {
		stats.TotalCustomers, err = s.store.CountCustomers(ctx)
		return repoErr(err, "customer")
	})
	g.Go(func() error {
		recent, _, err := s.store.ListOrders(ctx, model.OrderFilter{Paging: model.NewPaging(1, constants.RecentOrdersLimit)})
		if err != nil {
			return repoErr(err, "order")
		}
		stats.RecentOrders = recent
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
