package memdb

import (
	"context"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/model"
)

func cloneOrder(o model.Order) model.Order {
	o.Items = append([]model.OrderItem(nil), o.Items...)
	if o.PaymentError != nil {
		pe := *o.PaymentError
		o.PaymentError = &pe
	}
	return o
}

func matchOrder(o model.Order, f model.OrderFilter) bool {
	if f.Status != "" && string(o.Status) != f.Status {
		return false
	}
	if f.UserID != "" && o.UserID != f.UserID {
		return false
	}
	if f.UserEmail != "" && o.UserEmail != f.UserEmail {
		return false
	}
	return true
}

func (s *Store) CreateOrder(ctx context.Context, order *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[order.ID]; ok {
		return db.ErrDuplicateKey
	}
	s.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (s *Store) GetOrderByID(ctx context.Context, id string) (*model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	o = cloneOrder(o)
	return &o, nil
}

func (s *Store) UpdateOrder(ctx context.Context, order *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[order.ID]; !ok {
		return db.ErrNotFound
	}
	order.UpdatedAt = now()
	s.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (s *Store) filterOrders(f model.OrderFilter) []model.Order {
	res := []model.Order{}
	for _, o := range s.orders {
		if matchOrder(o, f) {
			res = append(res, cloneOrder(o))
		}
	}
	sortStable(res, func(a, b model.Order) bool {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID < b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return res
}

func (s *Store) ListOrders(ctx context.Context, filter model.OrderFilter) ([]model.Order, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.filterOrders(filter)
	return page(all, filter.Paging), int64(len(all)), nil
}

func (s *Store) CountOrders(ctx context.Context, filter model.OrderFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, o := range s.orders {
		if matchOrder(o, filter) {
			n++
		}
	}
	return n, nil
}

func (s *Store) SumOrderRevenue(ctx context.Context) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sum float64
	for _, o := range s.orders {
		if o.Status != model.OrderStatusCancelled {
			sum += o.Total
		}
	}
	return sum, nil
}

func (s *Store) FindOrderByPaymentRef(ctx context.Context, method model.PaymentMethod, ref string) (*model.Order, error) {
	if ref == "" {
		return nil, db.ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.PaymentMethod != method {
			continue
		}
		if id, _ := o.PaymentReference(); id == ref {
			o = cloneOrder(o)
			return &o, nil
		}
	}
	return nil, db.ErrNotFound
}
