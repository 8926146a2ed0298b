package memdb

import (
	"context"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/model"
)

func (s *Store) UpsertCustomer(ctx context.Context, customer *model.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[customer.Email] = *customer
	return nil
}

func (s *Store) GetCustomerByEmail(ctx context.Context, email string) (*model.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[email]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &c, nil
}

func (s *Store) ListCustomers(ctx context.Context, filter model.CustomerFilter) ([]model.Customer, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := []model.Customer{}
	for _, c := range s.customers {
		if filter.Group != "" && string(c.CustomerGroup) != filter.Group {
			continue
		}
		if filter.Search != "" && !containsFold(c.Email, filter.Search) && !containsFold(c.Name, filter.Search) {
			continue
		}
		res = append(res, c)
	}
	sortStable(res, func(a, b model.Customer) bool {
		if a.TotalSpent == b.TotalSpent {
			return a.Email < b.Email
		}
		return a.TotalSpent > b.TotalSpent
	})
	return page(res, filter.Paging), int64(len(res)), nil
}

func (s *Store) CountCustomers(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.customers)), nil
}
