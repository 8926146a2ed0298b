package memdb

import (
	"context"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/model"
)

func cloneCoupon(c model.Coupon) model.Coupon {
	c.ApplicableCategories = cloneStrings(c.ApplicableCategories)
	c.ApplicableProducts = cloneStrings(c.ApplicableProducts)
	return c
}

func (s *Store) codeTaken(code, exceptID string) bool {
	for id, c := range s.coupons {
		if c.Code == code && id != exceptID {
			return true
		}
	}
	return false
}

func (s *Store) CreateCoupon(ctx context.Context, coupon *model.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.coupons[coupon.ID]; ok || s.codeTaken(coupon.Code, "") {
		return db.ErrDuplicateKey
	}
	s.coupons[coupon.ID] = cloneCoupon(*coupon)
	return nil
}

func (s *Store) GetCouponByID(ctx context.Context, id string) (*model.Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.coupons[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	c = cloneCoupon(c)
	return &c, nil
}

func (s *Store) GetCouponByCode(ctx context.Context, code string) (*model.Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.coupons {
		if c.Code == code {
			c = cloneCoupon(c)
			return &c, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *Store) UpdateCoupon(ctx context.Context, coupon *model.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.coupons[coupon.ID]; !ok {
		return db.ErrNotFound
	}
	if s.codeTaken(coupon.Code, coupon.ID) {
		return db.ErrDuplicateKey
	}
	coupon.UpdatedAt = now()
	s.coupons[coupon.ID] = cloneCoupon(*coupon)
	return nil
}

func (s *Store) DeleteCoupon(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.coupons[id]; !ok {
		return db.ErrNotFound
	}
	delete(s.coupons, id)
	return nil
}

func (s *Store) ListCoupons(ctx context.Context) ([]model.Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.Coupon, 0, len(s.coupons))
	for _, c := range s.coupons {
		res = append(res, cloneCoupon(c))
	}
	sortStable(res, func(a, b model.Coupon) bool { return a.CreatedAt.After(b.CreatedAt) })
	return res, nil
}

func (s *Store) RedeemCoupon(ctx context.Context, code string) (*model.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.coupons {
		if c.Code != code {
			continue
		}
		if c.Exhausted() {
			return nil, db.ErrCouponExhausted
		}
		c.UsesCount++
		c.UpdatedAt = now()
		s.coupons[id] = c
		c = cloneCoupon(c)
		return &c, nil
	}
	return nil, db.ErrNotFound
}

func (s *Store) ReleaseCoupon(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.coupons {
		if c.Code != code {
			continue
		}
		if c.UsesCount > 0 {
			c.UsesCount--
			c.UpdatedAt = now()
			s.coupons[id] = c
		}
		return nil
	}
	return db.ErrNotFound
}
