package memdb

import (
	"context"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/model"
)

func cloneProduct(p model.Product) model.Product {
	p.Tags = cloneStrings(p.Tags)
	p.Images = cloneStrings(p.Images)
	return p
}

func matchProduct(p model.Product, f model.ProductFilter) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.OnSale != nil && p.OnSale != *f.OnSale {
		return false
	}
	if f.IsNew != nil && p.IsNew != *f.IsNew {
		return false
	}
	if f.BestSeller != nil && p.BestSeller != *f.BestSeller {
		return false
	}
	if f.Featured != nil && p.Featured != *f.Featured {
		return false
	}
	if f.ActiveOnly && !p.Active {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.MaxStock != nil && p.Stock > *f.MaxStock {
		return false
	}
	if q := f.SearchQuery; q != "" {
		hit := containsFold(p.Name, q) || containsFold(p.Description, q) || containsFold(p.Category, q)
		for _, tag := range p.Tags {
			hit = hit || containsFold(tag, q)
		}
		if !hit {
			return false
		}
	}
	return true
}

func productLess(field model.ProductSortField, desc bool) func(a, b model.Product) bool {
	cmp := func(a, b model.Product) int {
		switch field {
		case model.ProductSortPrice:
			return compareFloat(a.Price, b.Price)
		case model.ProductSortName:
			return strings.Compare(a.Name, b.Name)
		case model.ProductSortRating:
			return compareFloat(a.Rating, b.Rating)
		case model.ProductSortSalesCount:
			return a.SalesCount - b.SalesCount
		case model.ProductSortViewCount:
			return a.ViewCount - b.ViewCount
		default:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}
	return func(a, b model.Product) bool {
		c := cmp(a, b)
		if c == 0 {
			return a.ID < b.ID
		}
		if desc {
			return c > 0
		}
		return c < 0
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (s *Store) CreateProduct(ctx context.Context, product *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[product.ID]; ok {
		return db.ErrDuplicateKey
	}
	s.products[product.ID] = cloneProduct(*product)
	return nil
}

func (s *Store) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	p = cloneProduct(p)
	return &p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[product.ID]; !ok {
		return db.ErrNotFound
	}
	product.UpdatedAt = now()
	s.products[product.ID] = cloneProduct(*product)
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return db.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *Store) ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := []model.Product{}
	for _, p := range s.products {
		if matchProduct(p, filter) {
			res = append(res, cloneProduct(p))
		}
	}
	sortStable(res, productLess(filter.SortBy, filter.SortDesc))
	return page(res, filter.Paging), int64(len(res)), nil
}

func (s *Store) CountProducts(ctx context.Context, filter model.ProductFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, p := range s.products {
		if matchProduct(p, filter) {
			n++
		}
	}
	return n, nil
}

func (s *Store) IncrementProductCounters(ctx context.Context, id string, delta model.ProductCounterDelta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return db.ErrNotFound
	}
	p.ViewCount += delta.Views
	p.SalesCount += delta.Sales
	p.Stock += delta.Stock
	s.products[id] = p
	return nil
}

func (s *Store) CreateCategory(ctx context.Context, category *model.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[category.ID]; ok {
		return db.ErrDuplicateKey
	}
	s.categories[category.ID] = *category
	return nil
}

func (s *Store) GetCategoryByID(ctx context.Context, id string) (*model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, category *model.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[category.ID]; !ok {
		return db.ErrNotFound
	}
	category.UpdatedAt = now()
	s.categories[category.ID] = *category
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return db.ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

func (s *Store) ListCategories(ctx context.Context) ([]model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.Category, 0, len(s.categories))
	for _, c := range s.categories {
		res = append(res, c)
	}
	sortStable(res, func(a, b model.Category) bool {
		if a.SortOrder == b.SortOrder {
			return a.Name < b.Name
		}
		return a.SortOrder < b.SortOrder
	})
	return res, nil
}
