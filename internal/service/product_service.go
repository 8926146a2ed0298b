package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/model"
	er "github.com/RoyceAzure/lab/storefront/internal/pkg/rj_error"
	"github.com/RoyceAzure/lab/storefront/internal/util"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	return strings.Trim(slugInvalid.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

type IProductService interface {
	// ListProducts 前台只列出上架商品
	ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, int64, error)
	// SearchProducts 名稱、描述、標籤、分類不分大小寫比對
	//
	// 錯誤:
	//   - er.BadRequestCode 400: q 為空
	SearchProducts(ctx context.Context, q string, paging model.Paging) ([]model.Product, int64, error)
	BestSellers(ctx context.Context, limit int) ([]model.Product, error)
	Featured(ctx context.Context, limit int) ([]model.Product, error)
	// GetProduct 前台讀取，背景累加瀏覽數，下架商品視為不存在
	GetProduct(ctx context.Context, id string) (*model.Product, error)

	AdminListProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, int64, error)
	AdminGetProduct(ctx context.Context, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, p *model.Product) (*model.Product, error)
	UpdateProduct(ctx context.Context, p *model.Product) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type ProductService struct {
	repo   db.IProductRepository
	logger *zerolog.Logger
	async  func(func())
}

func NewProductService(repo db.IProductRepository, logger *zerolog.Logger) *ProductService {
	if util.IsNil(repo) {
		panic("product service initialization failed: repo cannot be nil")
	}
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &ProductService{repo: repo, logger: logger, async: func(f func()) { go f() }}
}

func (s *ProductService) ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, int64, error) {
	filter.ActiveOnly = true
	return s.list(ctx, filter)
}

func (s *ProductService) AdminListProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, int64, error) {
	return s.list(ctx, filter)
}

func (s *ProductService) list(ctx context.Context, filter model.ProductFilter) ([]model.Product, int64, error) {
	if filter.SortBy == "" {
		filter.SortBy = model.ProductSortCreatedAt
		filter.SortDesc = true
	}
	if !model.IsValidProductSortField(string(filter.SortBy)) {
		return nil, 0, er.Newf(er.BadRequestCode, "invalid sort_by %s", filter.SortBy)
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, 0, er.New(er.BadRequestCode, "min_price cannot be greater than max_price")
	}
	products, total, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, 0, repoErr(err, "product")
	}
	return products, total, nil
}

func (s *ProductService) SearchProducts(ctx context.Context, q string, paging model.Paging) ([]model.Product, int64, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, 0, er.New(er.BadRequestCode, "search query q is required")
	}
	return s.list(ctx, model.ProductFilter{
		SearchQuery: q,
		ActiveOnly:  true,
		SortBy:      model.ProductSortSalesCount,
		SortDesc:    true,
		Paging:      paging,
	})
}

func (s *ProductService) BestSellers(ctx context.Context, limit int) ([]model.Product, error) {
	if limit <= 0 {
		limit = constants.DefaultBestSellerLimit
	}
	products, _, err := s.list(ctx, model.ProductFilter{
		ActiveOnly: true,
		SortBy:     model.ProductSortSalesCount,
		SortDesc:   true,
		Paging:     model.NewPaging(1, limit),
	})
	return products, err
}

func (s *ProductService) Featured(ctx context.Context, limit int) ([]model.Product, error) {
	if limit <= 0 {
		limit = constants.DefaultBestSellerLimit
	}
	featured := true
	products, _, err := s.list(ctx, model.ProductFilter{
		Featured:   &featured,
		ActiveOnly: true,
		Paging:     model.NewPaging(1, limit),
	})
	return products, err
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, "product")
	}
	if !p.Active {
		return nil, er.New(er.NotFoundCode, "product not found")
	}

	s.async(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.repo.IncrementProductCounters(ctx, id, model.ProductCounterDelta{Views: 1}); err != nil {
			s.logger.Warn().Err(err).Str("product_id", id).Msg("failed to increment view count")
		}
	})
	return p, nil
}

func (s *ProductService) AdminGetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, "product")
	}
	return p, nil
}

func validateProduct(p *model.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return er.New(er.BadRequestCode, "product name is required")
	}
	if p.Price < 0 || p.CompareAtPrice < 0 || p.Cost < 0 {
		return er.New(er.BadRequestCode, "prices cannot be negative")
	}
	if p.Stock < 0 {
		return er.New(er.BadRequestCode, "stock cannot be negative")
	}
	if p.Slug == "" {
		p.Slug = slugify(p.Name)
	} else {
		p.Slug = slugify(p.Slug)
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return nil
}

func (s *ProductService) CreateProduct(ctx context.Context, p *model.Product) (*model.Product, error) {
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.ViewCount, p.SalesCount = 0, 0
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, repoErr(err, "product slug")
	}
	return p, nil
}

// UpdateProduct 瀏覽數與銷量只由系統累加
func (s *ProductService) UpdateProduct(ctx context.Context, p *model.Product) (*model.Product, error) {
	existing, err := s.repo.GetProductByID(ctx, p.ID)
	if err != nil {
		return nil, repoErr(err, "product")
	}
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	p.ViewCount = existing.ViewCount
	p.SalesCount = existing.SalesCount
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return nil, repoErr(err, "product slug")
	}
	return p, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	return repoErr(s.repo.DeleteProduct(ctx, id), "product")
}
