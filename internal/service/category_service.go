package service

import (
	"context"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/model"
	er "github.com/RoyceAzure/lab/storefront/internal/pkg/rj_error"
	"github.com/RoyceAzure/lab/storefront/internal/util"
	"github.com/google/uuid"
)

type ICategoryService interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	CreateCategory(ctx context.Context, c *model.Category) (*model.Category, error)
	UpdateCategory(ctx context.Context, c *model.Category) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type CategoryService struct {
	repo db.ICategoryRepository
}

func NewCategoryService(repo db.ICategoryRepository) *CategoryService {
	if util.IsNil(repo) {
		panic("category service initialization failed: repo cannot be nil")
	}
	return &CategoryService{repo: repo}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, repoErr(err, "category")
	}
	sortStable(categories, func(a, b model.Category) bool {
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.Name < b.Name
	})
	return categories, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	c, err := s.repo.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, "category")
	}
	return c, nil
}

func validateCategory(c *model.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return er.New(er.BadRequestCode, "category name is required")
	}
	if c.Slug == "" {
		c.Slug = slugify(c.Name)
	} else {
		c.Slug = slugify(c.Slug)
	}
	return nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, c *model.Category) (*model.Category, error) {
	if err := validateCategory(c); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c.ID = uuid.NewString()
	c.CreatedAt = now
	c.UpdatedAt = now
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, repoErr(err, "category slug")
	}
	return c, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, c *model.Category) (*model.Category, error) {
	existing, err := s.repo.GetCategoryByID(ctx, c.ID)
	if err != nil {
		return nil, repoErr(err, "category")
	}
	if err := validateCategory(c); err != nil {
		return nil, err
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, repoErr(err, "category slug")
	}
	return c, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	return repoErr(s.repo.DeleteCategory(ctx, id), "category")
}
