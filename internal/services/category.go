package service

import (
	"context"
	stdErrors "errors"
	"log/slog"

	"github.com/easyshop/easyshop-api/internal/api/middleware"
	"github.com/easyshop/easyshop-api/internal/cache"
	"github.com/easyshop/easyshop-api/internal/errors"
	"github.com/easyshop/easyshop-api/internal/metrics"
	"github.com/easyshop/easyshop-api/internal/models"
	repository "github.com/easyshop/easyshop-api/internal/repositories"
)

type CategoryService interface {
	ListCategories(ctx context.Context) ([]*models.Category, error)
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	ListProducts(ctx context.Context, categoryID int64) ([]*models.Product, error)
	CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error)
	UpdateCategory(ctx context.Context, id int64, req *models.UpdateCategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type categoryService struct {
	repo     repository.CategoryRepository
	products repository.ProductRepository
	cache    cache.Cache
}

func NewCategoryService(repo repository.CategoryRepository, products repository.ProductRepository, c cache.Cache) CategoryService {
	return &categoryService{repo: repo, products: products, cache: c}
}

func (s *categoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {

	logger := middleware.LoggerFromContext(ctx)

	var cached []*models.Category

	found, err := s.cache.Get(ctx, cache.CategoryListKey, &cached)
	if err != nil {
		logger.Warn("Category cache read failed", slog.Any("error", err))
	}

	metrics.ObserveCacheLookup(cache.CategoryKeyPrefix, found)

	if found {
		return cached, nil
	}

	categories, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch categories").WithError(err)
	}

	if err := s.cache.Set(ctx, cache.CategoryListKey, categories, 0); err != nil {
		logger.Warn("Category cache write failed", slog.Any("error", err))
	}

	return categories, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id int64) (*models.Category, error) {

	logger := middleware.LoggerFromContext(ctx)
	key := cache.CategoryKey(id)

	var cached models.Category

	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("Category cache read failed", slog.String("key", key), slog.Any("error", err))
	}

	metrics.ObserveCacheLookup(cache.CategoryKeyPrefix, found)

	if found {
		return &cached, nil
	}

	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, categoryError(err, "Failed to fetch category")
	}

	if err := s.cache.Set(ctx, key, category, 0); err != nil {
		logger.Warn("Category cache write failed", slog.String("key", key), slog.Any("error", err))
	}

	return category, nil
}

// ListProducts returns the category's products, or NOT_FOUND for an unknown category.
func (s *categoryService) ListProducts(ctx context.Context, categoryID int64) ([]*models.Product, error) {

	if _, err := s.repo.GetByID(ctx, categoryID); err != nil {
		return nil, categoryError(err, "Failed to fetch category")
	}

	products, err := s.products.ListByCategoryID(ctx, categoryID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch products").WithError(err)
	}

	return products, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {

	category := &models.Category{
		Name:        sanitizeText(req.Name),
		Description: sanitizeText(req.Description),
	}

	if category.Name == "" {
		return nil, errors.ValidationError("Category name must contain text")
	}

	if err := s.repo.Create(ctx, category); err != nil {
		return nil, errors.DatabaseError("Failed to create category").WithError(err)
	}

	s.invalidate(ctx, cache.CategoryListKey)

	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id int64, req *models.UpdateCategoryRequest) (*models.Category, error) {

	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, categoryError(err, "Failed to fetch category")
	}

	if req.Name != nil {
		category.Name = sanitizeText(*req.Name)
	}
	if req.Description != nil {
		category.Description = sanitizeText(*req.Description)
	}

	if category.Name == "" {
		return nil, errors.ValidationError("Category name must contain text")
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, categoryError(err, "Failed to update category")
	}

	s.invalidate(ctx, cache.CategoryKey(id), cache.CategoryListKey)

	return category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id int64) error {

	if err := s.repo.Delete(ctx, id); err != nil {
		return categoryError(err, "Failed to delete category")
	}

	s.invalidate(ctx, cache.CategoryKey(id), cache.CategoryListKey)

	return nil
}

func (s *categoryService) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Cache invalidation failed", slog.Any("keys", keys), slog.Any("error", err))
	}
}

func categoryError(err error, message string) error {
	switch {
	case stdErrors.Is(err, repository.ErrCategoryNotFound):
		return errors.NotFoundError("Category not found").WithError(err)
	case stdErrors.Is(err, repository.ErrCategoryInUse):
		return errors.ConflictError("Category still has products").WithError(err)
	default:
		return errors.DatabaseError(message).WithError(err)
	}
}
