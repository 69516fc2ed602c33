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
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type ProductService interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	SearchProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error)
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type productService struct {
	repo  repository.ProductRepository
	cache cache.Cache
}

func NewProductService(repo repository.ProductRepository, c cache.Cache) ProductService {
	return &productService{repo: repo, cache: c}
}

func (s *productService) GetProduct(ctx context.Context, id int64) (product *models.Product, err error) {
	ctx, span := tracer.Start(ctx, "ProductService.GetProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer func() { endSpan(span, err) }()

	logger := middleware.LoggerFromContext(ctx)
	key := cache.ProductKey(id)

	var cached models.Product

	found, cacheErr := s.cache.Get(ctx, key, &cached)
	if cacheErr != nil {
		logger.Warn("Product cache read failed", slog.String("key", key), slog.Any("error", cacheErr))
	}

	metrics.ObserveCacheLookup(cache.ProductKeyPrefix, found)

	if found {
		return &cached, nil
	}

	product, err = s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, productError(err, "Failed to fetch product")
	}

	if err := s.cache.Set(ctx, key, product, 0); err != nil {
		logger.Warn("Product cache write failed", slog.String("key", key), slog.Any("error", err))
	}

	return product, nil
}

func (s *productService) SearchProducts(ctx context.Context, filter models.ProductFilter) (products []*models.Product, err error) {
	ctx, span := tracer.Start(ctx, "ProductService.SearchProducts")
	defer func() { endSpan(span, err) }()

	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, errors.BadRequestError("minPrice must not exceed maxPrice")
	}

	products, err = s.repo.Search(ctx, filter)
	if err != nil {
		return nil, errors.DatabaseError("Failed to search products").WithError(err)
	}

	return products, nil
}

func (s *productService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {

	product := &models.Product{
		Name:        sanitizeText(req.Name),
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		Description: sanitizeText(req.Description),
		Color:       sanitizeText(req.Color),
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		IsFeatured:  req.IsFeatured,
	}

	if product.Name == "" {
		return nil, errors.ValidationError("Product name must contain text")
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, productError(err, "Failed to create product")
	}

	middleware.LoggerFromContext(ctx).Info("Product created", slog.Int64("product_id", product.ID))

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (*models.Product, error) {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, productError(err, "Failed to fetch product")
	}

	if req.Name != nil {
		product.Name = sanitizeText(*req.Name)
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}
	if req.Description != nil {
		product.Description = sanitizeText(*req.Description)
	}
	if req.Color != nil {
		product.Color = sanitizeText(*req.Color)
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}

	if product.Name == "" {
		return nil, errors.ValidationError("Product name must contain text")
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, productError(err, "Failed to update product")
	}

	s.invalidate(ctx, cache.ProductKey(id))

	return product, nil
}

// DeleteProduct also drops the product from every cart.
func (s *productService) DeleteProduct(ctx context.Context, id int64) error {

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return productError(err, "Failed to delete product")
	}

	s.invalidate(ctx, cache.ProductKey(id))

	middleware.LoggerFromContext(ctx).Info("Product deleted", slog.Int64("product_id", id))

	return nil
}

func (s *productService) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Cache invalidation failed", slog.Any("keys", keys), slog.Any("error", err))
	}
}

func productError(err error, message string) error {
	switch {
	case stdErrors.Is(err, repository.ErrProductNotFound):
		return errors.NotFoundError("Product not found").WithError(err)
	case stdErrors.Is(err, repository.ErrCategoryNotFound):
		return errors.BadRequestError("Category does not exist").WithError(err)
	default:
		return errors.DatabaseError(message).WithError(err)
	}
}
