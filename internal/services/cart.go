package service

import (
	"context"
	stdErrors "errors"
	"log/slog"

	"github.com/easyshop/easyshop-api/internal/api/middleware"
	"github.com/easyshop/easyshop-api/internal/errors"
	"github.com/easyshop/easyshop-api/internal/metrics"
	"github.com/easyshop/easyshop-api/internal/models"
	repository "github.com/easyshop/easyshop-api/internal/repositories"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type CartService interface {
	GetCart(ctx context.Context, userID int64) (*models.ShoppingCart, error)
	AddItem(ctx context.Context, userID, productID int64) (*models.ShoppingCart, error)
	UpdateItem(ctx context.Context, userID, productID int64, req *models.UpdateCartItemRequest) error
	RemoveItem(ctx context.Context, userID, productID int64) error
	ClearCart(ctx context.Context, userID int64) error
}

type cartService struct {
	repo     repository.CartRepository
	products repository.ProductLookup
}

func NewCartService(repo repository.CartRepository, products repository.ProductLookup) CartService {
	return &cartService{repo: repo, products: products}
}

func (s *cartService) GetCart(ctx context.Context, userID int64) (cart *models.ShoppingCart, err error) {
	ctx, span := tracer.Start(ctx, "CartService.GetCart", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer func() {
		metrics.ObserveCartOperation("get_cart", err)
		endSpan(span, err)
	}()

	cart, err = s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, cartError(err)
	}

	span.SetAttributes(attribute.Int("cart.items", cart.Len()))

	return cart, nil
}

// AddItem puts one unit of the product into the cart and returns the updated cart.
func (s *cartService) AddItem(ctx context.Context, userID, productID int64) (cart *models.ShoppingCart, err error) {
	ctx, span := tracer.Start(ctx, "CartService.AddItem", trace.WithAttributes(
		attribute.Int64("user.id", userID),
		attribute.Int64("product.id", productID),
	))
	defer func() {
		metrics.ObserveCartOperation("add_item", err)
		endSpan(span, err)
	}()

	logger := middleware.LoggerFromContext(ctx)

	if _, err = s.products.GetProductByID(ctx, productID); err != nil {
		if stdErrors.Is(err, repository.ErrProductNotFound) {
			logger.Warn("Add to cart for unknown product", slog.Int64("product_id", productID))
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if err = s.repo.AddItem(ctx, userID, productID); err != nil {
		return nil, cartError(err)
	}

	cart, err = s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, cartError(err)
	}

	logger.Info("Product added to cart", slog.Int64("product_id", productID), slog.Int("cart_items", cart.Len()))

	return cart, nil
}

func (s *cartService) UpdateItem(ctx context.Context, userID, productID int64, req *models.UpdateCartItemRequest) (err error) {
	ctx, span := tracer.Start(ctx, "CartService.UpdateItem", trace.WithAttributes(
		attribute.Int64("user.id", userID),
		attribute.Int64("product.id", productID),
		attribute.Int("cart.quantity", req.Quantity),
	))
	defer func() {
		metrics.ObserveCartOperation("update_item", err)
		endSpan(span, err)
	}()

	line := models.CartLine{
		UserID:          userID,
		ProductID:       productID,
		Quantity:        req.Quantity,
		DiscountPercent: req.DiscountPercent,
	}

	if err = s.repo.UpdateItem(ctx, userID, line); err != nil {
		return cartError(err)
	}

	return nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID, productID int64) (err error) {
	ctx, span := tracer.Start(ctx, "CartService.RemoveItem", trace.WithAttributes(
		attribute.Int64("user.id", userID),
		attribute.Int64("product.id", productID),
	))
	defer func() {
		metrics.ObserveCartOperation("remove_item", err)
		endSpan(span, err)
	}()

	if err = s.repo.RemoveItem(ctx, userID, productID); err != nil {
		return cartError(err)
	}

	return nil
}

func (s *cartService) ClearCart(ctx context.Context, userID int64) (err error) {
	ctx, span := tracer.Start(ctx, "CartService.ClearCart", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer func() {
		metrics.ObserveCartOperation("clear_cart", err)
		endSpan(span, err)
	}()

	if err = s.repo.DeleteCart(ctx, userID); err != nil {
		return cartError(err)
	}

	return nil
}

// cartError maps repository failures onto client-facing errors. Persistence
// failures keep only their generic message.
func cartError(err error) error {
	var perr *repository.PersistenceError

	switch {
	case stdErrors.As(err, &perr):
		return errors.DatabaseError(perr.Message).WithError(err)
	case stdErrors.Is(err, repository.ErrProductNotFound):
		return errors.NotFoundError("Product not found").WithError(err)
	case stdErrors.Is(err, repository.ErrCartItemNotFound):
		return errors.NotFoundError("Product is not in the cart").WithError(err)
	case stdErrors.Is(err, repository.ErrInvalidCartItem):
		return errors.ValidationError("Invalid cart item").WithError(err)
	default:
		return errors.InternalError("Unexpected cart failure").WithError(err)
	}
}
