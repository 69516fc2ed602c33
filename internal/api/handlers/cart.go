package handlers

import (
	"log/slog"
	"net/http"

	"github.com/easyshop/easyshop-api/internal/api/middleware"
	"github.com/easyshop/easyshop-api/internal/models"
	service "github.com/easyshop/easyshop-api/internal/services"
	"github.com/easyshop/easyshop-api/internal/utils"
	"github.com/easyshop/easyshop-api/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: utils.NewValidator()}
}

// GetCart handles GET /api/v1/cart.
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		cart, err := h.cartService.GetCart(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to get cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// AddItem handles POST /api/v1/cart/products/{productId}.
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		productID, err := utils.ParseID(r, "productId")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		cart, err := h.cartService.AddItem(r.Context(), claims.UserID, productID)
		if err != nil {
			logger.Error("Failed to add item to cart", slog.Int64("product_id", productID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, cart)
	}
}

// UpdateItem handles PUT /api/v1/cart/products/{productId}.
func (h *CartHandler) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		productID, err := utils.ParseID(r, "productId")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		var req models.UpdateCartItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update cart item input")
			return
		}

		if err := h.cartService.UpdateItem(r.Context(), claims.UserID, productID, &req); err != nil {
			logger.Error("Failed to update cart item", slog.Int64("product_id", productID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.NoContent(w)
	}
}

// RemoveItem handles DELETE /api/v1/cart/products/{productId}.
func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		productID, err := utils.ParseID(r, "productId")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.cartService.RemoveItem(r.Context(), claims.UserID, productID); err != nil {
			logger.Error("Failed to remove cart item", slog.Int64("product_id", productID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.NoContent(w)
	}
}

// ClearCart handles DELETE /api/v1/cart.
func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		if err := h.cartService.ClearCart(r.Context(), claims.UserID); err != nil {
			logger.Error("Failed to clear cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cart cleared")
		response.NoContent(w)
	}
}
