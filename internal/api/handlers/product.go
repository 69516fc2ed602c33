package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/easyshop/easyshop-api/internal/api/middleware"
	"github.com/easyshop/easyshop-api/internal/errors"
	"github.com/easyshop/easyshop-api/internal/models"
	service "github.com/easyshop/easyshop-api/internal/services"
	"github.com/easyshop/easyshop-api/internal/utils"
	"github.com/easyshop/easyshop-api/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	productService service.ProductService
	validator      *validator.Validate
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService, validator: utils.NewValidator()}
}

// SearchProducts handles GET /api/v1/products?cat=&minPrice=&maxPrice=&color=
func (h *ProductHandler) SearchProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		filter, err := parseProductFilter(r.URL.Query())
		if err != nil {
			logger.Warn("Invalid product filter", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		products, err := h.productService.SearchProducts(r.Context(), filter)
		if err != nil {
			logger.Error("Failed to search products", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, products)
	}
}

func parseProductFilter(q url.Values) (models.ProductFilter, error) {
	var filter models.ProductFilter

	if raw := q.Get("cat"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return filter, errors.BadRequestError("Invalid query parameter 'cat'")
		}
		filter.CategoryID = &id
	}

	for name, dest := range map[string]**decimal.Decimal{"minPrice": &filter.MinPrice, "maxPrice": &filter.MaxPrice} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}

		d, err := decimal.NewFromString(raw)
		if err != nil || d.IsNegative() {
			return filter, errors.BadRequestError("Invalid query parameter '" + name + "'")
		}
		*dest = &d
	}

	if color := q.Get("color"); color != "" {
		filter.Color = &color
	}

	return filter, nil
}

func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		product, err := h.productService.GetProduct(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to get product", slog.Int64("product_id", id), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create product input")
			return
		}

		product, err := h.productService.CreateProduct(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create product", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, product)
	}
}

func (h *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update product input", slog.Int64("product_id", id))
			return
		}

		product, err := h.productService.UpdateProduct(r.Context(), id, &req)
		if err != nil {
			logger.Error("Failed to update product", slog.Int64("product_id", id), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product updated", slog.Int64("product_id", id))
		response.Success(w, http.StatusOK, product)
	}
}

func (h *ProductHandler) DeleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.productService.DeleteProduct(r.Context(), id); err != nil {
			logger.Error("Failed to delete product", slog.Int64("product_id", id), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.NoContent(w)
	}
}
