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

type CategoryHandler struct {
	categoryService service.CategoryService
	validator       *validator.Validate
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, validator: utils.NewValidator()}
}

func (h *CategoryHandler) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		categories, err := h.categoryService.ListCategories(r.Context())
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list categories", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, categories)
	}
}

func (h *CategoryHandler) GetCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		category, err := h.categoryService.GetCategory(r.Context(), id)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Warn("Failed to get category", slog.Int64("category_id", id), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, category)
	}
}

// ListProducts handles GET /api/v1/categories/{id}/products.
func (h *CategoryHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		products, err := h.categoryService.ListProducts(r.Context(), id)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Warn("Failed to list category products", slog.Int64("category_id", id), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, products)
	}
}

func (h *CategoryHandler) CreateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateCategoryRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create category input")
			return
		}

		category, err := h.categoryService.CreateCategory(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create category", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Category created", slog.Int64("category_id", category.ID))
		response.Success(w, http.StatusCreated, category)
	}
}

func (h *CategoryHandler) UpdateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateCategoryRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update category input", slog.Int64("category_id", id))
			return
		}

		category, err := h.categoryService.UpdateCategory(r.Context(), id, &req)
		if err != nil {
			logger.Error("Failed to update category", slog.Int64("category_id", id), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, category)
	}
}

func (h *CategoryHandler) DeleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.categoryService.DeleteCategory(r.Context(), id); err != nil {
			logger.Error("Failed to delete category", slog.Int64("category_id", id), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.NoContent(w)
	}
}
