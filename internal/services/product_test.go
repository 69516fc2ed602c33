package service_test

import (
	"errors"
	"net/http"
	"testing"

	cacheMocks "github.com/easyshop/easyshop-api/internal/cache/mocks"
	appErrors "github.com/easyshop/easyshop-api/internal/errors"
	"github.com/easyshop/easyshop-api/internal/models"
	repository "github.com/easyshop/easyshop-api/internal/repositories"
	"github.com/easyshop/easyshop-api/internal/repositories/mocks"
	service "github.com/easyshop/easyshop-api/internal/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupProductService() (service.ProductService, *mocks.ProductRepository, *cacheMocks.Cache) {
	repo := new(mocks.ProductRepository)
	c := new(cacheMocks.Cache)

	return service.NewProductService(repo, c), repo, c
}

func TestProductService_GetProduct(t *testing.T) {
	product := &models.Product{ID: 7, Name: "Headphones", Price: decimal.RequireFromString("49.99")}

	t.Run("Success - Cache Hit", func(t *testing.T) {
		// Arrange
		svc, repo, c := setupProductService()
		c.On("Get", mock.Anything, "product:7", mock.Anything).Return(true, product, nil).Once()

		// Act
		got, err := svc.GetProduct(t.Context(), 7)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Headphones", got.Name)
		assert.True(t, product.Price.Equal(got.Price))
		repo.AssertNotCalled(t, "GetProductByID", mock.Anything, mock.Anything)
		c.AssertExpectations(t)
	})

	t.Run("Success - Cache Miss Populates Cache", func(t *testing.T) {
		// Arrange
		svc, repo, c := setupProductService()
		c.On("Get", mock.Anything, "product:7", mock.Anything).Return(false, nil, nil).Once()
		repo.On("GetProductByID", mock.Anything, int64(7)).Return(product, nil).Once()
		c.On("Set", mock.Anything, "product:7", product, mock.Anything).Return(nil).Once()

		// Act
		got, err := svc.GetProduct(t.Context(), 7)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, product, got)
		repo.AssertExpectations(t)
		c.AssertExpectations(t)
	})

	t.Run("Success - Cache Errors Are Ignored", func(t *testing.T) {
		// Arrange
		svc, repo, c := setupProductService()
		c.On("Get", mock.Anything, "product:7", mock.Anything).Return(false, nil, errors.New("redis down")).Once()
		repo.On("GetProductByID", mock.Anything, int64(7)).Return(product, nil).Once()
		c.On("Set", mock.Anything, "product:7", product, mock.Anything).Return(errors.New("redis down")).Once()

		// Act
		got, err := svc.GetProduct(t.Context(), 7)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, product, got)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		svc, repo, c := setupProductService()
		c.On("Get", mock.Anything, "product:404", mock.Anything).Return(false, nil, nil).Once()
		repo.On("GetProductByID", mock.Anything, int64(404)).Return(nil, repository.ErrProductNotFound).Once()

		// Act
		got, err := svc.GetProduct(t.Context(), 404)

		// Assert
		assert.Nil(t, got)
		requireAppError(t, err, appErrors.ErrCodeNotFound, http.StatusNotFound)
		c.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProductService_SearchProducts(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		svc, repo, _ := setupProductService()
		color := "red"
		filter := models.ProductFilter{Color: &color}
		repo.On("Search", mock.Anything, filter).Return([]*models.Product{{ID: 3}}, nil).Once()

		// Act
		products, err := svc.SearchProducts(t.Context(), filter)

		// Assert
		require.NoError(t, err)
		assert.Len(t, products, 1)
		repo.AssertExpectations(t)
	})

	t.Run("Failure - Inverted Price Range", func(t *testing.T) {
		// Arrange
		svc, repo, _ := setupProductService()
		minPrice, maxPrice := decimal.NewFromInt(50), decimal.NewFromInt(10)

		// Act
		_, err := svc.SearchProducts(t.Context(), models.ProductFilter{MinPrice: &minPrice, MaxPrice: &maxPrice})

		// Assert
		requireAppError(t, err, appErrors.ErrCodeBadRequest, http.StatusBadRequest)
		repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		svc, repo, _ := setupProductService()
		repo.On("Search", mock.Anything, models.ProductFilter{}).Return(nil, errors.New("boom")).Once()

		// Act
		_, err := svc.SearchProducts(t.Context(), models.ProductFilter{})

		// Assert
		requireAppError(t, err, appErrors.ErrCodeDatabaseError, http.StatusInternalServerError)
	})
}

func TestProductService_CreateProduct(t *testing.T) {
	t.Run("Success - Sanitizes Text", func(t *testing.T) {
		// Arrange
		svc, repo, _ := setupProductService()
		req := &models.CreateProductRequest{
			Name:        "<b>Desk</b> Lamp",
			Price:       decimal.RequireFromString("25.00"),
			CategoryID:  2,
			Description: `Bright<script>alert("x")</script>`,
			Color:       "White",
			Stock:       4,
		}

		repo.On("CreateProduct", mock.Anything, mock.AnythingOfType("*models.Product")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.Product).ID = 12
			}).Return(nil).Once()

		// Act
		product, err := svc.CreateProduct(t.Context(), req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(12), product.ID)
		assert.Equal(t, "Desk Lamp", product.Name)
		assert.Equal(t, "Bright", product.Description)
		assert.Equal(t, 4, product.Stock)
		repo.AssertExpectations(t)
	})

	t.Run("Failure - Name Only Markup", func(t *testing.T) {
		// Arrange
		svc, repo, _ := setupProductService()

		// Act
		_, err := svc.CreateProduct(t.Context(), &models.CreateProductRequest{Name: "<i></i>", Price: decimal.NewFromInt(1), CategoryID: 1})

		// Assert
		requireAppError(t, err, appErrors.ErrCodeValidation, http.StatusBadRequest)
		repo.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Unknown Category", func(t *testing.T) {
		// Arrange
		svc, repo, _ := setupProductService()
		repo.On("CreateProduct", mock.Anything, mock.Anything).Return(repository.ErrCategoryNotFound).Once()

		// Act
		_, err := svc.CreateProduct(t.Context(), &models.CreateProductRequest{Name: "Mug", Price: decimal.NewFromInt(8), CategoryID: 99})

		// Assert
		requireAppError(t, err, appErrors.ErrCodeBadRequest, http.StatusBadRequest)
	})
}

func TestProductService_UpdateProduct(t *testing.T) {
	t.Run("Success - Partial Update Invalidates Cache", func(t *testing.T) {
		// Arrange
		svc, repo, c := setupProductService()
		existing := &models.Product{ID: 7, Name: "Headphones", Price: decimal.NewFromInt(50), CategoryID: 1, Stock: 3}
		newPrice := decimal.RequireFromString("39.99")
		newStock := 10

		repo.On("GetProductByID", mock.Anything, int64(7)).Return(existing, nil).Once()
		repo.On("UpdateProduct", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
			return p.Price.Equal(newPrice) && p.Stock == 10 && p.Name == "Headphones"
		})).Return(nil).Once()
		c.On("Delete", mock.Anything, "product:7").Return(nil).Once()

		// Act
		product, err := svc.UpdateProduct(t.Context(), 7, &models.UpdateProductRequest{Price: &newPrice, Stock: &newStock})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 10, product.Stock)
		repo.AssertExpectations(t)
		c.AssertExpectations(t)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		svc, repo, c := setupProductService()
		repo.On("GetProductByID", mock.Anything, int64(404)).Return(nil, repository.ErrProductNotFound).Once()

		// Act
		_, err := svc.UpdateProduct(t.Context(), 404, &models.UpdateProductRequest{})

		// Assert
		requireAppError(t, err, appErrors.ErrCodeNotFound, http.StatusNotFound)
		c.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestProductService_DeleteProduct(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		svc, repo, c := setupProductService()
		repo.On("DeleteProduct", mock.Anything, int64(7)).Return(nil).Once()
		c.On("Delete", mock.Anything, "product:7").Return(errors.New("redis down")).Once()

		// Act
		err := svc.DeleteProduct(t.Context(), 7)

		// Assert
		require.NoError(t, err, "cache invalidation failures must not fail the delete")
		repo.AssertExpectations(t)
		c.AssertExpectations(t)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		svc, repo, _ := setupProductService()
		repo.On("DeleteProduct", mock.Anything, int64(8)).Return(repository.ErrProductNotFound).Once()

		// Act
		err := svc.DeleteProduct(t.Context(), 8)

		// Assert
		requireAppError(t, err, appErrors.ErrCodeNotFound, http.StatusNotFound)
	})
}
