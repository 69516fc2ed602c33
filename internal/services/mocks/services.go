package mocks

import (
	"context"

	"github.com/easyshop/easyshop-api/internal/models"
	"github.com/stretchr/testify/mock"
)

type CartService struct {
	mock.Mock
}

func (m *CartService) GetCart(ctx context.Context, userID int64) (*models.ShoppingCart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.ShoppingCart), args.Error(1)
}

func (m *CartService) AddItem(ctx context.Context, userID, productID int64) (*models.ShoppingCart, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.ShoppingCart), args.Error(1)
}

func (m *CartService) UpdateItem(ctx context.Context, userID, productID int64, req *models.UpdateCartItemRequest) error {
	args := m.Called(ctx, userID, productID, req)
	return args.Error(0)
}

func (m *CartService) RemoveItem(ctx context.Context, userID, productID int64) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *CartService) ClearCart(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type ProductService struct {
	mock.Mock
}

func (m *ProductService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductService) SearchProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *ProductService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductService) UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type CategoryService struct {
	mock.Mock
}

func (m *CategoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *CategoryService) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *CategoryService) ListProducts(ctx context.Context, categoryID int64) ([]*models.Product, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *CategoryService) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *CategoryService) UpdateCategory(ctx context.Context, id int64, req *models.UpdateCategoryRequest) (*models.Category, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
