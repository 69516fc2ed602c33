package mocks

import (
	"context"

	"github.com/easyshop/easyshop-api/internal/models"
	"github.com/stretchr/testify/mock"
)

type ProductRepository struct {
	mock.Mock
}

func (m *ProductRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductRepository) Search(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *ProductRepository) ListByCategoryID(ctx context.Context, categoryID int64) ([]*models.Product, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *ProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *ProductRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *ProductRepository) DeleteProduct(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type CategoryRepository struct {
	mock.Mock
}

func (m *CategoryRepository) GetAll(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *CategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *CategoryRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type CartRepository struct {
	mock.Mock
}

func (m *CartRepository) GetByUserID(ctx context.Context, userID int64) (*models.ShoppingCart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.ShoppingCart), args.Error(1)
}

func (m *CartRepository) AddItem(ctx context.Context, userID, productID int64) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *CartRepository) UpdateItem(ctx context.Context, userID int64, item models.CartLine) error {
	args := m.Called(ctx, userID, item)
	return args.Error(0)
}

func (m *CartRepository) RemoveItem(ctx context.Context, userID, productID int64) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *CartRepository) DeleteCart(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type RateLimitRepository struct {
	mock.Mock
}

func (m *RateLimitRepository) Allow(ctx context.Context, key string) (bool, int, int, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Int(1), args.Int(2), args.Error(3)
}
