package models

import "github.com/shopspring/decimal"

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  int64           `json:"category_id"`
	Description string          `json:"description"`
	Color       string          `json:"color"`
	ImageURL    string          `json:"image_url"`
	Stock       int             `json:"stock"`
	IsFeatured  bool            `json:"is_featured"`
}

// ProductFilter narrows a product search. Nil fields are not applied.
type ProductFilter struct {
	CategoryID *int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Color      *string
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=2,max=200"`
	Price       decimal.Decimal `json:"price" validate:"gt=0"`
	CategoryID  int64           `json:"category_id" validate:"required,gt=0"`
	Description string          `json:"description"`
	Color       string          `json:"color" validate:"max=50"`
	ImageURL    string          `json:"image_url" validate:"omitempty,url"`
	Stock       int             `json:"stock" validate:"gte=0"`
	IsFeatured  bool            `json:"is_featured"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Price       *decimal.Decimal `json:"price,omitempty" validate:"omitempty,gt=0"`
	CategoryID  *int64           `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	Description *string          `json:"description,omitempty"`
	Color       *string          `json:"color,omitempty" validate:"omitempty,max=50"`
	ImageURL    *string          `json:"image_url,omitempty" validate:"omitempty,url"`
	Stock       *int             `json:"stock,omitempty" validate:"omitempty,gte=0"`
	IsFeatured  *bool            `json:"is_featured,omitempty"`
}
