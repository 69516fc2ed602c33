package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/easyshop/easyshop-api/internal/models"
	"github.com/easyshop/easyshop-api/internal/utils"
	"github.com/shopspring/decimal"
)

const productColumns = `id, name, price, category_id, description, color, image_url, stock, featured`

type ProductRepository interface {
	ProductLookup
	Search(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error)
	ListByCategoryID(ctx context.Context, categoryID int64) ([]*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	product := &models.Product{}

	err := row.Scan(&product.ID, &product.Name, &product.Price, &product.CategoryID, &product.Description,
		&product.Color, &product.ImageURL, &product.Stock, &product.IsFeatured)
	if err != nil {
		return nil, err
	}

	return product, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.DB.QueryRowContext(dbCtx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}

		return nil, fmt.Errorf("querying database: %w", err)
	}

	return product, nil
}

// Search applies every non-nil filter field. Color matches case-insensitively.
func (r *productRepository) Search(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE ($1::bigint IS NULL OR category_id = $1)
		AND ($2::numeric IS NULL OR price >= $2)
		AND ($3::numeric IS NULL OR price <= $3)
		AND ($4::text IS NULL OR LOWER(color) = LOWER($4))
		ORDER BY id`

	return r.list(ctx, query,
		nullableInt64(filter.CategoryID),
		nullableDecimal(filter.MinPrice),
		nullableDecimal(filter.MaxPrice),
		nullableString(filter.Color),
	)
}

func (r *productRepository) ListByCategoryID(ctx context.Context, categoryID int64) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE category_id = $1 ORDER BY id`

	return r.list(ctx, query, categoryID)
}

func (r *productRepository) list(ctx context.Context, query string, args ...any) ([]*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying database: %w", err)
	}

	defer rows.Close()

	products := []*models.Product{}

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}

	return products, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO products (name, price, category_id, description, color, image_url, stock, featured)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`

	err := r.DB.QueryRowContext(dbCtx, query, product.Name, product.Price.String(), product.CategoryID, product.Description,
		product.Color, product.ImageURL, product.Stock, product.IsFeatured).Scan(&product.ID)
	if err != nil {
		if isForeignKeyViolation(err, "") {
			return ErrCategoryNotFound
		}

		return fmt.Errorf("inserting product: %w", err)
	}

	return nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE products SET name = $1, price = $2, category_id = $3, description = $4, color = $5, image_url = $6, stock = $7, featured = $8
			  WHERE id = $9`

	result, err := r.DB.ExecContext(dbCtx, query, product.Name, product.Price.String(), product.CategoryID, product.Description,
		product.Color, product.ImageURL, product.Stock, product.IsFeatured, product.ID)
	if err != nil {
		if isForeignKeyViolation(err, "") {
			return ErrCategoryNotFound
		}

		return fmt.Errorf("updating product: %w", err)
	}

	return expectOneRow(result, ErrProductNotFound)
}

// DeleteProduct removes the product. Cart rows referencing it go with it.
func (r *productRepository) DeleteProduct(ctx context.Context, id int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	return expectOneRow(result, ErrProductNotFound)
}

func expectOneRow(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		return notFound
	}

	return nil
}

func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}

	return *v
}

func nullableDecimal(v *decimal.Decimal) any {
	if v == nil {
		return nil
	}

	return v.String()
}

func nullableString(v *string) any {
	if v == nil {
		return nil
	}

	return *v
}
