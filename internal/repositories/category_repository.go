package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/easyshop/easyshop-api/internal/models"
	"github.com/easyshop/easyshop-api/internal/utils"
)

type CategoryRepository interface {
	GetAll(ctx context.Context) ([]*models.Category, error)
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id int64) error
}

type categoryRepository struct {
	DB *sql.DB
}

func NewCategoryRepo(db *sql.DB) CategoryRepository {
	return &categoryRepository{DB: db}
}

func (r *categoryRepository) GetAll(ctx context.Context) ([]*models.Category, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(dbCtx, `SELECT id, name, description FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying database: %w", err)
	}

	defer rows.Close()

	categories := []*models.Category{}

	for rows.Next() {
		category := &models.Category{}

		if err := rows.Scan(&category.ID, &category.Name, &category.Description); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}

	return categories, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	category := &models.Category{}

	err := r.DB.QueryRowContext(dbCtx, `SELECT id, name, description FROM categories WHERE id = $1`, id).
		Scan(&category.ID, &category.Name, &category.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}

		return nil, fmt.Errorf("querying database: %w", err)
	}

	return category, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING id`

	if err := r.DB.QueryRowContext(dbCtx, query, category.Name, category.Description).Scan(&category.ID); err != nil {
		return fmt.Errorf("inserting category: %w", err)
	}

	return nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE categories SET name = $1, description = $2 WHERE id = $3`

	result, err := r.DB.ExecContext(dbCtx, query, category.Name, category.Description, category.ID)
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}

	return expectOneRow(result, ErrCategoryNotFound)
}

// Delete returns ErrCategoryInUse while products still reference the category.
func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err, "") {
			return ErrCategoryInUse
		}

		return fmt.Errorf("deleting category: %w", err)
	}

	return expectOneRow(result, ErrCategoryNotFound)
}
