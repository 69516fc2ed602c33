package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/easyshop/easyshop-api/internal/api/middleware"
	"github.com/easyshop/easyshop-api/internal/models"
	"github.com/easyshop/easyshop-api/internal/utils"
	"github.com/lib/pq"
)

const (
	opGetCart    = "cart.get"
	opAddItem    = "cart.add_item"
	opUpdateItem = "cart.update_item"
	opRemoveItem = "cart.remove_item"
	opDeleteCart = "cart.delete"

	msgLoadFailed   = "cart load failed"
	msgAddFailed    = "could not add item"
	msgUpdateFailed = "could not update item"
	msgRemoveFailed = "could not remove item"
	msgClearFailed  = "could not clear cart"

	productFKConstraint = "shopping_cart_product_id_fkey"
)

// ProductLookup resolves the live product snapshot for a cart row.
type ProductLookup interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
}

type CartRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.ShoppingCart, error)
	AddItem(ctx context.Context, userID, productID int64) error
	UpdateItem(ctx context.Context, userID int64, item models.CartLine) error
	RemoveItem(ctx context.Context, userID, productID int64) error
	DeleteCart(ctx context.Context, userID int64) error
}

type cartRepository struct {
	DB       *sql.DB
	products ProductLookup
}

func NewCartRepo(db *sql.DB, products ProductLookup) CartRepository {
	return &cartRepository{DB: db, products: products}
}

// GetByUserID assembles the cart from the user's rows. Rows whose product no
// longer resolves are skipped. An unknown user yields an empty cart.
func (r *cartRepository) GetByUserID(ctx context.Context, userID int64) (*models.ShoppingCart, error) {
	logger := middleware.LoggerFromContext(ctx)

	lines, err := r.loadLines(ctx, userID)
	if err != nil {
		return nil, r.fail(ctx, opGetCart, msgLoadFailed, userID, 0, err)
	}

	cart := models.NewShoppingCart()

	// One product lookup per row.
	for _, line := range lines {
		product, err := r.products.GetProductByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, ErrProductNotFound) {
				logger.Warn("Skipping cart row with missing product",
					slog.Int64("user_id", userID),
					slog.Int64("product_id", line.ProductID))
				continue
			}

			return nil, r.fail(ctx, opGetCart, msgLoadFailed, userID, line.ProductID, err)
		}

		cart.Add(models.NewCartItem(*product, line.Quantity, line.DiscountPercent))
	}

	return cart, nil
}

func (r *cartRepository) loadLines(ctx context.Context, userID int64) ([]models.CartLine, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT product_id, quantity, discount_percent FROM shopping_cart WHERE user_id = $1`

	rows, err := r.DB.QueryContext(dbCtx, query, userID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var lines []models.CartLine

	for rows.Next() {
		line := models.CartLine{UserID: userID}

		if err := rows.Scan(&line.ProductID, &line.Quantity, &line.DiscountPercent); err != nil {
			return nil, err
		}

		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// AddItem increments the quantity of an existing row or inserts a new row
// with quantity 1 and no discount. The unique (user_id, product_id) key and
// the ON CONFLICT clause keep two concurrent adds from producing two rows.
func (r *cartRepository) AddItem(ctx context.Context, userID, productID int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return r.fail(ctx, opAddItem, msgAddFailed, userID, productID, err)
	}

	defer tx.Rollback() //nolint:errcheck

	updateQuery := `UPDATE shopping_cart SET quantity = quantity + 1 WHERE user_id = $1 AND product_id = $2`

	result, err := tx.ExecContext(dbCtx, updateQuery, userID, productID)
	if err != nil {
		return r.fail(ctx, opAddItem, msgAddFailed, userID, productID, err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return r.fail(ctx, opAddItem, msgAddFailed, userID, productID, err)
	}

	if updatedRows == 0 {
		insertQuery := `INSERT INTO shopping_cart (user_id, product_id, quantity, discount_percent) VALUES ($1, $2, 1, 0) ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = shopping_cart.quantity + 1`

		if _, err := tx.ExecContext(dbCtx, insertQuery, userID, productID); err != nil {
			if isForeignKeyViolation(err, productFKConstraint) {
				return ErrProductNotFound
			}

			return r.fail(ctx, opAddItem, msgAddFailed, userID, productID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return r.fail(ctx, opAddItem, msgAddFailed, userID, productID, err)
	}

	return nil
}

// UpdateItem overwrites quantity and discount of an existing row. It never
// creates a row.
func (r *cartRepository) UpdateItem(ctx context.Context, userID int64, item models.CartLine) error {
	if err := item.Validate(); err != nil {
		return errors.Join(ErrInvalidCartItem, err)
	}

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE shopping_cart SET quantity = $1, discount_percent = $2 WHERE user_id = $3 AND product_id = $4`

	result, err := r.DB.ExecContext(dbCtx, query, item.Quantity, item.DiscountPercent.String(), userID, item.ProductID)
	if err != nil {
		return r.fail(ctx, opUpdateItem, msgUpdateFailed, userID, item.ProductID, err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return r.fail(ctx, opUpdateItem, msgUpdateFailed, userID, item.ProductID, err)
	}

	if updatedRows == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

// RemoveItem deletes a single row. Removing an absent row is not an error.
func (r *cartRepository) RemoveItem(ctx context.Context, userID, productID int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `DELETE FROM shopping_cart WHERE user_id = $1 AND product_id = $2`

	if _, err := r.DB.ExecContext(dbCtx, query, userID, productID); err != nil {
		return r.fail(ctx, opRemoveItem, msgRemoveFailed, userID, productID, err)
	}

	return nil
}

// DeleteCart removes every row of the user. An empty cart is not an error.
func (r *cartRepository) DeleteCart(ctx context.Context, userID int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `DELETE FROM shopping_cart WHERE user_id = $1`

	if _, err := r.DB.ExecContext(dbCtx, query, userID); err != nil {
		return r.fail(ctx, opDeleteCart, msgClearFailed, userID, 0, err)
	}

	return nil
}

func (r *cartRepository) fail(ctx context.Context, op, message string, userID, productID int64, cause error) error {
	perr := &PersistenceError{
		Op:        op,
		Message:   message,
		UserID:    userID,
		ProductID: productID,
		Err:       cause,
	}

	middleware.LoggerFromContext(ctx).Error("Cart persistence failure", slog.Any("error", perr))

	return perr
}

func isForeignKeyViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	return pqErr.Code == "23503" && (constraint == "" || pqErr.Constraint == constraint)
}
