package repository

import (
	"errors"
	"log/slog"
)

var (
	// ErrPersistence matches every *PersistenceError through errors.Is.
	ErrPersistence = errors.New("persistence failure")

	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidCartItem  = errors.New("invalid cart item")
	ErrCategoryInUse    = errors.New("category still has products")
)

// PersistenceError is returned when a cart operation could not reach or use
// the database. Error() only yields the generic Message; the driver error and
// ids stay in the diagnostic fields for logging.
type PersistenceError struct {
	Op        string
	Message   string
	UserID    int64
	ProductID int64
	Err       error
}

func (e *PersistenceError) Error() string {
	return e.Message
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

func (e *PersistenceError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("op", e.Op),
		slog.Int64("user_id", e.UserID),
	}

	if e.ProductID != 0 {
		attrs = append(attrs, slog.Int64("product_id", e.ProductID))
	}

	if e.Err != nil {
		attrs = append(attrs, slog.String("cause", e.Err.Error()))
	}

	return slog.GroupValue(attrs...)
}
