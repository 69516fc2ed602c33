package cache

import (
	"context"
	"strconv"
	"time"
)

// Cache stores JSON-encoded values. Get reports false on a miss.
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

const (
	ProductKeyPrefix  = "product"
	CategoryKeyPrefix = "category"

	// CategoryListKey holds the full category listing.
	CategoryListKey = CategoryKeyPrefix + ":all"
)

func Key(prefix string, id int64) string {
	return prefix + ":" + strconv.FormatInt(id, 10)
}

func ProductKey(id int64) string {
	return Key(ProductKeyPrefix, id)
}

func CategoryKey(id int64) string {
	return Key(CategoryKeyPrefix, id)
}
