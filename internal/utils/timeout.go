package utils

import (
	"context"
	"time"
)

// DefaultDBTimeout bounds every statement or transaction issued by a repository.
const DefaultDBTimeout = 5 * time.Second

func WithDBTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DefaultDBTimeout)
}
