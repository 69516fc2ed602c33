package mocks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"
)

type Cache struct {
	mock.Mock
}

// Get copies a non-nil second return value into value through JSON, the way
// the Redis cache would.
func (m *Cache) Get(ctx context.Context, key string, value any) (bool, error) {
	args := m.Called(ctx, key, value)

	if stored := args.Get(1); stored != nil && args.Bool(0) {
		data, err := json.Marshal(stored)
		if err != nil {
			return false, err
		}

		if err := json.Unmarshal(data, value); err != nil {
			return false, err
		}
	}

	return args.Bool(0), args.Error(2)
}

func (m *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *Cache) Delete(ctx context.Context, keys ...string) error {
	callArgs := []any{ctx}
	for _, k := range keys {
		callArgs = append(callArgs, k)
	}

	args := m.Called(callArgs...)
	return args.Error(0)
}

func (m *Cache) Close() error {
	args := m.Called()
	return args.Error(0)
}
