package repository_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/easyshop/easyshop-api/internal/config"
	repository "github.com/easyshop/easyshop-api/internal/repositories"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRateLimitTest(t *testing.T, limit config.RateLimit) (repository.RateLimitRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		client.Close()
	})

	return repository.NewRateLimitRepo(client, limit), mr
}

func TestRateLimitRepository_Allow(t *testing.T) {
	limit := config.RateLimit{Window: time.Minute, MaxRequests: 2}

	t.Run("Success - Within Limit", func(t *testing.T) {
		// Arrange
		repo, mr := setupRateLimitTest(t, limit)

		// Act
		allowed, remaining, retryAfter, err := repo.Allow(t.Context(), "cart:42")

		// Assert
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, 1, remaining)
		assert.Zero(t, retryAfter)
		assert.True(t, mr.Exists("rate_limit:cart:42"))
	})

	t.Run("Failure - Limit Exceeded", func(t *testing.T) {
		// Arrange
		repo, _ := setupRateLimitTest(t, limit)
		ctx := t.Context()

		for range 2 {
			allowed, _, _, err := repo.Allow(ctx, "cart:42")
			require.NoError(t, err)
			require.True(t, allowed)
		}

		// Act
		allowed, remaining, retryAfter, err := repo.Allow(ctx, "cart:42")

		// Assert
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Zero(t, remaining)
		assert.GreaterOrEqual(t, retryAfter, 1)
		assert.LessOrEqual(t, retryAfter, 60)
	})

	t.Run("Success - Keys Are Independent", func(t *testing.T) {
		// Arrange
		repo, _ := setupRateLimitTest(t, config.RateLimit{Window: time.Minute, MaxRequests: 1})
		ctx := t.Context()

		allowed, _, _, err := repo.Allow(ctx, "cart:1")
		require.NoError(t, err)
		require.True(t, allowed)

		// Act
		allowed, _, _, err = repo.Allow(ctx, "cart:2")

		// Assert
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("Failure - Redis Unavailable", func(t *testing.T) {
		// Arrange
		repo, mr := setupRateLimitTest(t, limit)
		mr.Close()

		// Act
		allowed, _, _, err := repo.Allow(t.Context(), "cart:42")

		// Assert
		require.Error(t, err)
		assert.False(t, allowed)
	})
}
