package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/easyshop/easyshop-api/internal/api/middleware"
	"github.com/easyshop/easyshop-api/internal/config"
	"github.com/redis/go-redis/v9"
)

// RateLimitRepository counts requests per key in a sliding window.
type RateLimitRepository interface {
	// Allow records one request for key and reports whether it fits in the
	// window, how many requests remain, and the seconds to wait when it does not.
	Allow(ctx context.Context, key string) (bool, int, int, error)
}

type redisRepository struct {
	client *redis.Client
	limit  config.RateLimit
	now    func() time.Time
}

func NewRedisClient(cfg *config.Config) (*redis.Client, error) {

	slog.Info("Connecting to Redis", slog.String("addr", cfg.RedisConnect.Addr()), slog.Int("db", cfg.RedisConnect.DB))

	opt, err := redis.ParseURL(cfg.RedisConnect.GetDSN())
	if err != nil {
		slog.Error("Failed to parse Redis URL", slog.Any("error", err), slog.String("addr", cfg.RedisConnect.Addr()))
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opt.DB = cfg.RedisConnect.DB

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Error("Failed to connect to Redis", slog.Any("error", err))
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Successfully connected to Redis")
	return client, nil
}

func NewRateLimitRepo(client *redis.Client, limit config.RateLimit) RateLimitRepository {
	return &redisRepository{client: client, limit: limit, now: time.Now}
}

func (r *redisRepository) Allow(ctx context.Context, key string) (bool, int, int, error) {

	logger := middleware.LoggerFromContext(ctx)

	key = "rate_limit:" + key
	window := r.limit.Window

	now := r.now().UnixMilli()
	windowStart := now - window.Milliseconds()

	// Members are unique per request so bursts inside one millisecond still count.
	member := strconv.FormatInt(r.now().UnixNano(), 10)

	pipe := r.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: member})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("Redis pipeline execution failed for rate limit", slog.String("key", key), slog.Any("error", err))
		return false, 0, 0, fmt.Errorf("redis pipeline error for rate limit check: %w", err)
	}

	requests := count.Val()
	remaining := r.limit.MaxRequests - requests

	if requests > r.limit.MaxRequests {

		scores, err := r.client.ZRangeArgsWithScores(ctx, redis.ZRangeArgs{Key: key, Start: 0, Stop: 0}).Result()
		if err != nil || len(scores) == 0 {
			logger.Error("Failed to get oldest request time for rate limit", slog.String("key", key), slog.Any("error", err))
			return false, 0, int(window.Seconds()), fmt.Errorf("failed to get oldest request time: %w", err)
		}

		oldest := int64(scores[0].Score)
		retryAfter := max((oldest+window.Milliseconds()-now+999)/1000, 1)

		logger.Warn("Rate limit exceeded", slog.String("key", key), slog.Int64("requests", requests))
		return false, 0, int(retryAfter), nil
	}

	logger.Debug("Rate limit check passed", slog.String("key", key), slog.Int64("requests", requests), slog.Int64("remaining", remaining))
	return true, int(remaining), 0, nil
}
