package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/easyshop/easyshop-api/internal/config"
	"github.com/hellofresh/health-go/v5"
	"github.com/hellofresh/health-go/v5/checks/postgres"
	"github.com/redis/go-redis/v9"
)

const (
	componentName    = "easyshop-api"
	componentVersion = "1.0.0"
)

// NewHealthHandler reports Postgres through its own short-lived connection and
// Redis through the client the API already uses.
func NewHealthHandler(cfg *config.Config, redisClient *redis.Client) (*health.Health, error) {

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    componentName,
			Version: componentVersion,
		}),
		health.WithSystemInfo(),
		health.WithChecks(
			health.Config{
				Name:      "database",
				Timeout:   3 * time.Second,
				SkipOnErr: false,
				Check: postgres.New(postgres.Config{
					DSN: cfg.Database.GetDSN(),
				}),
			},
			health.Config{
				Name:      "redis",
				Timeout:   2 * time.Second,
				SkipOnErr: false,
				Check:     redisCheck(redisClient),
			},
		),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}

func redisCheck(client *redis.Client) health.CheckFunc {
	return func(ctx context.Context) error {
		if client == nil {
			return errors.New("redis client is not initialized")
		}

		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping failed: %w", err)
		}

		return nil
	}
}
