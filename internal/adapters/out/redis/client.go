// Package redis implements ports.Cache on top of go-redis, guarded by a
// circuit breaker so that an unavailable Redis fails fast instead of
// stalling every read of the pending list.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type ClientConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewClient creates a client and verifies the connection.
func NewClient(ctx context.Context, cfg ClientConfig) (redis.UniversalClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
	}

	return client, nil
}
