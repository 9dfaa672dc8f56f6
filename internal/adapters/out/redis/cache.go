package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"orders/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig controls when the breaker opens and how long it stays open.
type BreakerConfig struct {
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
	Interval            time.Duration
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		ConsecutiveFailures: 5,
		OpenTimeout:         10 * time.Second,
		Interval:            60 * time.Second,
	}
}

// Cache implements ports.Cache. A missing key is reported as ports.ErrCacheMiss
// and does not count as a breaker failure.
type Cache struct {
	client  redis.UniversalClient
	breaker *gobreaker.CircuitBreaker[string]
	logger  *slog.Logger
}

func NewCache(client redis.UniversalClient, cfg BreakerConfig, logger *slog.Logger) *Cache {
	logger = logger.With("component", "RedisCache")

	settings := gobreaker.Settings{
		Name:        "redis-cache",
		MaxRequests: 1,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ports.ErrCacheMiss)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}

	return &Cache{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[string](settings),
		logger:  logger,
	}
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	return c.breaker.Execute(func() (string, error) {
		value, err := c.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return "", ports.ErrCacheMiss
		}
		if err != nil {
			return "", fmt.Errorf("redis get %s: %w", key, err)
		}
		return value, nil
	})
}

func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	_, err := c.breaker.Execute(func() (string, error) {
		if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
			return "", fmt.Errorf("redis set %s: %w", key, err)
		}
		return "", nil
	})
	return err
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	_, err := c.breaker.Execute(func() (string, error) {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return "", fmt.Errorf("redis del %v: %w", keys, err)
		}
		return "", nil
	})
	return err
}

// State exposes the breaker state for health reporting.
func (c *Cache) State() gobreaker.State {
	return c.breaker.State()
}
