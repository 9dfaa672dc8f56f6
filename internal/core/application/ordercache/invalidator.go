package ordercache

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"orders/internal/core/ports"
	"orders/internal/pkg/metrics"
)

const (
	defaultAttempts = 3
	defaultBackoff  = 50 * time.Millisecond
)

// Invalidator deletes cache keys after a committed write.
//
// A delete is attempted a bounded number of times. Keys that still could not be
// deleted are remembered and handed to RetryPending, which the background retry
// job calls periodically. Until then the TTL of the entry bounds staleness.
type Invalidator struct {
	cache   ports.Cache
	logger  *slog.Logger
	metrics *metrics.Metrics

	attempts int
	backoff  time.Duration

	mu      sync.Mutex
	pending map[string]struct{}
}

type InvalidatorOption func(*Invalidator)

// WithAttempts sets how many times a delete is tried before the key is queued.
func WithAttempts(n int) InvalidatorOption {
	return func(i *Invalidator) {
		if n > 0 {
			i.attempts = n
		}
	}
}

// WithBackoff sets the pause between attempts.
func WithBackoff(d time.Duration) InvalidatorOption {
	return func(i *Invalidator) {
		if d >= 0 {
			i.backoff = d
		}
	}
}

func WithMetrics(m *metrics.Metrics) InvalidatorOption {
	return func(i *Invalidator) {
		i.metrics = m
	}
}

func NewInvalidator(cache ports.Cache, logger *slog.Logger, opts ...InvalidatorOption) *Invalidator {
	i := &Invalidator{
		cache:    cache,
		logger:   logger.With("component", "CacheInvalidator"),
		attempts: defaultAttempts,
		backoff:  defaultBackoff,
		pending:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Invalidate deletes keys. It runs detached from ctx cancellation: the write it
// follows has already been committed, so an aborted request must not skip it.
//
// On final failure the keys are queued for RetryPending and the last error is returned.
func (i *Invalidator) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx = context.WithoutCancel(ctx)

	var err error
	for attempt := 1; attempt <= i.attempts; attempt++ {
		if err = i.cache.Delete(ctx, keys...); err == nil {
			i.forget(keys...)
			return nil
		}

		i.logger.WarnContext(ctx, "cache invalidation attempt failed",
			"keys", keys, "attempt", attempt, "error", err)

		if attempt < i.attempts && i.backoff > 0 {
			time.Sleep(i.backoff)
		}
	}

	i.remember(keys...)
	i.metrics.RecordInvalidationFailure()
	i.logger.ErrorContext(ctx, "cache invalidation failed, queued for retry",
		"keys", keys, "attempts", i.attempts, "error", err)

	return fmt.Errorf("invalidate %v: %w", keys, err)
}

// RetryPending makes a single attempt to delete every queued key and returns
// how many keys were cleared.
func (i *Invalidator) RetryPending(ctx context.Context) (int, error) {
	keys := i.Pending()
	if len(keys) == 0 {
		return 0, nil
	}

	if err := i.cache.Delete(ctx, keys...); err != nil {
		return 0, fmt.Errorf("retry invalidation of %d keys: %w", len(keys), err)
	}

	i.forget(keys...)
	i.logger.InfoContext(ctx, "queued cache keys invalidated", "keys", keys)
	return len(keys), nil
}

// Pending returns the queued keys in sorted order.
func (i *Invalidator) Pending() []string {
	i.mu.Lock()
	defer i.mu.Unlock()

	keys := make([]string, 0, len(i.pending))
	for k := range i.pending {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (i *Invalidator) remember(keys ...string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for _, k := range keys {
		i.pending[k] = struct{}{}
	}
}

func (i *Invalidator) forget(keys ...string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for _, k := range keys {
		delete(i.pending, k)
	}
}
