package ports

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache is a string key-value store with per-key expiry. It is advisory:
// callers must treat any error other than ErrCacheMiss as a degraded cache
// and fall back to the store.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete removes the given keys. Deleting absent keys is not an error.
	Delete(ctx context.Context, keys ...string) error
}
