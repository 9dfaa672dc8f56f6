package memory

import (
	"context"
	"sync"
	"time"

	"orders/internal/core/ports"
)

var _ ports.Cache = (*Cache)(nil)

type cacheEntry struct {
	value     string
	expiresAt time.Time
}

// Cache is a process-local ports.Cache with per-key expiry.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *Cache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return "", ports.ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return "", ports.ErrCacheMiss
	}
	return entry.value, nil
}

// Set stores value. A non-positive ttl keeps the entry until it is deleted.
func (c *Cache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := cacheEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}
	c.entries[key] = entry
	return nil
}

func (c *Cache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}
