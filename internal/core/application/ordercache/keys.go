// Package ordercache holds the cache key layout of the order lifecycle and
// the invalidate-after-write protocol used by command handlers.
package ordercache

import (
	"strconv"
	"time"
)

const (
	// ListKey holds the JSON snapshot of every non-delivered order.
	ListKey = "orders:list"

	// DefaultListTTL bounds how long a snapshot may outlive a missed invalidation.
	DefaultListTTL = 30 * time.Second

	orderKeyPrefix = "order:"
)

// OrderKey is reserved for a single order. It is never populated, only
// deleted when the order is delivered.
func OrderKey(id int64) string {
	return orderKeyPrefix + strconv.FormatInt(id, 10)
}
