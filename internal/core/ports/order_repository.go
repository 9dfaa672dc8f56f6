// Package ports defines the contracts between the order lifecycle core and
// its infrastructure: persistence, cache and event publishing.
package ports

import (
	"context"

	"orders/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Implementations bound to a UnitOfWork run every call inside its transaction.
type OrderRepository interface {
	// Add inserts the order row and then one row per item, and returns the
	// store-assigned order id. The status is stored as given (always initiated
	// for orders built by order.NewOrder).
	Add(ctx context.Context, aggregate *order.Order) (int64, error)

	// Get loads an order with its items.
	// Returns errs.ErrObjectNotFound if no such order exists.
	Get(ctx context.Context, id int64) (*order.Order, error)

	// GetForUpdate loads an order with its items and holds a row lock on it
	// until the surrounding transaction ends. A caller waiting on the lock of
	// an order that gets deleted observes errs.ErrObjectNotFound.
	GetForUpdate(ctx context.Context, id int64) (*order.Order, error)

	// FindDeliveredIDs returns the ids of persisted delivered orders.
	// Used by the repair sweep only.
	FindDeliveredIDs(ctx context.Context) ([]int64, error)

	// UpdateStatus persists a new status and bumps updated_at.
	UpdateStatus(ctx context.Context, id int64, status order.Status) error

	// DeleteItemsByOrder removes every item of the order.
	DeleteItemsByOrder(ctx context.Context, orderID int64) error

	// Delete removes the order row. Items must be removed first.
	Delete(ctx context.Context, id int64) error
}

// OrderReader is the non-transactional read side used by queries.
type OrderReader interface {
	// FindNonDelivered returns every order whose status is not delivered,
	// with items, ordered by id. An empty store yields an empty slice.
	FindNonDelivered(ctx context.Context) ([]*order.Order, error)

	// Get loads an order with its items.
	// Returns errs.ErrObjectNotFound if no such order exists.
	Get(ctx context.Context, id int64) (*order.Order, error)
}
