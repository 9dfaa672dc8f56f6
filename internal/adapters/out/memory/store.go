// Package memory provides in-process adapters for the order store, the cache
// and the event publisher. They back the service when no external
// infrastructure is configured and drive the end-to-end HTTP tests.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"
)

var (
	_ ports.UnitOfWorkFactory = (*Store)(nil)
	_ ports.OrderReader       = (*Store)(nil)
)

type orderRow struct {
	id         int64
	clientName string
	status     order.Status
	createdAt  time.Time
	updatedAt  time.Time
}

type itemRow struct {
	id          int64
	orderID     int64
	description string
	quantity    int
	unitPrice   kernel.Price
	createdAt   time.Time
	updatedAt   time.Time
}

type state struct {
	orders      map[int64]orderRow
	items       map[int64][]itemRow
	nextOrderID int64
	nextItemID  int64
}

func (s *state) clone() *state {
	c := &state{
		orders:      make(map[int64]orderRow, len(s.orders)),
		items:       make(map[int64][]itemRow, len(s.items)),
		nextOrderID: s.nextOrderID,
		nextItemID:  s.nextItemID,
	}
	for id, row := range s.orders {
		c.orders[id] = row
	}
	for id, rows := range s.items {
		c.items[id] = slices.Clone(rows)
	}
	return c
}

// Store is an in-memory order store. Units of work are serialized: Begin
// blocks until the previous unit of work has committed or rolled back, which
// gives the same per-order guarantee as a row lock. Writes inside a unit of
// work stay invisible to readers until Commit.
type Store struct {
	txMu sync.Mutex

	mu    sync.RWMutex
	state *state

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		state: &state{
			orders: make(map[int64]orderRow),
			items:  make(map[int64][]itemRow),
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Create implements ports.UnitOfWorkFactory.
func (s *Store) Create() ports.UnitOfWork {
	return &unitOfWork{store: s}
}

// FindNonDelivered implements ports.OrderReader.
func (s *Store) FindNonDelivered(_ context.Context) ([]*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findNonDelivered(s.state)
}

// Get implements ports.OrderReader.
func (s *Store) Get(_ context.Context, id int64) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return get(s.state, id)
}

func findNonDelivered(st *state) ([]*order.Order, error) {
	ids := make([]int64, 0, len(st.orders))
	for id, row := range st.orders {
		if row.status != order.Delivered {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	orders := make([]*order.Order, 0, len(ids))
	for _, id := range ids {
		o, err := get(st, id)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func get(st *state, id int64) (*order.Order, error) {
	row, ok := st.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id)
	}

	items := make([]order.Item, 0, len(st.items[id]))
	for _, r := range st.items[id] {
		item, err := order.RestoreItem(r.id, r.orderID, r.description, r.quantity, r.unitPrice, r.createdAt, r.updatedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return order.RestoreOrder(row.id, row.clientName, row.status, row.createdAt, row.updatedAt, items)
}
