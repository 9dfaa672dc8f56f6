package memory

import (
	"context"
	"errors"
	"slices"
	"sync"

	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"
)

// ErrNoTransaction mirrors gorm.ErrInvalidTransaction for Commit/Rollback
// without an active transaction.
var ErrNoTransaction = errors.New("no active transaction")

type unitOfWork struct {
	store *Store

	mu   sync.Mutex
	work *state
}

func (u *unitOfWork) Begin(_ context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.work != nil {
		return nil
	}

	u.store.txMu.Lock()
	u.store.mu.RLock()
	u.work = u.store.state.clone()
	u.store.mu.RUnlock()
	return nil
}

func (u *unitOfWork) Commit(_ context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.work == nil {
		return ErrNoTransaction
	}

	u.store.mu.Lock()
	u.store.state = u.work
	u.store.mu.Unlock()

	u.work = nil
	u.store.txMu.Unlock()
	return nil
}

func (u *unitOfWork) Rollback(_ context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.work == nil {
		return ErrNoTransaction
	}

	u.work = nil
	u.store.txMu.Unlock()
	return nil
}

func (u *unitOfWork) OrderRepository() ports.OrderRepository {
	return &orderRepository{uow: u}
}

// orderRepository runs against the unit of work snapshot when a transaction is
// active, and directly against the store otherwise.
type orderRepository struct {
	uow *unitOfWork
}

func (r *orderRepository) apply(fn func(st *state) error) error {
	r.uow.mu.Lock()
	work := r.uow.work
	r.uow.mu.Unlock()

	if work != nil {
		return fn(work)
	}

	s := r.uow.store
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state.clone()
	if err := fn(st); err != nil {
		return err
	}
	s.state = st
	return nil
}

func (r *orderRepository) Add(_ context.Context, aggregate *order.Order) (int64, error) {
	if err := aggregate.Validate(); err != nil {
		return 0, err
	}

	var id int64
	err := r.apply(func(st *state) error {
		now := r.uow.store.now()
		st.nextOrderID++
		id = st.nextOrderID
		st.orders[id] = orderRow{
			id:         id,
			clientName: aggregate.ClientName(),
			status:     aggregate.Status(),
			createdAt:  now,
			updatedAt:  now,
		}

		rows := make([]itemRow, 0, len(aggregate.Items()))
		for _, item := range aggregate.Items() {
			st.nextItemID++
			rows = append(rows, itemRow{
				id:          st.nextItemID,
				orderID:     id,
				description: item.Description(),
				quantity:    item.Quantity(),
				unitPrice:   item.UnitPrice(),
				createdAt:   now,
				updatedAt:   now,
			})
		}
		st.items[id] = rows
		return nil
	})
	return id, err
}

func (r *orderRepository) Get(_ context.Context, id int64) (*order.Order, error) {
	var o *order.Order
	err := r.apply(func(st *state) error {
		var getErr error
		o, getErr = get(st, id)
		return getErr
	})
	return o, err
}

// GetForUpdate needs no extra locking: the unit of work already holds the
// store exclusively.
func (r *orderRepository) GetForUpdate(ctx context.Context, id int64) (*order.Order, error) {
	return r.Get(ctx, id)
}

func (r *orderRepository) FindDeliveredIDs(_ context.Context) ([]int64, error) {
	ids := make([]int64, 0)
	err := r.apply(func(st *state) error {
		for id, row := range st.orders {
			if row.status == order.Delivered {
				ids = append(ids, id)
			}
		}
		return nil
	})
	slices.Sort(ids)
	return ids, err
}

func (r *orderRepository) UpdateStatus(_ context.Context, id int64, status order.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	return r.apply(func(st *state) error {
		row, ok := st.orders[id]
		if !ok {
			return errs.NewObjectNotFoundError("order", id)
		}
		row.status = status
		row.updatedAt = r.uow.store.now()
		st.orders[id] = row
		return nil
	})
}

func (r *orderRepository) DeleteItemsByOrder(_ context.Context, orderID int64) error {
	return r.apply(func(st *state) error {
		delete(st.items, orderID)
		return nil
	})
}

// Delete removes the order together with any items left, like the cascading
// foreign key does in Postgres.
func (r *orderRepository) Delete(_ context.Context, id int64) error {
	return r.apply(func(st *state) error {
		if _, ok := st.orders[id]; !ok {
			return errs.NewObjectNotFoundError("order", id)
		}
		delete(st.items, id)
		delete(st.orders, id)
		return nil
	})
}
