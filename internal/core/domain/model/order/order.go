package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orders/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")
)

// Order is the aggregate root of the lifecycle. It owns its items and enforces
// the forward-only status machine.
//
// Invariants:
//   - client name is not blank
//   - every item satisfies the Item rules
//   - status only moves forward (see Status.Next)
type Order struct {
	// id is assigned by the store; zero until persisted
	id int64

	clientName string
	status     Status
	items      []Item

	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewOrder creates an order that has not been stored yet. The status is forced
// to Initiated. An empty item list is allowed.
//
// Example:
//
//	burger, _ := order.NewItem("Combo hamburguesa", 2, kernel.MustNewPrice("25.5"))
//	o, err := order.NewOrder("Juan Pérez", []order.Item{burger})
func NewOrder(clientName string, items []Item) (*Order, error) {
	o := &Order{
		status:        Initiated,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setClientName(clientName),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order read from the store.
func RestoreOrder(
	id int64,
	clientName string,
	status Status,
	createdAt, updatedAt time.Time,
	items []Item,
) (*Order, error) {
	o := &Order{
		id:            id,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setClientName(clientName),
		o.setStatus(status),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order was built by one of the constructors.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() int64            { return o.id }
func (o *Order) ClientName() string   { return o.clientName }
func (o *Order) Status() Status       { return o.status }
func (o *Order) CreatedAt() time.Time { return o.createdAt }
func (o *Order) UpdatedAt() time.Time { return o.updatedAt }

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// Total sums quantity * unit price over all items.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.items {
		total = total.Add(item.UnitPrice().Times(item.Quantity()))
	}
	return total
}

// Transition describes the effect of a single Advance call.
type Transition struct {
	From Status
	To   Status
}

// IsNoop reports whether the advance left the status unchanged.
func (t Transition) IsNoop() bool {
	return t.From == t.To
}

// IsTerminal reports whether the advance delivered the order. A terminal
// transition requires the order and its items to be deleted.
func (t Transition) IsTerminal() bool {
	return !t.IsNoop() && t.To.IsTerminal()
}

// Advance moves the order one step forward and reports the transition.
// Advancing a delivered order is a no-op.
func (o *Order) Advance() (Transition, error) {
	next, err := o.status.Next()
	if err != nil {
		return Transition{}, err
	}

	t := Transition{From: o.status, To: next}
	o.status = next
	return t, nil
}

func (o *Order) setClientName(clientName string) error {
	if strings.TrimSpace(clientName) == "" {
		return errs.NewValueIsRequiredError("client name")
	}
	o.clientName = clientName
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setItems(items []Item) error {
	var errList []error
	for idx, item := range items {
		if err := item.Validate(); err != nil {
			errList = append(errList, fmt.Errorf("item %d: %w", idx, err))
		}
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}
