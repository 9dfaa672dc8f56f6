package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

// ErrItemIsNotConstructed is returned when a zero-value Item is used.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem or RestoreItem constructor")

// Item is a line of an order. Items are owned by their Order and never outlive it.
type Item struct { //nolint:recvcheck //using for validation
	id          int64
	orderID     int64
	description string
	quantity    int
	unitPrice   kernel.Price
	createdAt   time.Time
	updatedAt   time.Time

	guard guard.ConstructorGuard
}

// NewItem validates a line that has not been persisted yet.
//
// Rules:
//   - description must contain non-whitespace characters
//   - quantity must be at least 1
//   - unitPrice must be a constructed, non-negative Price
//
// All violations are reported together.
func NewItem(description string, quantity int, unitPrice kernel.Price) (Item, error) {
	item := Item{}

	if err := errors.Join(
		item.setDescription(description),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
	); err != nil {
		return Item{}, err
	}

	item.guard = guard.NewConstructorGuard()
	return item, nil
}

// RestoreItem rebuilds a persisted line. The same rules as NewItem apply.
func RestoreItem(
	id, orderID int64,
	description string,
	quantity int,
	unitPrice kernel.Price,
	createdAt, updatedAt time.Time,
) (Item, error) {
	item, err := NewItem(description, quantity, unitPrice)
	if err != nil {
		return Item{}, err
	}

	item.id = id
	item.orderID = orderID
	item.createdAt = createdAt
	item.updatedAt = updatedAt
	return item, nil
}

func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

// ID is zero until the item has been stored.
func (i Item) ID() int64 { return i.id }

func (i Item) OrderID() int64          { return i.orderID }
func (i Item) Description() string     { return i.description }
func (i Item) Quantity() int           { return i.quantity }
func (i Item) UnitPrice() kernel.Price { return i.unitPrice }
func (i Item) CreatedAt() time.Time    { return i.createdAt }
func (i Item) UpdatedAt() time.Time    { return i.updatedAt }

func (i *Item) setDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return errs.NewValueIsRequiredError("description")
	}
	i.description = description
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity < 1 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is less than 1", quantity))
	}
	i.quantity = quantity
	return nil
}

func (i *Item) setUnitPrice(unitPrice kernel.Price) error {
	if err := unitPrice.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("unit price", err)
	}
	i.unitPrice = unitPrice
	return nil
}
