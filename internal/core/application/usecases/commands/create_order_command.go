package commands

import (
	"errors"
	"fmt"
	"strings"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// NewOrderItem is a raw order line as received by the request layer.
type NewOrderItem struct {
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// CreateOrderCommand represents a request to open a new order.
// The lines are re-validated through the domain constructors even when the
// request layer already checked them.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand("Juan Pérez", []NewOrderItem{
//	    {Description: "Combo hamburguesa", Quantity: 2, UnitPrice: decimal.RequireFromString("25.5")},
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	clientName string
	items      []order.Item

	guard guard.ConstructorGuard
}

func NewCreateOrderCommand(clientName string, items []NewOrderItem) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setClientName(clientName),
		cmd.setItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) ClientName() string {
	return c.clientName
}

// Items returns a copy of the validated lines.
func (c CreateOrderCommand) Items() []order.Item {
	items := make([]order.Item, len(c.items))
	copy(items, c.items)
	return items
}

func (c *CreateOrderCommand) setClientName(clientName string) error {
	if strings.TrimSpace(clientName) == "" {
		return errs.NewValueIsRequiredError("client name")
	}
	c.clientName = clientName
	return nil
}

func (c *CreateOrderCommand) setItems(raw []NewOrderItem) error {
	items := make([]order.Item, 0, len(raw))
	var errList []error

	for idx, r := range raw {
		price, err := kernel.NewPrice(r.UnitPrice)
		if err != nil {
			errList = append(errList, fmt.Errorf("item %d: %w", idx, err))
			continue
		}

		item, err := order.NewItem(r.Description, r.Quantity, price)
		if err != nil {
			errList = append(errList, fmt.Errorf("item %d: %w", idx, err))
			continue
		}
		items = append(items, item)
	}

	if err := errors.Join(errList...); err != nil {
		return err
	}

	c.items = items
	return nil
}
