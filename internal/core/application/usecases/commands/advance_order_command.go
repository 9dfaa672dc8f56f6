package commands

import (
	"errors"
	"fmt"

	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

var (
	ErrAdvanceOrderCommandIsNotConstructed = errors.New(
		"AdvanceOrderCommand must be created via NewAdvanceOrderCommand constructor",
	)
)

// AdvanceOrderCommand moves a single order one step along its lifecycle.
type AdvanceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID int64

	guard guard.ConstructorGuard
}

func NewAdvanceOrderCommand(orderID int64) (AdvanceOrderCommand, error) {
	if orderID <= 0 {
		return AdvanceOrderCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"order id",
			fmt.Errorf("%d is not a positive id", orderID),
		)
	}

	return AdvanceOrderCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c AdvanceOrderCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceOrderCommandIsNotConstructed)
}

func (c AdvanceOrderCommand) OrderID() int64 {
	return c.orderID
}
