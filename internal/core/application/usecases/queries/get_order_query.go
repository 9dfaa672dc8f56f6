package queries

import (
	"errors"
	"fmt"

	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery fetches a single order with its items. It is never cached.
type GetOrderQuery struct { //nolint:recvcheck //using for validation
	orderID int64

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID int64) (GetOrderQuery, error) {
	if orderID <= 0 {
		return GetOrderQuery{}, errs.NewValueIsInvalidErrorWithCause(
			"order id",
			fmt.Errorf("%d is not a positive id", orderID),
		)
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() int64 {
	return q.orderID
}
