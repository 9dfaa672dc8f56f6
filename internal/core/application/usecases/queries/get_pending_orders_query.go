package queries

import (
	"errors"

	"orders/internal/pkg/guard"
)

var (
	ErrGetPendingOrdersQueryIsNotConstructed = errors.New(
		"GetPendingOrdersQuery must be created via NewGetPendingOrdersQuery constructor",
	)
)

// GetPendingOrdersQuery lists every order that is not delivered yet.
//
// Example:
//
//	query := NewGetPendingOrdersQuery()
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get pending orders: %w", err)
//	}
type GetPendingOrdersQuery struct {
	guard guard.ConstructorGuard
}

func NewGetPendingOrdersQuery() GetPendingOrdersQuery {
	return GetPendingOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetPendingOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetPendingOrdersQueryIsNotConstructed)
}
