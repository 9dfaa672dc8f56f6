package commands

import (
	"errors"

	"orders/internal/pkg/guard"
)

var (
	ErrPurgeDeliveredOrdersCommandIsNotConstructed = errors.New(
		"PurgeDeliveredOrdersCommand must be created via NewPurgeDeliveredOrdersCommand constructor",
	)
)

// PurgeDeliveredOrdersCommand removes delivered rows that survived their
// advance, for example rows written by a deployment that delivered in two steps.
type PurgeDeliveredOrdersCommand struct {
	guard guard.ConstructorGuard
}

func NewPurgeDeliveredOrdersCommand() PurgeDeliveredOrdersCommand {
	return PurgeDeliveredOrdersCommand{guard: guard.NewConstructorGuard()}
}

func (c PurgeDeliveredOrdersCommand) Validate() error {
	return c.guard.Validate(ErrPurgeDeliveredOrdersCommandIsNotConstructed)
}
