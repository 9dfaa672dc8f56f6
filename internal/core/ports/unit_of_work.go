package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Client code must explicitly manage the transaction lifecycle. Rollback after
// a successful Commit changes nothing and its error is meant to be ignored.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// OrderRepository returns a repository bound to the transaction started by Begin.
	OrderRepository() OrderRepository
}
