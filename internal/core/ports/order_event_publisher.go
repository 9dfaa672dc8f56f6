package ports

import (
	"context"

	"orders/internal/core/domain/model/order"
)

// OrderEventPublisher delivers lifecycle notifications after a commit.
type OrderEventPublisher interface {
	Publish(ctx context.Context, events ...order.ChangedEvent) error
}
