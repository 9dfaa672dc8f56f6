package memory

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
)

var _ ports.OrderEventPublisher = (*EventLog)(nil)

// EventLog keeps published events in memory and logs them at debug level.
// It stands in for Kafka when no broker is configured.
type EventLog struct {
	mu     sync.Mutex
	events []order.ChangedEvent
	logger *slog.Logger
}

func NewEventLog(logger *slog.Logger) *EventLog {
	return &EventLog{logger: logger.With("component", "EventLog")}
}

func (l *EventLog) Publish(ctx context.Context, events ...order.ChangedEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range events {
		l.logger.DebugContext(ctx, "order changed",
			"order_id", e.OrderID, "status", e.Status.String(), "deleted", e.Deleted)
	}
	l.events = append(l.events, events...)
	return nil
}

// Events returns a copy of everything published so far.
func (l *EventLog) Events() []order.ChangedEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.events)
}
