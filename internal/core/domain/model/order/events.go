package order

import "time"

// ChangedEvent is emitted after a lifecycle change has been committed.
// Deleted is set when the change removed the order from the store.
type ChangedEvent struct {
	OrderID    int64
	Status     Status
	Deleted    bool
	OccurredAt time.Time
}

// NewChangedEvent builds the event describing the current state of o.
func NewChangedEvent(o *Order, deleted bool, occurredAt time.Time) ChangedEvent {
	return ChangedEvent{
		OrderID:    o.ID(),
		Status:     o.Status(),
		Deleted:    deleted,
		OccurredAt: occurredAt.UTC(),
	}
}
