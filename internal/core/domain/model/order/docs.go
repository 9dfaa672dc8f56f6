// Package order provides the Order aggregate and its lifecycle state machine.
//
// The package includes:
//   - Order: the aggregate root owning client name, status and items
//   - Item: an order line with description, quantity and unit price
//   - Status: the forward-only lifecycle (initiated -> sent -> delivered)
//   - Transition: the outcome of a single Advance call
//   - ChangedEvent: the notification published after a committed change
//
// Key business rules:
//   - New orders always start as initiated
//   - Advancing a sent order delivers it, and a delivered order must be deleted
//     together with its items in the same transaction
//   - Advancing a delivered order changes nothing
//   - Items require a description, a quantity of at least 1 and a non-negative price
package order
