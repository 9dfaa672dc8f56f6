package order

import (
	"fmt"

	"orders/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Initiated ──> Sent ──> Delivered ──┐
//	                           ^       │
//	                           └───────┘
//	                      (advance is a no-op)
//
// The persisted form is the lower-case name returned by String.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Initiated is forced on every newly created order.
	Initiated

	// Sent indicates the order left the kitchen.
	Sent

	// Delivered is terminal. A delivered order is removed in the same
	// transaction that delivered it.
	Delivered
)

func getStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Initiated: "initiated",
		Sent:      "sent",
		Delivered: "delivered",
	}
}

// ParseStatus converts the persisted representation back into a Status.
func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of Initiated, Sent or Delivered.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String implements fmt.Stringer. Invalid values render as "unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsPending reports whether orders in this status belong to the pending list.
func (s Status) IsPending() bool {
	return s == Initiated || s == Sent
}

// IsTerminal reports whether the status ends the lifecycle.
func (s Status) IsTerminal() bool {
	return s == Delivered
}

// Next returns the status that follows s in the lifecycle.
//
//   - Initiated -> Sent
//   - Sent -> Delivered
//   - Delivered -> Delivered (no-op)
//
// Unknown and out-of-range values are rejected.
func (s Status) Next() (Status, error) {
	switch s {
	case Initiated:
		return Sent, nil
	case Sent, Delivered:
		return Delivered, nil
	case Unknown:
	}

	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%d is not a valid status to advance", s),
	)
}
