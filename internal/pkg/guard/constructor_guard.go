// Package guard lets commands, queries and value objects detect that they were
// built through their constructor rather than as a zero value.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in types whose zero value must be rejected.
//
// Example:
//
//	type GetOrderQuery struct {
//	    orderID int64
//	    guard   guard.ConstructorGuard
//	}
//
//	func (q GetOrderQuery) Validate() error {
//	    return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard marks the enclosing value as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
