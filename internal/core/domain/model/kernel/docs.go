// Package kernel provides value objects shared across the orders domain.
//
// The package includes:
//   - Price: a non-negative decimal amount used for item unit prices
//
// Value objects are immutable and must be created through their constructors;
// a zero value fails Validate.
package kernel
