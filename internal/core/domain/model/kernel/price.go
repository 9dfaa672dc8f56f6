package kernel

import (
	"fmt"

	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrPriceIsNotConstructed is returned when a zero-value Price is used.
var ErrPriceIsNotConstructed = errs.NewValueIsRequiredError("price must be created via NewPrice or NewPriceFromFloat")

// Price is a non-negative monetary amount backed by an arbitrary precision decimal.
//
// Example:
//
//	price, err := kernel.NewPrice(decimal.RequireFromString("25.50"))
//	if err != nil {
//	    // negative amount
//	}
//	total := price.Times(2) // 51.00
type Price struct { //nolint:recvcheck //using for validation
	amount decimal.Decimal
	guard  guard.ConstructorGuard
}

// NewPrice creates a Price. Negative amounts are rejected.
func NewPrice(amount decimal.Decimal) (Price, error) {
	if amount.IsNegative() {
		return Price{}, errs.NewValueIsInvalidErrorWithCause(
			"unit price",
			fmt.Errorf("%s is less than 0", amount.String()),
		)
	}

	return Price{amount: amount, guard: guard.NewConstructorGuard()}, nil
}

// NewPriceFromFloat creates a Price from a float64 as received from JSON payloads.
func NewPriceFromFloat(amount float64) (Price, error) {
	return NewPrice(decimal.NewFromFloat(amount))
}

// MustNewPrice parses amount and panics on failure. Intended for tests and constants.
func MustNewPrice(amount string) Price {
	p, err := NewPrice(decimal.RequireFromString(amount))
	if err != nil {
		panic(err)
	}
	return p
}

// Validate ensures the price was created through a constructor.
func (p Price) Validate() error {
	return p.guard.Validate(ErrPriceIsNotConstructed)
}

// Amount returns the underlying decimal amount.
func (p Price) Amount() decimal.Decimal {
	return p.amount
}

// Times returns the amount multiplied by quantity.
func (p Price) Times(quantity int) decimal.Decimal {
	return p.amount.Mul(decimal.NewFromInt(int64(quantity)))
}

// IsEqual compares prices by value, ignoring representation (25.5 == 25.50).
func (p Price) IsEqual(other Price) bool {
	return p.amount.Equal(other.amount)
}

// String implements fmt.Stringer.
func (p Price) String() string {
	return p.amount.String()
}
