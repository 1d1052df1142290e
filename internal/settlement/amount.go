package settlement

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Epsilon is the tolerance for treating a balance as settled. A value x is
// "within Epsilon" of zero when |x| <= Epsilon.
var Epsilon = decimal.New(1, -2)

// NewAmount converts a float into an expense amount.
func NewAmount(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidAmount, f)
	}
	if f < 0 {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidAmount, f)
	}
	return decimal.NewFromFloat(f), nil
}

// ParseAmount parses a decimal string such as "12.50" into an expense amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidAmount, d)
	}
	return d, nil
}

// FormatAmount renders an amount with two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// IsSettled reports whether d is within Epsilon of zero.
func IsSettled(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(Epsilon)
}
