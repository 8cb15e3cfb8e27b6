// Package core holds the domain model shared by every other package.
//
// Money is stored as integer cents. Decimal input from forms or files is
// parsed through shopspring/decimal so that "12.345" rounds the same way
// everywhere instead of drifting through float64.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal amount string to Money in cents.
//
// Both dot (12.34) and comma (12,34) separators are accepted. The value
// is rounded half-up to two decimal places. Negative and zero amounts
// are rejected.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if d.Sign() <= 0 {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Shift(2).Round(0)
	if !cents.IsInteger() || !cents.BigInt().IsInt64() {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.IntPart()}, nil
}

// Float returns the amount in major units for display and for derived
// metrics. Calculations that must stay exact use Cents.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100.0
}

// String formats the amount with two decimal places, e.g. "12.34".
func (m Money) String() string {
	neg := ""
	c := m.Cents
	if c < 0 {
		neg = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", neg, c/100, c%100)
}
