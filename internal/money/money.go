// Package money handles monetary amounts as int64 minor currency units
// (cents). All ledger arithmetic is integer-only — no floating point.
// Decimal strings cross into minor units exactly once, at the API boundary.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Exponent is the number of decimal places in the major currency unit.
// One minor unit is 10^-Exponent of a major unit.
const Exponent = 2

// Parse converts a decimal amount string ("12.34") into minor units.
// It rejects amounts with more than Exponent decimal places rather than
// rounding them silently.
func Parse(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return FromDecimal(d)
}

// FromDecimal converts a decimal amount into minor units.
func FromDecimal(d decimal.Decimal) (int64, error) {
	scaled := d.Shift(Exponent)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("amount %s has more than %d decimal places", d, Exponent)
	}
	if !scaled.BigInt().IsInt64() {
		return 0, fmt.Errorf("amount %s out of range", d)
	}
	return scaled.IntPart(), nil
}

// Format renders minor units as a fixed-point decimal string.
func Format(units int64) string {
	return decimal.New(units, -Exponent).StringFixed(Exponent)
}

// Split divides amount into n shares that sum exactly to amount. The first
// amount%n shares receive one extra minor unit (largest-remainder method), so
// earlier positions in a participant list absorb the rounding.
// Returns nil if n <= 0.
func Split(amount int64, n int) []int64 {
	if n <= 0 {
		return nil
	}
	base := amount / int64(n)
	rem := amount % int64(n)
	if rem < 0 { // negative amounts round toward -inf so shares still sum
		base--
		rem += int64(n)
	}
	shares := make([]int64, n)
	for i := range shares {
		shares[i] = base
		if int64(i) < rem {
			shares[i]++
		}
	}
	return shares
}
