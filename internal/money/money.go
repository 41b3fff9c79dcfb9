// Package money converts between decimal major-unit amounts and the int64
// minor units stored on transactions.
package money

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// Scale is the number of minor-unit digits per major unit.
const Scale = 2

var (
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// ErrOutOfRange is returned when an amount does not fit in int64 minor units.
var ErrOutOfRange = errors.New("amount out of range")

// ToMinor converts a major-unit amount to minor units, rounding half away
// from zero at the minor-unit digit.
func ToMinor(d decimal.Decimal) (int64, error) {
	minor := d.Shift(Scale).Round(0)
	if minor.GreaterThan(maxMinor) || minor.LessThan(minMinor) {
		return 0, ErrOutOfRange
	}
	return minor.IntPart(), nil
}

// FromMinor converts minor units back to a major-unit decimal.
func FromMinor(minor int64) decimal.Decimal {
	return decimal.New(minor, -Scale)
}

// Format renders minor units with exactly Scale fraction digits.
func Format(minor int64) string {
	return FromMinor(minor).StringFixed(Scale)
}
