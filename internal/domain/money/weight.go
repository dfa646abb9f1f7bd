package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Weight is a mass in milligrams.
type Weight int64

// WeightFromGrams converts a decimal gram value to Weight, rounding half-up
// to the milligram.
func WeightFromGrams(grams decimal.Decimal) Weight {
	return Weight(RoundHalfUp(grams, 3).Shift(3).IntPart())
}

// WeightFromGramsChecked is like WeightFromGrams but returns ErrOutOfRange
// when the weight does not fit in int64 milligrams.
func WeightFromGramsChecked(grams decimal.Decimal) (Weight, error) {
	mg, err := toMinorUnits(grams, 3)
	if err != nil {
		return 0, err
	}
	return Weight(mg), nil
}

// ParseWeight parses a gram value such as "10.125".
func ParseWeight(s string) (Weight, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("money: parse weight %q: %w", s, err)
	}
	return WeightFromGramsChecked(d)
}

// Milligrams returns the weight in milligrams.
func (w Weight) Milligrams() int64 { return int64(w) }

// Grams returns the weight in grams as an exact decimal.
func (w Weight) Grams() decimal.Decimal { return decimal.New(int64(w), -3) }

// String formats the weight with three decimals, e.g. "10.000 g".
func (w Weight) String() string { return w.Grams().StringFixed(3) + " g" }

// MarshalJSON encodes the weight as a gram number with three decimals.
func (w Weight) MarshalJSON() ([]byte, error) {
	return []byte(w.Grams().StringFixed(3)), nil
}
