// Package money provides fixed-point currency and weight values.
//
// Money is stored as an integer count of paise and Weight as an integer count
// of milligrams. Arithmetic on both is integer-only; decimal values only
// appear at the boundary (parsing input, computing percentages) and are
// converted back with round-half-up.
package money

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents an amount in the smallest currency unit (paise).
type Money int64

// Zero is the zero amount.
const Zero Money = 0

// ErrOutOfRange is returned when a value does not fit in its int64 unit.
var ErrOutOfRange = errors.New("money: value out of range")

var half = decimal.New(5, -1)

// RoundHalfUp rounds d to the given number of decimal places, sending ties
// toward positive infinity (2.345 -> 2.35, -2.345 -> -2.34).
func RoundHalfUp(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Shift(places).Add(half).Floor().Shift(-places)
}

// FromPaise creates a Money value from minor units.
func FromPaise(paise int64) Money { return Money(paise) }

// FromMajor creates a Money value from whole rupees.
func FromMajor(rupees int64) Money { return Money(rupees * 100) }

// FromDecimal converts a decimal amount in rupees to Money, rounding
// half-up to two decimal places. The amount must fit in int64 paise; use
// FromDecimalChecked for values derived from user input.
func FromDecimal(d decimal.Decimal) Money {
	return Money(RoundHalfUp(d, 2).Shift(2).IntPart())
}

// FromDecimalChecked is like FromDecimal but returns ErrOutOfRange when the
// rounded amount does not fit in int64 paise.
func FromDecimalChecked(d decimal.Decimal) (Money, error) {
	minor, err := toMinorUnits(d, 2)
	if err != nil {
		return Zero, err
	}
	return Money(minor), nil
}

// toMinorUnits rounds d half-up to places decimals and returns it scaled to
// an integer, or ErrOutOfRange if it does not fit in int64.
func toMinorUnits(d decimal.Decimal, places int32) (int64, error) {
	scaled := RoundHalfUp(d, places).Shift(places)
	if scaled.GreaterThan(decimal.NewFromInt(math.MaxInt64)) || scaled.LessThan(decimal.NewFromInt(math.MinInt64)) {
		return 0, fmt.Errorf("%w: %s", ErrOutOfRange, d.String())
	}
	return scaled.IntPart(), nil
}

// ParseMoney parses a rupee amount such as "1234.5" or "67980.00".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Zero, fmt.Errorf("money: parse %q: %w", s, err)
	}
	return FromDecimalChecked(d)
}

// MustParse is like ParseMoney but panics on malformed input. Intended for
// constants and tests.
func MustParse(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Paise returns the amount in minor units.
func (m Money) Paise() int64 { return int64(m) }

// Add adds two amounts.
func (m Money) Add(other Money) Money { return m + other }

// CheckedAdd adds two amounts, returning ErrOutOfRange on int64 overflow.
func (m Money) CheckedAdd(other Money) (Money, error) {
	sum := m + other
	if (other > 0 && sum < m) || (other < 0 && sum > m) {
		return Zero, fmt.Errorf("%w: %s + %s", ErrOutOfRange, m.FormatMajor(), other.FormatMajor())
	}
	return sum, nil
}

// Sub subtracts other from m.
func (m Money) Sub(other Money) Money { return m - other }

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool { return m == 0 }

// IsPositive returns true if the amount is greater than zero.
func (m Money) IsPositive() bool { return m > 0 }

// IsNegative returns true if the amount is less than zero.
func (m Money) IsNegative() bool { return m < 0 }

// Decimal returns the amount in rupees as an exact decimal.
func (m Money) Decimal() decimal.Decimal { return decimal.New(int64(m), -2) }

// FormatMajor returns the rupee amount with two decimals and no symbol,
// e.g. "67980.00" or "-0.50".
func (m Money) FormatMajor() string {
	neg := m < 0
	abs := int64(m)
	if neg {
		abs = -abs
	}
	s := fmt.Sprintf("%d.%02d", abs/100, abs%100)
	if neg {
		return "-" + s
	}
	return s
}

// String returns the amount with the rupee symbol and Indian digit
// grouping, e.g. "₹1,23,456.50".
func (m Money) String() string {
	major := m.FormatMajor()
	sign := ""
	if strings.HasPrefix(major, "-") {
		sign = "-"
		major = major[1:]
	}
	whole, frac, _ := strings.Cut(major, ".")
	return sign + "₹" + groupIndian(whole) + "." + frac
}

// MarshalJSON encodes the amount as a rupee number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.FormatMajor()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*m = Zero
		return nil
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer; amounts are stored as paise.
func (m Money) Value() (driver.Value, error) {
	return int64(m), nil
}

// Scan implements sql.Scanner.
func (m *Money) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		*m = Money(v)
	case nil:
		*m = Zero
	default:
		return fmt.Errorf("money: cannot scan %T", src)
	}
	return nil
}

// Sum adds up all values. An empty call returns Zero.
func Sum(values ...Money) Money {
	var total Money
	for _, v := range values {
		total += v
	}
	return total
}

// groupIndian inserts separators using the lakh/crore convention: the last
// three digits form one group, everything before it groups in pairs.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
