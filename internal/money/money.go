// Package money implements exact fixed-point currency amounts.
//
// A Money value is a count of minor units (hundredths). Conversion to and from
// decimal text happens only at the system boundary; all arithmetic inside the
// engine is integer arithmetic.
package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ErrOutOfRange is returned when an amount does not fit in 64 bits of minor units.
var ErrOutOfRange = errors.New("money amount out of range")

// Scale is the number of fraction digits carried by Money.
const Scale = 2

var (
	hundred    = decimal.NewFromInt(100)
	minorUnits = decimal.New(1, Scale)
	maxMinor   = decimal.NewFromInt(math.MaxInt64)
	minMinor   = decimal.NewFromInt(math.MinInt64)
)

// Money is an amount of currency expressed in minor units.
type Money int64

// Zero is the zero amount.
const Zero Money = 0

// FromMinor builds a Money from a raw minor-unit count.
func FromMinor(minor int64) Money {
	return Money(minor)
}

// FromMajor builds a Money from a whole number of major units.
func FromMajor(major int64) Money {
	return Money(major * 100)
}

// FromDecimal converts a decimal amount, rounding half away from zero to the minor unit.
// Amounts that do not fit in an int64 of minor units return ErrOutOfRange.
func FromDecimal(d decimal.Decimal) (Money, error) {
	scaled := d.Mul(minorUnits).Round(0)
	if scaled.GreaterThan(maxMinor) || scaled.LessThan(minMinor) {
		return Zero, fmt.Errorf("%w: %s", ErrOutOfRange, d.String())
	}
	return Money(scaled.IntPart()), nil
}

// Parse converts a decimal string such as "1250.50" into Money.
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("invalid money amount %q: %w", s, err)
	}
	return FromDecimal(d)
}

// Minor returns the raw minor-unit count.
func (m Money) Minor() int64 {
	return int64(m)
}

// Decimal returns the amount as a decimal in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -Scale)
}

func (m Money) String() string {
	return m.Decimal().StringFixed(Scale)
}

func (m Money) Add(o Money) Money { return m + o }
func (m Money) Sub(o Money) Money { return m - o }
func (m Money) Neg() Money        { return -m }

// MulInt multiplies the amount by an integer quantity. Callers with unbounded inputs use CheckedMulInt.
func (m Money) MulInt(n int) Money {
	return m * Money(n)
}

// CheckedAdd is Add that reports ErrOutOfRange instead of wrapping.
func (m Money) CheckedAdd(o Money) (Money, error) {
	if (o > 0 && m > math.MaxInt64-o) || (o < 0 && m < math.MinInt64-o) {
		return Zero, ErrOutOfRange
	}
	return m + o, nil
}

// CheckedMulInt is MulInt that reports ErrOutOfRange instead of wrapping.
func (m Money) CheckedMulInt(n int) (Money, error) {
	if m == 0 || n == 0 {
		return Zero, nil
	}
	product := m * Money(n)
	if product/Money(n) != m || (n == -1 && m == math.MinInt64) {
		return Zero, ErrOutOfRange
	}
	return product, nil
}

func (m Money) IsZero() bool     { return m == 0 }
func (m Money) IsNegative() bool { return m < 0 }
func (m Money) IsPositive() bool { return m > 0 }

// Cmp returns -1, 0 or 1.
func (m Money) Cmp(o Money) int {
	switch {
	case m < o:
		return -1
	case m > o:
		return 1
	default:
		return 0
	}
}

// ApplyPercentOff returns m × (1 − pct/100), rounded to the minor unit.
func (m Money) ApplyPercentOff(pct decimal.Decimal) Money {
	factor := decimal.NewFromInt(1).Sub(pct.Div(hundred))
	return Money(decimal.NewFromInt(int64(m)).Mul(factor).Round(0).IntPart())
}

// Percent returns pct% of m, rounded to the minor unit.
func (m Money) Percent(pct int) Money {
	return Money(decimal.NewFromInt(int64(m)).Mul(decimal.NewFromInt(int64(pct))).Div(hundred).Round(0).IntPart())
}

// Max returns the larger of two amounts.
func Max(a, b Money) Money {
	if a > b {
		return a
	}
	return b
}

// Sum adds all amounts, failing with ErrOutOfRange on overflow.
func Sum(amounts ...Money) (Money, error) {
	var total Money
	for _, a := range amounts {
		var err error
		if total, err = total.CheckedAdd(a); err != nil {
			return Zero, err
		}
	}
	return total, nil
}

// MarshalJSON encodes the amount as a fixed-point decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts either a decimal string or a JSON number in major units.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid money amount: %w", err)
	}
	parsed, err := FromDecimal(d)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
