// Package fixedpoint quantizes floating point inputs into fixed scale decimals
// so stored values are reproducible across repeated extraction runs.
package fixedpoint

import "github.com/shopspring/decimal"

const (
	CoordinateScale int32 = 4
	PercentScale    int32 = 2
)

var half = decimal.New(5, -1)

// RoundHalfUp rounds d to places fractional digits, ties toward +infinity.
func RoundHalfUp(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Shift(places).Add(half).Floor().Shift(-places)
}

// Quantize converts a pitch coordinate to its stored form.
func Quantize(v float64) decimal.Decimal {
	return RoundHalfUp(decimal.NewFromFloat(v), CoordinateScale)
}

// QuantizePtr is Quantize for optional coordinates.
func QuantizePtr(v *float64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	q := Quantize(*v)
	return &q
}

// Percent returns num/den as a percentage at PercentScale, or nil when den is
// not positive.
func Percent(num, den int) *decimal.Decimal {
	if den <= 0 {
		return nil
	}
	if num < 0 {
		num = 0
	}
	v := RoundHalfUp(decimal.NewFromInt(int64(num)).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(int64(den))), PercentScale)
	return &v
}
