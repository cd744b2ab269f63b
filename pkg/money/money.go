// Package money holds the integer currency arithmetic shared by the pricing code.
// Amounts are whole currency units (KRW has no minor unit).
package money

import "github.com/shopspring/decimal"

const DefaultRoundingUnit = 100

var hundred = decimal.NewFromInt(100)

// FloorToUnit rounds amount down to the nearest lower multiple of unit. Negative amounts
// floor to 0. A non-positive unit leaves the amount truncated to a whole number.
func FloorToUnit(amount decimal.Decimal, unit int) int {
	if amount.Sign() <= 0 {
		return 0
	}
	if unit <= 0 {
		return int(amount.Floor().IntPart())
	}
	step := decimal.NewFromInt(int64(unit))
	return int(amount.Div(step).Floor().Mul(step).IntPart())
}

// PercentOf returns base * pct / 100 without rounding.
func PercentOf(base int, pct decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(base)).Mul(pct).Div(hundred)
}

// Clamp bounds value to [0, limit].
func Clamp(value, limit int) int {
	if limit < 0 {
		limit = 0
	}
	if value < 0 {
		return 0
	}
	if value > limit {
		return limit
	}
	return value
}

// NonNegative returns value or 0 when it is negative.
func NonNegative(value int) int {
	if value < 0 {
		return 0
	}
	return value
}
