// Package money rounds and sums store-currency amounts without float drift.
package money

import "github.com/shopspring/decimal"

// Round2 rounds v half away from zero to 2 decimal places.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// LineTotal returns price*quantity computed in decimal.
func LineTotal(price float64, quantity int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity)))
}

// Percent returns amount*pct/100 rounded to 2 places.
func Percent(amount, pct float64) float64 {
	return decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(pct)).
		Div(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64()
}

// Format renders v with exactly two decimals, e.g. "100.00".
func Format(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
