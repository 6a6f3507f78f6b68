package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

// DefaultPrecision is the number of decimal digits kept for every surfaced amount.
const DefaultPrecision = 4

// Round normalizes value to DefaultPrecision decimal digits.
func Round(value float64) float64 {
	return RoundTo(value, DefaultPrecision)
}

// RoundTo rounds value half away from zero to precision decimal digits.
// Zero, NaN and results that collapse to negative zero all come back as 0
// so degenerate values never reach stored records or the UI.
func RoundTo(value float64, precision int32) float64 {
	if value == 0 || math.IsNaN(value) {
		return 0
	}
	if math.IsInf(value, 0) {
		return value
	}
	rounded, _ := decimal.NewFromFloat(value).Round(precision).Float64()
	if rounded == 0 {
		return 0
	}
	return rounded
}
