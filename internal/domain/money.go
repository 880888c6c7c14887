package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// MaxQuantity is the largest unit count a stock or line column holds
const MaxQuantity = math.MaxInt32

// Prices are stored as NUMERIC(10,2)
var maxPrice = decimal.New(1, 8)

// ValidPrice reports whether d is storable as a price without rounding:
// non-negative, whole cents, and within the price column's range.
func ValidPrice(d decimal.Decimal) bool {
	return !d.IsNegative() && d.Equal(d.Round(2)) && d.LessThan(maxPrice)
}

// ValidQuantity reports whether n fits a stock or line quantity column
func ValidQuantity(n int) bool {
	return n >= -MaxQuantity && n <= MaxQuantity
}
