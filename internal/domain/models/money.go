package models

import "github.com/shopspring/decimal"

// maxMoney is the largest magnitude that fits a 10-digit, 2-place decimal
// column.
var maxMoney = decimal.New(9999999999, -2)

// ValidMoney reports whether d fits the fixed-point storage format: at most
// two decimal places, at most ten digits in total.
func ValidMoney(d decimal.Decimal) bool {
	if !d.Equal(d.Round(2)) {
		return false
	}
	return d.Abs().LessThanOrEqual(maxMoney)
}
