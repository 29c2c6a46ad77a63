package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget holds a balance in a single currency and belongs to exactly one
// user. The owner is fixed at creation time.
type Budget struct {
	ID       int             `json:"id"`
	UserID   int             `json:"user"`
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
	Created  time.Time       `json:"created"`
}

// Currencies supported for budgets. Codes are stored uppercase.
var Currencies = []string{"USD", "EUR", "UAH", "GBP", "PLN", "CHF", "JPY", "CAD", "AUD"}

func SupportedCurrency(code string) bool {
	for _, c := range Currencies {
		if c == code {
			return true
		}
	}
	return false
}
