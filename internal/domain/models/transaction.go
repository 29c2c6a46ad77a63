package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction moves money in or out of a budget. Amount is signed: income
// positive, expense negative by convention. Ownership is derived through the
// referenced budget.
type Transaction struct {
	ID         int             `json:"id"`
	BudgetID   int             `json:"budget"`
	CategoryID int             `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Notes      string          `json:"notes"`
	Created    time.Time       `json:"created"`
}
