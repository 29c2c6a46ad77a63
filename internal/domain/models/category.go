package models

import "time"

const (
	CategoryIncome  = "Income"
	CategoryExpense = "Expense"
)

// Category labels transactions as income or expense. Names are free text and
// may repeat within a user's account.
type Category struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user"`
	Name         string    `json:"name"`
	CategoryType string    `json:"category_type"`
	Created      time.Time `json:"created"`
}

func ValidCategoryType(t string) bool {
	return t == CategoryIncome || t == CategoryExpense
}
