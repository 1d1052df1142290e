package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Category classifies an expense.
type Category string

const (
	CategoryFood           Category = "Food"
	CategoryTransportation Category = "Transportation"
	CategoryEntertainment  Category = "Entertainment"
	CategoryAccommodation  Category = "Accommodation"
	CategoryOther          Category = "Other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryFood,
	CategoryTransportation,
	CategoryEntertainment,
	CategoryAccommodation,
	CategoryOther,
}

// ParseCategory validates a category name. Empty defaults to Other.
func ParseCategory(s string) (Category, error) {
	if s == "" {
		return CategoryOther, nil
	}
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Expense is a single payment made by one participant on behalf of the ledger.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// LedgerID is the ledger this expense belongs to.
	LedgerID string

	// Payer is the participant who paid.
	Payer string

	// Amount is the non-negative amount paid.
	Amount decimal.Decimal

	// Category is one of Categories.
	Category Category

	// Description is optional free text (e.g., "Dinner at Rossio").
	Description string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// ExpenseFilter narrows ListExpenses. Zero fields match everything.
type ExpenseFilter struct {
	Payer    string
	Category Category
}

