// Package api defines the settleup.v1 wire messages.
//
// Messages are plain structs encoded as JSON. Money fields are decimals and
// travel as strings ("12.50") so no precision is lost in transit.
package api

import "github.com/shopspring/decimal"

// Ledger is a named group of participants sharing expenses.
type Ledger struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Participants []string         `json:"participants"`
	Budget       *decimal.Decimal `json:"budget,omitempty"`
	CreatedAt    int64            `json:"created_at"`
}

// Expense is a payment recorded against a ledger.
type Expense struct {
	ID          string          `json:"id"`
	LedgerID    string          `json:"ledger_id"`
	Payer       string          `json:"payer"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	CreatedAt   int64           `json:"created_at"`
}

// Balance is one participant's net position. Positive = is owed money.
type Balance struct {
	Participant string          `json:"participant"`
	Net         decimal.Decimal `json:"net"`
}

// Transfer is a payment that settles part of a debt.
type Transfer struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// User is a registered account.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}
