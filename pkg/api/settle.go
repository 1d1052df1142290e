package api

import "github.com/shopspring/decimal"

// SettleExpense is an inline expense for the stateless Settle call.
type SettleExpense struct {
	Payer       string          `json:"payer"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
}

type SettleRequest struct {
	Participants []string         `json:"participants"`
	Expenses     []*SettleExpense `json:"expenses"`
}

type SettleResponse struct {
	Balances  []*Balance      `json:"balances"`
	Transfers []*Transfer     `json:"transfers"`
	Total     decimal.Decimal `json:"total"`
	FairShare decimal.Decimal `json:"fair_share"`
}
