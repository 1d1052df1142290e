package api

import "github.com/shopspring/decimal"

type CreateLedgerRequest struct {
	Name         string           `json:"name"`
	Participants []string         `json:"participants"`
	Budget       *decimal.Decimal `json:"budget,omitempty"`
}

type CreateLedgerResponse struct {
	Ledger *Ledger `json:"ledger"`
}

type GetLedgerRequest struct {
	LedgerID string `json:"ledger_id"`
}

type GetLedgerResponse struct {
	Ledger *Ledger `json:"ledger"`
}

type ListLedgersRequest struct{}

type ListLedgersResponse struct {
	Ledgers []*Ledger `json:"ledgers"`
}

type DeleteLedgerRequest struct {
	LedgerID string `json:"ledger_id"`
}

type DeleteLedgerResponse struct{}

type AddParticipantRequest struct {
	LedgerID string `json:"ledger_id"`
	Name     string `json:"name"`
}

type AddParticipantResponse struct {
	Ledger *Ledger `json:"ledger"`
}

// SetBudgetRequest sets the ledger budget; a nil Budget clears it.
type SetBudgetRequest struct {
	LedgerID string           `json:"ledger_id"`
	Budget   *decimal.Decimal `json:"budget,omitempty"`
}

type SetBudgetResponse struct {
	Ledger *Ledger `json:"ledger"`
}

type AddExpenseRequest struct {
	LedgerID    string          `json:"ledger_id"`
	Payer       string          `json:"payer"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
}

type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type UpdateExpenseRequest struct {
	ExpenseID   string          `json:"expense_id"`
	Payer       string          `json:"payer"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

// ListExpensesRequest lists a ledger's expenses. Payer and Category are
// optional filters; both must match when set.
type ListExpensesRequest struct {
	LedgerID string `json:"ledger_id"`
	Payer    string `json:"payer,omitempty"`
	Category string `json:"category,omitempty"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type GetSummaryRequest struct {
	LedgerID string `json:"ledger_id"`
}

// GetSummaryResponse reports spend against the ledger. Budget fields are
// omitted when the ledger has no budget.
type GetSummaryResponse struct {
	TotalSpent            decimal.Decimal  `json:"total_spent"`
	PerPerson             decimal.Decimal  `json:"per_person"`
	ExpenseCount          int              `json:"expense_count"`
	Budget                *decimal.Decimal `json:"budget,omitempty"`
	BudgetProgressPercent *decimal.Decimal `json:"budget_progress_percent,omitempty"`
	Balances              []*Balance       `json:"balances"`
}

type GetSettlementRequest struct {
	LedgerID string `json:"ledger_id"`
}

type GetSettlementResponse struct {
	Balances  []*Balance  `json:"balances"`
	Transfers []*Transfer `json:"transfers"`
}
