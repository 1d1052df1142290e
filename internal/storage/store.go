// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/settleup/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence operations the services need.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	LedgerStore
	ExpenseStore
	UserStore

	// Close releases any resources held by the store.
	Close() error
}

// LedgerStore persists ledgers and their participant lists.
type LedgerStore interface {
	// CreateLedger persists a new ledger. ID and CreatedAt are populated
	// by the store when empty.
	CreateLedger(ctx context.Context, ledger *models.Ledger) error

	// GetLedger retrieves a ledger with its participants in order.
	GetLedger(ctx context.Context, ledgerID string) (*models.Ledger, error)

	// ListLedgersByOwner returns the owner's ledgers, newest first.
	ListLedgersByOwner(ctx context.Context, ownerID string) ([]*models.Ledger, error)

	// UpdateLedger replaces name, participants and budget.
	UpdateLedger(ctx context.Context, ledger *models.Ledger) error

	// AddParticipants appends names not already on the ledger, keeping order.
	AddParticipants(ctx context.Context, ledgerID string, names []string) error

	// DeleteLedger removes a ledger and its expenses.
	DeleteLedger(ctx context.Context, ledgerID string) error
}

// ExpenseStore persists expenses.
type ExpenseStore interface {
	// CreateExpense persists a new expense. ID and CreatedAt are populated
	// by the store when empty.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// UpdateExpense replaces payer, amount, category and description.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	DeleteExpense(ctx context.Context, expenseID string) error

	// ListExpenses returns a ledger's expenses in recording order.
	ListExpenses(ctx context.Context, ledgerID string, filter models.ExpenseFilter) ([]*models.Expense, error)
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
