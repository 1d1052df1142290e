package service

import (
	"errors"
	"fmt"
	"strings"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/settlement"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/pkg/api"
)

// displayPlaces is how many decimal places money has on the wire.
const displayPlaces = 2

func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(displayPlaces)
}

// storeError maps a storage error to a Connect error.
func storeError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeNotFound, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

// invalid builds an InvalidArgument error.
func invalid(format string, args ...any) error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}

// cleanNames trims names and rejects blanks.
func cleanNames(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	for i, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			return nil, fmt.Errorf("participant %d: %w", i, settlement.ErrEmptyParticipant)
		}
		out = append(out, n)
	}
	return out, nil
}

// checkAmount rejects negative amounts.
func checkAmount(d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf("%w: %s", settlement.ErrInvalidAmount, d)
	}
	return nil
}

func toAPILedger(l *models.Ledger) *api.Ledger {
	out := &api.Ledger{
		ID:           l.ID,
		Name:         l.Name,
		Participants: l.Participants,
		CreatedAt:    l.CreatedAt,
	}
	if out.Participants == nil {
		out.Participants = []string{}
	}
	if l.Budget.Valid {
		budget := l.Budget.Decimal
		out.Budget = &budget
	}
	return out
}

func toAPIExpense(e *models.Expense) *api.Expense {
	return &api.Expense{
		ID:          e.ID,
		LedgerID:    e.LedgerID,
		Payer:       e.Payer,
		Amount:      e.Amount,
		Category:    string(e.Category),
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func toAPIBalances(balances settlement.Balances) []*api.Balance {
	out := make([]*api.Balance, len(balances))
	for i, b := range balances {
		out[i] = &api.Balance{Participant: b.Participant, Net: money(b.Net)}
	}
	return out
}

func toAPITransfers(transfers []settlement.Transfer) []*api.Transfer {
	out := make([]*api.Transfer, len(transfers))
	for i, t := range transfers {
		out[i] = &api.Transfer{From: t.From, To: t.To, Amount: money(t.Amount)}
	}
	return out
}

func toEngineExpenses(expenses []*models.Expense) []settlement.Expense {
	out := make([]settlement.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = settlement.Expense{
			Payer:       e.Payer,
			Amount:      e.Amount,
			Category:    string(e.Category),
			Description: e.Description,
		}
	}
	return out
}
