package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/metrics"
	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/settlement"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/pkg/api"
	"github.com/mmynk/settleup/pkg/api/apiconnect"
)

var _ apiconnect.LedgerServiceHandler = (*LedgerService)(nil)

var hundred = decimal.NewFromInt(100)

// LedgerService implements the Connect LedgerService.
// Every call requires an authenticated caller, and ledgers are visible
// only to their owner.
type LedgerService struct {
	store   storage.Store
	metrics *metrics.Metrics
}

// NewLedgerService creates a new LedgerService with the given storage backend.
// m may be nil.
func NewLedgerService(store storage.Store, m *metrics.Metrics) *LedgerService {
	return &LedgerService{store: store, metrics: m}
}

// ownedLedger loads a ledger and checks the caller owns it.
func (s *LedgerService) ownedLedger(ctx context.Context, ledgerID string) (*models.Ledger, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}
	if ledgerID == "" {
		return nil, invalid("ledger_id required")
	}

	ledger, err := s.store.GetLedger(ctx, ledgerID)
	if err != nil {
		slog.Error("failed to get ledger", "ledger_id", ledgerID, "error", err)
		return nil, storeError(err)
	}
	if ledger.OwnerID != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("you do not own this ledger"))
	}
	return ledger, nil
}

// ownedExpense loads an expense and checks the caller owns its ledger.
func (s *LedgerService) ownedExpense(ctx context.Context, expenseID string) (*models.Expense, *models.Ledger, error) {
	if expenseID == "" {
		return nil, nil, invalid("expense_id required")
	}
	if middleware.GetUserID(ctx) == "" {
		return nil, nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}

	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		slog.Error("failed to get expense", "expense_id", expenseID, "error", err)
		return nil, nil, storeError(err)
	}
	ledger, err := s.ownedLedger(ctx, expense.LedgerID)
	if err != nil {
		return nil, nil, err
	}
	return expense, ledger, nil
}

// registerPayer adds payer to the ledger's participants if missing.
func (s *LedgerService) registerPayer(ctx context.Context, ledger *models.Ledger, payer string) error {
	if ledger.HasParticipant(payer) {
		return nil
	}
	if err := s.store.AddParticipants(ctx, ledger.ID, []string{payer}); err != nil {
		slog.Error("failed to register payer", "ledger_id", ledger.ID, "payer", payer, "error", err)
		return storeError(err)
	}
	ledger.Participants = append(ledger.Participants, payer)
	slog.Info("Auto-registered payer as participant", "ledger_id", ledger.ID, "payer", payer)
	return nil
}

// expenseFields validates the editable fields shared by AddExpense and UpdateExpense.
func expenseFields(payer string, amount decimal.Decimal, category string) (string, models.Category, error) {
	payer = strings.TrimSpace(payer)
	if payer == "" {
		return "", "", connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("payer: %w", settlement.ErrEmptyParticipant))
	}
	if err := checkAmount(amount); err != nil {
		return "", "", connect.NewError(connect.CodeInvalidArgument, err)
	}
	cat, err := models.ParseCategory(category)
	if err != nil {
		return "", "", connect.NewError(connect.CodeInvalidArgument, err)
	}
	return payer, cat, nil
}

// CreateLedger creates a new ledger owned by the caller.
func (s *LedgerService) CreateLedger(ctx context.Context, req *connect.Request[api.CreateLedgerRequest]) (*connect.Response[api.CreateLedgerResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalid("name required")
	}
	participants, err := cleanNames(req.Msg.Participants)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	ledger := &models.Ledger{
		Name:         name,
		OwnerID:      userID,
		Participants: participants,
	}
	if req.Msg.Budget != nil {
		if err := checkAmount(*req.Msg.Budget); err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("budget: %w", err))
		}
		ledger.Budget = decimal.NewNullDecimal(*req.Msg.Budget)
	}

	if err := s.store.CreateLedger(ctx, ledger); err != nil {
		slog.Error("CreateLedger failed", "error", err)
		return nil, storeError(err)
	}
	slog.Info("Ledger created", "ledger_id", ledger.ID, "participants", len(ledger.Participants))

	return connect.NewResponse(&api.CreateLedgerResponse{Ledger: toAPILedger(ledger)}), nil
}

// GetLedger retrieves one of the caller's ledgers.
func (s *LedgerService) GetLedger(ctx context.Context, req *connect.Request[api.GetLedgerRequest]) (*connect.Response[api.GetLedgerResponse], error) {
	ledger, err := s.ownedLedger(ctx, req.Msg.LedgerID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetLedgerResponse{Ledger: toAPILedger(ledger)}), nil
}

// ListLedgers returns the caller's ledgers, newest first.
func (s *LedgerService) ListLedgers(ctx context.Context, req *connect.Request[api.ListLedgersRequest]) (*connect.Response[api.ListLedgersResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}

	ledgers, err := s.store.ListLedgersByOwner(ctx, userID)
	if err != nil {
		slog.Error("ListLedgers failed", "user_id", userID, "error", err)
		return nil, storeError(err)
	}

	out := make([]*api.Ledger, len(ledgers))
	for i, l := range ledgers {
		out[i] = toAPILedger(l)
	}
	return connect.NewResponse(&api.ListLedgersResponse{Ledgers: out}), nil
}

// DeleteLedger removes a ledger and its expenses.
func (s *LedgerService) DeleteLedger(ctx context.Context, req *connect.Request[api.DeleteLedgerRequest]) (*connect.Response[api.DeleteLedgerResponse], error) {
	ledger, err := s.ownedLedger(ctx, req.Msg.LedgerID)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteLedger(ctx, ledger.ID); err != nil {
		slog.Error("DeleteLedger failed", "ledger_id", ledger.ID, "error", err)
		return nil, storeError(err)
	}
	slog.Info("Ledger deleted", "ledger_id", ledger.ID)
	return connect.NewResponse(&api.DeleteLedgerResponse{}), nil
}

// AddParticipant adds a name to the ledger. Adding an existing name is a no-op.
func (s *LedgerService) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	ledger, err := s.ownedLedger(ctx, req.Msg.LedgerID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, settlement.ErrEmptyParticipant)
	}

	if !ledger.HasParticipant(name) {
		if err := s.store.AddParticipants(ctx, ledger.ID, []string{name}); err != nil {
			slog.Error("AddParticipant failed", "ledger_id", ledger.ID, "error", err)
			return nil, storeError(err)
		}
		ledger.Participants = append(ledger.Participants, name)
	}
	return connect.NewResponse(&api.AddParticipantResponse{Ledger: toAPILedger(ledger)}), nil
}

// SetBudget sets or clears the ledger budget.
func (s *LedgerService) SetBudget(ctx context.Context, req *connect.Request[api.SetBudgetRequest]) (*connect.Response[api.SetBudgetResponse], error) {
	ledger, err := s.ownedLedger(ctx, req.Msg.LedgerID)
	if err != nil {
		return nil, err
	}

	ledger.Budget = decimal.NullDecimal{}
	if req.Msg.Budget != nil {
		if err := checkAmount(*req.Msg.Budget); err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("budget: %w", err))
		}
		ledger.Budget = decimal.NewNullDecimal(*req.Msg.Budget)
	}

	if err := s.store.UpdateLedger(ctx, ledger); err != nil {
		slog.Error("SetBudget failed", "ledger_id", ledger.ID, "error", err)
		return nil, storeError(err)
	}
	return connect.NewResponse(&api.SetBudgetResponse{Ledger: toAPILedger(ledger)}), nil
}

// AddExpense records an expense. A payer not yet on the ledger is added
// as a participant.
func (s *LedgerService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	ledger, err := s.ownedLedger(ctx, req.Msg.LedgerID)
	if err != nil {
		return nil, err
	}
	payer, category, err := expenseFields(req.Msg.Payer, req.Msg.Amount, req.Msg.Category)
	if err != nil {
		return nil, err
	}

	if err := s.registerPayer(ctx, ledger, payer); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		LedgerID:    ledger.ID,
		Payer:       payer,
		Amount:      req.Msg.Amount,
		Category:    category,
		Description: strings.TrimSpace(req.Msg.Description),
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("AddExpense failed", "ledger_id", ledger.ID, "error", err)
		return nil, storeError(err)
	}

	slog.Debug("Expense added",
		"ledger_id", ledger.ID,
		"expense_id", expense.ID,
		"payer", payer,
		"amount", expense.Amount.String(),
		"category", category,
	)
	return connect.NewResponse(&api.AddExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// UpdateExpense replaces an expense's payer, amount, category and description.
func (s *LedgerService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	expense, ledger, err := s.ownedExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, err
	}
	payer, category, err := expenseFields(req.Msg.Payer, req.Msg.Amount, req.Msg.Category)
	if err != nil {
		return nil, err
	}

	if err := s.registerPayer(ctx, ledger, payer); err != nil {
		return nil, err
	}

	expense.Payer = payer
	expense.Amount = req.Msg.Amount
	expense.Category = category
	expense.Description = strings.TrimSpace(req.Msg.Description)
	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		slog.Error("UpdateExpense failed", "expense_id", expense.ID, "error", err)
		return nil, storeError(err)
	}
	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// DeleteExpense removes an expense.
func (s *LedgerService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	expense, _, err := s.ownedExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteExpense(ctx, expense.ID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", expense.ID, "error", err)
		return nil, storeError(err)
	}
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// ListExpenses lists a ledger's expenses, optionally filtered by payer and category.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	ledger, err := s.ownedLedger(ctx, req.Msg.LedgerID)
	if err != nil {
		return nil, err
	}

	filter := models.ExpenseFilter{Payer: strings.TrimSpace(req.Msg.Payer)}
	if req.Msg.Category != "" {
		cat, err := models.ParseCategory(req.Msg.Category)
		if err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		filter.Category = cat
	}

	expenses, err := s.store.ListExpenses(ctx, ledger.ID, filter)
	if err != nil {
		slog.Error("ListExpenses failed", "ledger_id", ledger.ID, "error", err)
		return nil, storeError(err)
	}

	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// GetSummary reports total spend, the per-person share, budget progress
// and current balances.
func (s *LedgerService) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	ledger, err := s.ownedLedger(ctx, req.Msg.LedgerID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, ledger.ID, models.ExpenseFilter{})
	if err != nil {
		slog.Error("GetSummary failed", "ledger_id", ledger.ID, "error", err)
		return nil, storeError(err)
	}

	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}

	resp := &api.GetSummaryResponse{
		TotalSpent:   money(total),
		PerPerson:    decimal.Zero,
		ExpenseCount: len(expenses),
		Balances:     []*api.Balance{},
	}
	if len(ledger.Participants) > 0 {
		resp.PerPerson = money(total.Div(decimal.NewFromInt(int64(len(ledger.Participants)))))

		balances, err := settlement.ComputeBalances(toEngineExpenses(expenses), ledger.Participants)
		if err != nil {
			slog.Error("GetSummary balance computation failed", "ledger_id", ledger.ID, "error", err)
			return nil, connect.NewError(connect.CodeInternal, err)
		}
		resp.Balances = toAPIBalances(balances)
	}
	if ledger.Budget.Valid {
		budget := ledger.Budget.Decimal
		resp.Budget = &budget
		if budget.IsPositive() {
			progress := money(total.Mul(hundred).Div(budget))
			resp.BudgetProgressPercent = &progress
		}
	}

	return connect.NewResponse(resp), nil
}

// GetSettlement computes the transfers that settle the ledger right now.
func (s *LedgerService) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	ledger, err := s.ownedLedger(ctx, req.Msg.LedgerID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, ledger.ID, models.ExpenseFilter{})
	if err != nil {
		slog.Error("GetSettlement failed", "ledger_id", ledger.ID, "error", err)
		return nil, storeError(err)
	}

	result, err := settlement.Settle(toEngineExpenses(expenses), ledger.Participants)
	s.metrics.ObserveSettlement(transferCount(result), err)
	if err != nil {
		slog.Warn("GetSettlement rejected", "ledger_id", ledger.ID, "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, settleError(err))
	}

	slog.Info("GetSettlement successful",
		"ledger_id", ledger.ID,
		"expenses_count", len(expenses),
		"participants_count", len(result.Balances),
		"transfers_count", len(result.Transfers),
	)

	return connect.NewResponse(&api.GetSettlementResponse{
		Balances:  toAPIBalances(result.Balances),
		Transfers: toAPITransfers(result.Transfers),
	}), nil
}

func transferCount(r *settlement.Result) int {
	if r == nil {
		return 0
	}
	return len(r.Transfers)
}
