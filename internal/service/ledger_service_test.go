package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settleup/internal/metrics"
	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/storage/sqlite"
	"github.com/mmynk/settleup/pkg/api"
	"github.com/mmynk/settleup/pkg/api/apiconnect"
)

const testUserHeader = "X-Test-User"

// testAuthInterceptor puts the user named in the X-Test-User header into
// the context, standing in for RequireAuth.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if user := req.Header().Get(testUserHeader); user != "" {
				ctx = middleware.WithUser(ctx, user, user+"@example.com")
			}
			return next(ctx, req)
		}
	}
}

type testServer struct {
	ledgers apiconnect.LedgerServiceClient
	settle  apiconnect.SettleServiceClient
	metrics *metrics.Metrics
}

// setupTestServer serves LedgerService and SettleService over httptest
// with a SQLite database in a temp dir.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")

	m := metrics.New()
	interceptors := connect.WithInterceptors(testAuthInterceptor())

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewLedgerServiceHandler(NewLedgerService(store, m), interceptors))
	mux.Handle(apiconnect.NewSettleServiceHandler(NewSettleService(m)))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testServer{
		ledgers: apiconnect.NewLedgerServiceClient(server.Client(), server.URL),
		settle:  apiconnect.NewSettleServiceClient(server.Client(), server.URL),
		metrics: m,
	}
}

// as builds a request sent on behalf of user.
func as[T any](user string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if user != "" {
		req.Header().Set(testUserHeader, user)
	}
	return req
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, connect.CodeOf(err), "error: %v", err)
}

func createLedger(t *testing.T, ts *testServer, user, name string, participants ...string) *api.Ledger {
	t.Helper()
	resp, err := ts.ledgers.CreateLedger(context.Background(), as(user, &api.CreateLedgerRequest{
		Name:         name,
		Participants: participants,
	}))
	require.NoError(t, err)
	return resp.Msg.Ledger
}

func addExpense(t *testing.T, ts *testServer, user, ledgerID, payer, amount, category string) *api.Expense {
	t.Helper()
	resp, err := ts.ledgers.AddExpense(context.Background(), as(user, &api.AddExpenseRequest{
		LedgerID: ledgerID,
		Payer:    payer,
		Amount:   amt(amount),
		Category: category,
	}))
	require.NoError(t, err)
	return resp.Msg.Expense
}

func TestLedgerService_CreateAndGet(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	created, err := ts.ledgers.CreateLedger(ctx, as("alice", &api.CreateLedgerRequest{
		Name:         "  Lisbon  ",
		Participants: []string{" Alice", "Bob ", "Alice"},
		Budget:       ptr(amt("300")),
	}))
	require.NoError(t, err)

	ledger := created.Msg.Ledger
	assert.NotEmpty(t, ledger.ID)
	assert.Equal(t, "Lisbon", ledger.Name)
	assert.Equal(t, []string{"Alice", "Bob"}, ledger.Participants)
	require.NotNil(t, ledger.Budget)
	assert.True(t, ledger.Budget.Equal(amt("300")))

	got, err := ts.ledgers.GetLedger(ctx, as("alice", &api.GetLedgerRequest{LedgerID: ledger.ID}))
	require.NoError(t, err)
	assert.Equal(t, ledger.ID, got.Msg.Ledger.ID)
	assert.Equal(t, []string{"Alice", "Bob"}, got.Msg.Ledger.Participants)
}

func TestLedgerService_Validation(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		code connect.Code
	}{
		{
			name: "anonymous create",
			call: func() error {
				_, err := ts.ledgers.CreateLedger(ctx, as("", &api.CreateLedgerRequest{Name: "x"}))
				return err
			},
			code: connect.CodeUnauthenticated,
		},
		{
			name: "blank name",
			call: func() error {
				_, err := ts.ledgers.CreateLedger(ctx, as("alice", &api.CreateLedgerRequest{Name: "  "}))
				return err
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "blank participant",
			call: func() error {
				_, err := ts.ledgers.CreateLedger(ctx, as("alice", &api.CreateLedgerRequest{Name: "x", Participants: []string{"A", " "}}))
				return err
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "negative budget",
			call: func() error {
				_, err := ts.ledgers.CreateLedger(ctx, as("alice", &api.CreateLedgerRequest{Name: "x", Budget: ptr(amt("-1"))}))
				return err
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "missing ledger id",
			call: func() error {
				_, err := ts.ledgers.GetLedger(ctx, as("alice", &api.GetLedgerRequest{}))
				return err
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "unknown ledger",
			call: func() error {
				_, err := ts.ledgers.GetLedger(ctx, as("alice", &api.GetLedgerRequest{LedgerID: "nope"}))
				return err
			},
			code: connect.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertCode(t, tt.call(), tt.code)
		})
	}
}

func TestLedgerService_Ownership(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	ledger := createLedger(t, ts, "alice", "Private", "Alice", "Bob")
	expense := addExpense(t, ts, "alice", ledger.ID, "Alice", "10", "")

	_, err := ts.ledgers.GetLedger(ctx, as("mallory", &api.GetLedgerRequest{LedgerID: ledger.ID}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = ts.ledgers.AddExpense(ctx, as("mallory", &api.AddExpenseRequest{LedgerID: ledger.ID, Payer: "M", Amount: amt("1")}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = ts.ledgers.DeleteExpense(ctx, as("mallory", &api.DeleteExpenseRequest{ExpenseID: expense.ID}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = ts.ledgers.GetSettlement(ctx, as("mallory", &api.GetSettlementRequest{LedgerID: ledger.ID}))
	assertCode(t, err, connect.CodePermissionDenied)

	list, err := ts.ledgers.ListLedgers(ctx, as("mallory", &api.ListLedgersRequest{}))
	require.NoError(t, err)
	assert.Empty(t, list.Msg.Ledgers)
}

func TestLedgerService_ListAndDelete(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	first := createLedger(t, ts, "alice", "First", "A")
	second := createLedger(t, ts, "alice", "Second", "A")
	createLedger(t, ts, "bob", "Bob's", "B")

	list, err := ts.ledgers.ListLedgers(ctx, as("alice", &api.ListLedgersRequest{}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Ledgers, 2)
	assert.Equal(t, second.ID, list.Msg.Ledgers[0].ID)
	assert.Equal(t, first.ID, list.Msg.Ledgers[1].ID)

	_, err = ts.ledgers.DeleteLedger(ctx, as("alice", &api.DeleteLedgerRequest{LedgerID: first.ID}))
	require.NoError(t, err)

	_, err = ts.ledgers.GetLedger(ctx, as("alice", &api.GetLedgerRequest{LedgerID: first.ID}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestLedgerService_Participants(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	ledger := createLedger(t, ts, "alice", "Flat", "Alice")

	resp, err := ts.ledgers.AddParticipant(ctx, as("alice", &api.AddParticipantRequest{LedgerID: ledger.ID, Name: " Bob "}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, resp.Msg.Ledger.Participants)

	// Adding again is a no-op.
	resp, err = ts.ledgers.AddParticipant(ctx, as("alice", &api.AddParticipantRequest{LedgerID: ledger.ID, Name: "Bob"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, resp.Msg.Ledger.Participants)

	_, err = ts.ledgers.AddParticipant(ctx, as("alice", &api.AddParticipantRequest{LedgerID: ledger.ID, Name: ""}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestLedgerService_Expenses(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	ledger := createLedger(t, ts, "alice", "Trip", "Alice", "Bob")

	t.Run("category defaults to Other", func(t *testing.T) {
		e := addExpense(t, ts, "alice", ledger.ID, "Alice", "12.50", "")
		assert.Equal(t, "Other", e.Category)
		assert.Equal(t, "12.5", e.Amount.String())
	})

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := ts.ledgers.AddExpense(ctx, as("alice", &api.AddExpenseRequest{LedgerID: ledger.ID, Payer: "", Amount: amt("1")}))
		assertCode(t, err, connect.CodeInvalidArgument)

		_, err = ts.ledgers.AddExpense(ctx, as("alice", &api.AddExpenseRequest{LedgerID: ledger.ID, Payer: "Alice", Amount: amt("-1")}))
		assertCode(t, err, connect.CodeInvalidArgument)

		_, err = ts.ledgers.AddExpense(ctx, as("alice", &api.AddExpenseRequest{LedgerID: ledger.ID, Payer: "Alice", Amount: amt("1"), Category: "Gadgets"}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("unknown payer joins the ledger", func(t *testing.T) {
		addExpense(t, ts, "alice", ledger.ID, "Carol", "30", "Food")

		got, err := ts.ledgers.GetLedger(ctx, as("alice", &api.GetLedgerRequest{LedgerID: ledger.ID}))
		require.NoError(t, err)
		assert.Equal(t, []string{"Alice", "Bob", "Carol"}, got.Msg.Ledger.Participants)
	})

	t.Run("update and delete", func(t *testing.T) {
		e := addExpense(t, ts, "alice", ledger.ID, "Bob", "8", "Transportation")

		updated, err := ts.ledgers.UpdateExpense(ctx, as("alice", &api.UpdateExpenseRequest{
			ExpenseID:   e.ID,
			Payer:       "Dave",
			Amount:      amt("9.99"),
			Category:    "Entertainment",
			Description: "Cinema",
		}))
		require.NoError(t, err)
		assert.Equal(t, "Dave", updated.Msg.Expense.Payer)
		assert.Equal(t, "Entertainment", updated.Msg.Expense.Category)

		got, err := ts.ledgers.GetLedger(ctx, as("alice", &api.GetLedgerRequest{LedgerID: ledger.ID}))
		require.NoError(t, err)
		assert.Contains(t, got.Msg.Ledger.Participants, "Dave")

		_, err = ts.ledgers.DeleteExpense(ctx, as("alice", &api.DeleteExpenseRequest{ExpenseID: e.ID}))
		require.NoError(t, err)

		_, err = ts.ledgers.DeleteExpense(ctx, as("alice", &api.DeleteExpenseRequest{ExpenseID: e.ID}))
		assertCode(t, err, connect.CodeNotFound)

		_, err = ts.ledgers.UpdateExpense(ctx, as("alice", &api.UpdateExpenseRequest{ExpenseID: "", Payer: "A", Amount: amt("1")}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("list with filters", func(t *testing.T) {
		all, err := ts.ledgers.ListExpenses(ctx, as("alice", &api.ListExpensesRequest{LedgerID: ledger.ID}))
		require.NoError(t, err)
		assert.Len(t, all.Msg.Expenses, 2)

		food, err := ts.ledgers.ListExpenses(ctx, as("alice", &api.ListExpensesRequest{LedgerID: ledger.ID, Category: "Food"}))
		require.NoError(t, err)
		require.Len(t, food.Msg.Expenses, 1)
		assert.Equal(t, "Carol", food.Msg.Expenses[0].Payer)

		byAlice, err := ts.ledgers.ListExpenses(ctx, as("alice", &api.ListExpensesRequest{LedgerID: ledger.ID, Payer: "Alice"}))
		require.NoError(t, err)
		require.Len(t, byAlice.Msg.Expenses, 1)

		_, err = ts.ledgers.ListExpenses(ctx, as("alice", &api.ListExpensesRequest{LedgerID: ledger.ID, Category: "Nope"}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})
}

func TestLedgerService_GetSummary(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	t.Run("with budget", func(t *testing.T) {
		ledger := createLedger(t, ts, "alice", "Trip", "Alice", "Bob", "Carol")
		_, err := ts.ledgers.SetBudget(ctx, as("alice", &api.SetBudgetRequest{LedgerID: ledger.ID, Budget: ptr(amt("400"))}))
		require.NoError(t, err)

		addExpense(t, ts, "alice", ledger.ID, "Alice", "60", "Food")
		addExpense(t, ts, "alice", ledger.ID, "Bob", "40", "")

		resp, err := ts.ledgers.GetSummary(ctx, as("alice", &api.GetSummaryRequest{LedgerID: ledger.ID}))
		require.NoError(t, err)

		sum := resp.Msg
		assert.Equal(t, "100", sum.TotalSpent.String())
		assert.Equal(t, "33.33", sum.PerPerson.String())
		assert.Equal(t, 2, sum.ExpenseCount)
		require.NotNil(t, sum.Budget)
		require.NotNil(t, sum.BudgetProgressPercent)
		assert.Equal(t, "25", sum.BudgetProgressPercent.String())

		require.Len(t, sum.Balances, 3)
		assert.Equal(t, "Alice", sum.Balances[0].Participant)
		assert.Equal(t, "26.67", sum.Balances[0].Net.String())
		assert.Equal(t, "6.67", sum.Balances[1].Net.String())
		assert.Equal(t, "-33.33", sum.Balances[2].Net.String())
	})

	t.Run("without budget or participants", func(t *testing.T) {
		ledger := createLedger(t, ts, "alice", "Empty")

		resp, err := ts.ledgers.GetSummary(ctx, as("alice", &api.GetSummaryRequest{LedgerID: ledger.ID}))
		require.NoError(t, err)
		assert.True(t, resp.Msg.TotalSpent.IsZero())
		assert.True(t, resp.Msg.PerPerson.IsZero())
		assert.Nil(t, resp.Msg.Budget)
		assert.Nil(t, resp.Msg.BudgetProgressPercent)
		assert.Empty(t, resp.Msg.Balances)
	})

	t.Run("cleared budget", func(t *testing.T) {
		ledger := createLedger(t, ts, "alice", "Budgeted", "A")
		_, err := ts.ledgers.SetBudget(ctx, as("alice", &api.SetBudgetRequest{LedgerID: ledger.ID, Budget: ptr(amt("10"))}))
		require.NoError(t, err)

		cleared, err := ts.ledgers.SetBudget(ctx, as("alice", &api.SetBudgetRequest{LedgerID: ledger.ID}))
		require.NoError(t, err)
		assert.Nil(t, cleared.Msg.Ledger.Budget)

		_, err = ts.ledgers.SetBudget(ctx, as("alice", &api.SetBudgetRequest{LedgerID: ledger.ID, Budget: ptr(amt("-5"))}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("zero budget has no progress", func(t *testing.T) {
		ledger := createLedger(t, ts, "alice", "Zero", "A")
		_, err := ts.ledgers.SetBudget(ctx, as("alice", &api.SetBudgetRequest{LedgerID: ledger.ID, Budget: ptr(decimal.Zero)}))
		require.NoError(t, err)

		resp, err := ts.ledgers.GetSummary(ctx, as("alice", &api.GetSummaryRequest{LedgerID: ledger.ID}))
		require.NoError(t, err)
		require.NotNil(t, resp.Msg.Budget)
		assert.Nil(t, resp.Msg.BudgetProgressPercent)
	})
}

func TestLedgerService_GetSettlement(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	t.Run("one payer covers three", func(t *testing.T) {
		ledger := createLedger(t, ts, "alice", "Dinner", "Alice", "Bob", "Carol")
		addExpense(t, ts, "alice", ledger.ID, "Alice", "90", "Food")

		resp, err := ts.ledgers.GetSettlement(ctx, as("alice", &api.GetSettlementRequest{LedgerID: ledger.ID}))
		require.NoError(t, err)

		want := []api.Transfer{
			{From: "Bob", To: "Alice", Amount: amt("30")},
			{From: "Carol", To: "Alice", Amount: amt("30")},
		}
		require.Len(t, resp.Msg.Transfers, len(want))
		for i, tr := range resp.Msg.Transfers {
			assert.Equal(t, want[i].From, tr.From)
			assert.Equal(t, want[i].To, tr.To)
			assert.True(t, want[i].Amount.Equal(tr.Amount), "transfer %d amount = %s", i, tr.Amount)
		}
		require.Len(t, resp.Msg.Balances, 3)
		assert.Equal(t, "60", resp.Msg.Balances[0].Net.String())
	})

	t.Run("settled ledger has no transfers", func(t *testing.T) {
		ledger := createLedger(t, ts, "alice", "Even", "A", "B")
		addExpense(t, ts, "alice", ledger.ID, "A", "50", "")
		addExpense(t, ts, "alice", ledger.ID, "B", "50", "")

		resp, err := ts.ledgers.GetSettlement(ctx, as("alice", &api.GetSettlementRequest{LedgerID: ledger.ID}))
		require.NoError(t, err)
		assert.Empty(t, resp.Msg.Transfers)
	})

	t.Run("no participants", func(t *testing.T) {
		ledger := createLedger(t, ts, "alice", "Nobody")

		_, err := ts.ledgers.GetSettlement(ctx, as("alice", &api.GetSettlementRequest{LedgerID: ledger.ID}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("runs are counted", func(t *testing.T) {
		assert.Equal(t, 2.0, testutil.ToFloat64(ts.metrics.Settlements.WithLabelValues(metrics.OutcomeOK)))
		assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.Settlements.WithLabelValues(metrics.OutcomeRejected)))
	})
}

func TestSettleService_Settle(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	t.Run("one participant already even", func(t *testing.T) {
		resp, err := ts.settle.Settle(ctx, connect.NewRequest(&api.SettleRequest{
			Participants: []string{"X", "Y", "Z"},
			Expenses: []*api.SettleExpense{
				{Payer: "X", Amount: amt("30")},
				{Payer: "Y", Amount: amt("60")},
			},
		}))
		require.NoError(t, err)

		require.Len(t, resp.Msg.Transfers, 1)
		tr := resp.Msg.Transfers[0]
		assert.Equal(t, "Z", tr.From)
		assert.Equal(t, "Y", tr.To)
		assert.Equal(t, "30", tr.Amount.String())
		assert.Equal(t, "90", resp.Msg.Total.String())
		assert.Equal(t, "30", resp.Msg.FairShare.String())
	})

	t.Run("amounts are rounded to cents", func(t *testing.T) {
		resp, err := ts.settle.Settle(ctx, connect.NewRequest(&api.SettleRequest{
			Participants: []string{"A", "B", "C"},
			Expenses:     []*api.SettleExpense{{Payer: "A", Amount: amt("100")}},
		}))
		require.NoError(t, err)
		assert.Equal(t, "33.33", resp.Msg.FairShare.String())
		for _, tr := range resp.Msg.Transfers {
			assert.Equal(t, "33.33", tr.Amount.String())
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := ts.settle.Settle(ctx, connect.NewRequest(&api.SettleRequest{}))
		assertCode(t, err, connect.CodeInvalidArgument)

		_, err = ts.settle.Settle(ctx, connect.NewRequest(&api.SettleRequest{
			Participants: []string{"A"},
			Expenses:     []*api.SettleExpense{{Payer: "A", Amount: amt("-2")}},
		}))
		assertCode(t, err, connect.CodeInvalidArgument)

		_, err = ts.settle.Settle(ctx, connect.NewRequest(&api.SettleRequest{
			Participants: []string{"A"},
			Expenses:     []*api.SettleExpense{nil},
		}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("runs are counted", func(t *testing.T) {
		assert.Equal(t, 2.0, testutil.ToFloat64(ts.metrics.Settlements.WithLabelValues(metrics.OutcomeOK)))
		assert.Equal(t, 2.0, testutil.ToFloat64(ts.metrics.Settlements.WithLabelValues(metrics.OutcomeRejected)))
	})
}
