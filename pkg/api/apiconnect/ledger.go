package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService.
const LedgerServiceName = "settleup.v1.LedgerService"

// Procedure paths for LedgerService.
const (
	LedgerServiceCreateLedgerProcedure   = "/settleup.v1.LedgerService/CreateLedger"
	LedgerServiceGetLedgerProcedure      = "/settleup.v1.LedgerService/GetLedger"
	LedgerServiceListLedgersProcedure    = "/settleup.v1.LedgerService/ListLedgers"
	LedgerServiceDeleteLedgerProcedure   = "/settleup.v1.LedgerService/DeleteLedger"
	LedgerServiceAddParticipantProcedure = "/settleup.v1.LedgerService/AddParticipant"
	LedgerServiceSetBudgetProcedure      = "/settleup.v1.LedgerService/SetBudget"
	LedgerServiceAddExpenseProcedure     = "/settleup.v1.LedgerService/AddExpense"
	LedgerServiceUpdateExpenseProcedure  = "/settleup.v1.LedgerService/UpdateExpense"
	LedgerServiceDeleteExpenseProcedure  = "/settleup.v1.LedgerService/DeleteExpense"
	LedgerServiceListExpensesProcedure   = "/settleup.v1.LedgerService/ListExpenses"
	LedgerServiceGetSummaryProcedure     = "/settleup.v1.LedgerService/GetSummary"
	LedgerServiceGetSettlementProcedure  = "/settleup.v1.LedgerService/GetSettlement"
)

// LedgerServiceHandler is implemented by the ledger service.
type LedgerServiceHandler interface {
	CreateLedger(context.Context, *connect.Request[api.CreateLedgerRequest]) (*connect.Response[api.CreateLedgerResponse], error)
	GetLedger(context.Context, *connect.Request[api.GetLedgerRequest]) (*connect.Response[api.GetLedgerResponse], error)
	ListLedgers(context.Context, *connect.Request[api.ListLedgersRequest]) (*connect.Response[api.ListLedgersResponse], error)
	DeleteLedger(context.Context, *connect.Request[api.DeleteLedgerRequest]) (*connect.Response[api.DeleteLedgerResponse], error)
	AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error)
	SetBudget(context.Context, *connect.Request[api.SetBudgetRequest]) (*connect.Response[api.SetBudgetResponse], error)
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error)
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler for svc and returns the
// path prefix to mount it on.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	handle(mux, LedgerServiceCreateLedgerProcedure, svc.CreateLedger, opts)
	handle(mux, LedgerServiceGetLedgerProcedure, svc.GetLedger, opts)
	handle(mux, LedgerServiceListLedgersProcedure, svc.ListLedgers, opts)
	handle(mux, LedgerServiceDeleteLedgerProcedure, svc.DeleteLedger, opts)
	handle(mux, LedgerServiceAddParticipantProcedure, svc.AddParticipant, opts)
	handle(mux, LedgerServiceSetBudgetProcedure, svc.SetBudget, opts)
	handle(mux, LedgerServiceAddExpenseProcedure, svc.AddExpense, opts)
	handle(mux, LedgerServiceUpdateExpenseProcedure, svc.UpdateExpense, opts)
	handle(mux, LedgerServiceDeleteExpenseProcedure, svc.DeleteExpense, opts)
	handle(mux, LedgerServiceListExpensesProcedure, svc.ListExpenses, opts)
	handle(mux, LedgerServiceGetSummaryProcedure, svc.GetSummary, opts)
	handle(mux, LedgerServiceGetSettlementProcedure, svc.GetSettlement, opts)
	return "/" + LedgerServiceName + "/", mux
}

// LedgerServiceClient is a client for the ledger service.
type LedgerServiceClient interface {
	LedgerServiceHandler
}

// NewLedgerServiceClient returns a client for the service at baseURL
// (e.g., http://localhost:8080).
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	opts = clientOptions(opts)
	return &ledgerServiceClient{
		createLedger:   newClient[api.CreateLedgerRequest, api.CreateLedgerResponse](httpClient, baseURL, LedgerServiceCreateLedgerProcedure, opts),
		getLedger:      newClient[api.GetLedgerRequest, api.GetLedgerResponse](httpClient, baseURL, LedgerServiceGetLedgerProcedure, opts),
		listLedgers:    newClient[api.ListLedgersRequest, api.ListLedgersResponse](httpClient, baseURL, LedgerServiceListLedgersProcedure, opts),
		deleteLedger:   newClient[api.DeleteLedgerRequest, api.DeleteLedgerResponse](httpClient, baseURL, LedgerServiceDeleteLedgerProcedure, opts),
		addParticipant: newClient[api.AddParticipantRequest, api.AddParticipantResponse](httpClient, baseURL, LedgerServiceAddParticipantProcedure, opts),
		setBudget:      newClient[api.SetBudgetRequest, api.SetBudgetResponse](httpClient, baseURL, LedgerServiceSetBudgetProcedure, opts),
		addExpense:     newClient[api.AddExpenseRequest, api.AddExpenseResponse](httpClient, baseURL, LedgerServiceAddExpenseProcedure, opts),
		updateExpense:  newClient[api.UpdateExpenseRequest, api.UpdateExpenseResponse](httpClient, baseURL, LedgerServiceUpdateExpenseProcedure, opts),
		deleteExpense:  newClient[api.DeleteExpenseRequest, api.DeleteExpenseResponse](httpClient, baseURL, LedgerServiceDeleteExpenseProcedure, opts),
		listExpenses:   newClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL, LedgerServiceListExpensesProcedure, opts),
		getSummary:     newClient[api.GetSummaryRequest, api.GetSummaryResponse](httpClient, baseURL, LedgerServiceGetSummaryProcedure, opts),
		getSettlement:  newClient[api.GetSettlementRequest, api.GetSettlementResponse](httpClient, baseURL, LedgerServiceGetSettlementProcedure, opts),
	}
}

type ledgerServiceClient struct {
	createLedger   *connect.Client[api.CreateLedgerRequest, api.CreateLedgerResponse]
	getLedger      *connect.Client[api.GetLedgerRequest, api.GetLedgerResponse]
	listLedgers    *connect.Client[api.ListLedgersRequest, api.ListLedgersResponse]
	deleteLedger   *connect.Client[api.DeleteLedgerRequest, api.DeleteLedgerResponse]
	addParticipant *connect.Client[api.AddParticipantRequest, api.AddParticipantResponse]
	setBudget      *connect.Client[api.SetBudgetRequest, api.SetBudgetResponse]
	addExpense     *connect.Client[api.AddExpenseRequest, api.AddExpenseResponse]
	updateExpense  *connect.Client[api.UpdateExpenseRequest, api.UpdateExpenseResponse]
	deleteExpense  *connect.Client[api.DeleteExpenseRequest, api.DeleteExpenseResponse]
	listExpenses   *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	getSummary     *connect.Client[api.GetSummaryRequest, api.GetSummaryResponse]
	getSettlement  *connect.Client[api.GetSettlementRequest, api.GetSettlementResponse]
}

func (c *ledgerServiceClient) CreateLedger(ctx context.Context, req *connect.Request[api.CreateLedgerRequest]) (*connect.Response[api.CreateLedgerResponse], error) {
	return c.createLedger.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetLedger(ctx context.Context, req *connect.Request[api.GetLedgerRequest]) (*connect.Response[api.GetLedgerResponse], error) {
	return c.getLedger.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListLedgers(ctx context.Context, req *connect.Request[api.ListLedgersRequest]) (*connect.Response[api.ListLedgersResponse], error) {
	return c.listLedgers.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeleteLedger(ctx context.Context, req *connect.Request[api.DeleteLedgerRequest]) (*connect.Response[api.DeleteLedgerResponse], error) {
	return c.deleteLedger.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	return c.addParticipant.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) SetBudget(ctx context.Context, req *connect.Request[api.SetBudgetRequest]) (*connect.Response[api.SetBudgetResponse], error) {
	return c.setBudget.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	return c.getSummary.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	return c.getSettlement.CallUnary(ctx, req)
}
