package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/metrics"
	"github.com/mmynk/settleup/internal/settlement"
	"github.com/mmynk/settleup/pkg/api"
	"github.com/mmynk/settleup/pkg/api/apiconnect"
)

var _ apiconnect.SettleServiceHandler = (*SettleService)(nil)

// SettleService settles an inline list of expenses without touching storage.
type SettleService struct {
	metrics *metrics.Metrics
}

// NewSettleService creates a SettleService. m may be nil.
func NewSettleService(m *metrics.Metrics) *SettleService {
	return &SettleService{metrics: m}
}

// Settle computes balances and the greedy transfer list for the request.
func (s *SettleService) Settle(ctx context.Context, req *connect.Request[api.SettleRequest]) (*connect.Response[api.SettleResponse], error) {
	slog.Debug("Settle request received",
		"participants_count", len(req.Msg.Participants),
		"expenses_count", len(req.Msg.Expenses),
	)

	expenses := make([]settlement.Expense, 0, len(req.Msg.Expenses))
	for i, e := range req.Msg.Expenses {
		if e == nil {
			return nil, invalid("expense %d: missing", i)
		}
		expenses = append(expenses, settlement.Expense{
			Payer:       e.Payer,
			Amount:      e.Amount,
			Category:    e.Category,
			Description: e.Description,
		})
	}

	result, err := settlement.Settle(expenses, req.Msg.Participants)
	s.metrics.ObserveSettlement(transferCount(result), err)
	if err != nil {
		slog.Warn("Settle rejected", "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, settleError(err))
	}

	slog.Info("Settle successful",
		"participants_count", len(result.Balances),
		"transfers_count", len(result.Transfers),
		"total", result.Total.String(),
	)

	return connect.NewResponse(&api.SettleResponse{
		Balances:  toAPIBalances(result.Balances),
		Transfers: toAPITransfers(result.Transfers),
		Total:     money(result.Total),
		FairShare: money(result.FairShare),
	}), nil
}

// settleError adds a hint for the one engine error a caller can most easily fix.
func settleError(err error) error {
	if errors.Is(err, settlement.ErrEmptyParticipantSet) {
		return fmt.Errorf("participants required: %w", err)
	}
	return err
}
