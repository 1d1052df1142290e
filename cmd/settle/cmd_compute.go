package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/settleup/internal/settlement"
	"github.com/mmynk/settleup/internal/sheet"
	"github.com/mmynk/settleup/pkg/api"
)

const (
	formatText = "text"
	formatJSON = "json"
)

var errUnsettled = errors.New("transfers leave balances unsettled")

func newComputeCmd() *cobra.Command {
	var (
		format string
		verify bool
	)

	cmd := &cobra.Command{
		Use:   "compute <sheet>",
		Short: "Print balances and the transfers that settle them",
		Long: `Reads a YAML or JSON expense sheet ("-" for stdin), splits the total
equally and prints who pays whom. The largest debtor always pays the
largest creditor first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			res, err := settleSheet(args[0])
			if err != nil {
				return err
			}
			if verify {
				if err := verifyResult(res); err != nil {
					return err
				}
				slog.Debug("Settlement verified", "transfers", len(res.Transfers))
			}

			out := cmd.OutOrStdout()
			if format == formatJSON {
				return writeJSON(out, toResponse(res, true))
			}
			writeSummary(out, res)
			writeBalances(out, res.Balances)
			writeTransfers(out, res.Transfers)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text or json")
	cmd.Flags().BoolVar(&verify, "verify", false, "Replay the transfers and fail if any balance is left unsettled")
	return cmd
}

func newBalancesCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "balances <sheet>",
		Short: "Print each participant's net balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			res, err := settleSheet(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == formatJSON {
				return writeJSON(out, toResponse(res, false))
			}
			writeSummary(out, res)
			writeBalances(out, res.Balances)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text or json")
	return cmd
}

func checkFormat(format string) error {
	if format != formatText && format != formatJSON {
		return fmt.Errorf("unknown format %q (want %s or %s)", format, formatText, formatJSON)
	}
	return nil
}

func settleSheet(path string) (*settlement.Result, error) {
	s, err := sheet.Load(path)
	if err != nil {
		return nil, err
	}
	slog.Debug("Sheet loaded", "path", path, "participants", len(s.Participants), "expenses", len(s.Expenses))

	res, err := s.Settle()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

func verifyResult(res *settlement.Result) error {
	for _, bal := range settlement.Apply(res.Balances, res.Transfers) {
		if !settlement.IsSettled(bal.Net) {
			return fmt.Errorf("%w: %s has %s", errUnsettled, bal.Participant, settlement.FormatAmount(bal.Net))
		}
	}
	return nil
}

func writeSummary(w io.Writer, res *settlement.Result) {
	fmt.Fprintf(w, "Total: %s  Fair share: %s\n",
		settlement.FormatAmount(res.Total),
		settlement.FormatAmount(res.FairShare),
	)
}

func writeBalances(w io.Writer, balances settlement.Balances) {
	fmt.Fprintln(w, "\nBalances:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, bal := range balances {
		sign := ""
		if bal.Net.IsPositive() {
			sign = "+"
		}
		fmt.Fprintf(tw, "  %s\t%s%s\t\n", bal.Participant, sign, settlement.FormatAmount(bal.Net))
	}
	tw.Flush()
}

func writeTransfers(w io.Writer, transfers []settlement.Transfer) {
	fmt.Fprintln(w, "\nTransfers:")
	if len(transfers) == 0 {
		fmt.Fprintln(w, "  Everyone is settled up.")
		return
	}
	for _, t := range transfers {
		fmt.Fprintf(w, "  %s -> %s: %s\n", t.From, t.To, settlement.FormatAmount(t.Amount))
	}
}

// toResponse renders a result in the SettleService wire shape.
func toResponse(res *settlement.Result, withTransfers bool) *api.SettleResponse {
	resp := &api.SettleResponse{
		Balances:  make([]*api.Balance, len(res.Balances)),
		Total:     res.Total.Round(2),
		FairShare: res.FairShare.Round(2),
	}
	for i, b := range res.Balances {
		resp.Balances[i] = &api.Balance{Participant: b.Participant, Net: b.Net.Round(2)}
	}
	if withTransfers {
		resp.Transfers = make([]*api.Transfer, len(res.Transfers))
		for i, t := range res.Transfers {
			resp.Transfers[i] = &api.Transfer{From: t.From, To: t.To, Amount: t.Amount.Round(2)}
		}
	}
	return resp
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
