package settlement

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Transfer is a payment from a debtor to a creditor.
type Transfer struct {
	From   string
	To     string
	Amount decimal.Decimal
}

// Result bundles a complete settlement run.
type Result struct {
	Balances  Balances
	Transfers []Transfer
	Total     decimal.Decimal
	FairShare decimal.Decimal
}

// ComputeSettlement returns transfers that bring every balance to within
// Epsilon of zero.
//
// Algorithm (greedy debt netting):
//   - Participants with net < -Epsilon are debtors, net > Epsilon creditors.
//     Nonzero balances within Epsilon are held in reserve.
//   - The current largest debtor pays the current largest creditor
//     min(debt, credit). Ties go to whoever comes first in the sheet.
//   - A party is dropped once their remainder is within Epsilon; a nonzero
//     remainder goes back to the reserve.
//   - When one side runs out while the other still holds more than Epsilon,
//     the reserve of the exhausted side joins the matching. Two parties
//     within Epsilon are never matched with each other.
//
// Every transfer zeroes at least one party, so at most len(balances)-1
// transfers are produced. A sheet that does not sum to zero within Epsilon,
// or that lists a participant twice, fails with ErrUnbalancedInput.
func ComputeSettlement(balances Balances) ([]Transfer, error) {
	seen := make(map[string]struct{}, len(balances))
	var debtors, creditors []*party
	// Nonzero balances within Epsilon, matched only when needed.
	var owing, owed []*party
	for i, bal := range balances {
		if bal.Participant == "" {
			return nil, ErrEmptyParticipant
		}
		if _, dup := seen[bal.Participant]; dup {
			return nil, fmt.Errorf("%w: duplicate participant %q", ErrUnbalancedInput, bal.Participant)
		}
		seen[bal.Participant] = struct{}{}

		switch {
		case bal.Net.IsNegative():
			p := &party{participant: bal.Participant, order: i, remaining: bal.Net.Neg()}
			if IsSettled(bal.Net) {
				owing = append(owing, p)
			} else {
				debtors = append(debtors, p)
			}
		case bal.Net.IsPositive():
			p := &party{participant: bal.Participant, order: i, remaining: bal.Net}
			if IsSettled(bal.Net) {
				owed = append(owed, p)
			} else {
				creditors = append(creditors, p)
			}
		}
	}

	if sum := balances.Sum(); !IsSettled(sum) {
		return nil, fmt.Errorf("%w: off by %s", ErrUnbalancedInput, sum)
	}

	transfers := make([]Transfer, 0, len(balances))
	dq := newPartyQueue(debtors)
	cq := newPartyQueue(creditors)
	for {
		for dq.Len() > 0 && cq.Len() > 0 && (dq.open() || cq.open()) {
			debtor, creditor := dq.peek(), cq.peek()
			amount := decimal.Min(debtor.remaining, creditor.remaining)

			transfers = append(transfers, Transfer{
				From:   debtor.participant,
				To:     creditor.participant,
				Amount: amount,
			})

			if p := dq.settle(amount); p != nil && !p.remaining.IsZero() {
				owing = append(owing, p)
			}
			if p := cq.settle(amount); p != nil && !p.remaining.IsZero() {
				owed = append(owed, p)
			}
		}

		switch {
		case cq.open() && len(owing) > 0:
			dq.add(owing)
			owing = nil
		case dq.open() && len(owed) > 0:
			cq.add(owed)
			owed = nil
		default:
			return transfers, nil
		}
	}
}

// Settle computes balances and the settling transfers in one call.
func Settle(expenses []Expense, participants []string) (*Result, error) {
	balances, err := ComputeBalances(expenses, participants)
	if err != nil {
		return nil, err
	}
	transfers, err := ComputeSettlement(balances)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, exp := range expenses {
		total = total.Add(exp.Amount)
	}

	return &Result{
		Balances:  balances,
		Transfers: transfers,
		Total:     total,
		FairShare: total.Div(decimal.NewFromInt(int64(len(balances)))),
	}, nil
}

// Apply returns a copy of balances with transfers applied: the payer's net
// rises and the receiver's falls. Participants not in balances are appended.
func Apply(balances Balances, transfers []Transfer) Balances {
	out := make(Balances, len(balances), len(balances)+len(transfers))
	copy(out, balances)

	index := make(map[string]int, len(out))
	for i, bal := range out {
		index[bal.Participant] = i
	}
	adjust := func(participant string, delta decimal.Decimal) {
		i, ok := index[participant]
		if !ok {
			i = len(out)
			index[participant] = i
			out = append(out, Balance{Participant: participant, Net: decimal.Zero})
		}
		out[i].Net = out[i].Net.Add(delta)
	}

	for _, t := range transfers {
		adjust(t.From, t.Amount)
		adjust(t.To, t.Amount.Neg())
	}
	return out
}
