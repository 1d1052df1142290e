package settlement

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Expense is one shared payment. Category and Description are carried for
// callers and do not affect the computation.
type Expense struct {
	Payer       string
	Amount      decimal.Decimal
	Category    string
	Description string
}

// Balance is one participant's position relative to their fair share.
type Balance struct {
	Participant string
	Net         decimal.Decimal // Positive = is owed money, negative = owes money
}

// Balances is an ordered balance sheet. The order is the participant order
// ComputeBalances was given, followed by auto-registered payers in order of
// first appearance; ComputeSettlement breaks ties by it.
type Balances []Balance

// Net returns the net balance for participant.
func (b Balances) Net(participant string) (decimal.Decimal, bool) {
	for _, bal := range b {
		if bal.Participant == participant {
			return bal.Net, true
		}
	}
	return decimal.Zero, false
}

// Sum adds up every net balance. For a sheet built by ComputeBalances it is
// zero within Epsilon.
func (b Balances) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, bal := range b {
		sum = sum.Add(bal.Net)
	}
	return sum
}

// Participants returns the participant ids in sheet order.
func (b Balances) Participants() []string {
	out := make([]string, len(b))
	for i, bal := range b {
		out[i] = bal.Participant
	}
	return out
}

// ComputeBalances splits the total of expenses equally among participants
// and returns paid-minus-share for each of them.
//
// Payers missing from participants are registered automatically and share
// the cost like everyone else. Duplicate participants count once. The
// inputs are not modified.
func ComputeBalances(expenses []Expense, participants []string) (Balances, error) {
	if len(participants) == 0 {
		return nil, ErrEmptyParticipantSet
	}

	order := make([]string, 0, len(participants))
	paid := make(map[string]decimal.Decimal, len(participants))
	register := func(id string) {
		if _, ok := paid[id]; !ok {
			paid[id] = decimal.Zero
			order = append(order, id)
		}
	}

	for _, p := range participants {
		if p == "" {
			return nil, ErrEmptyParticipant
		}
		register(p)
	}

	total := decimal.Zero
	for i, exp := range expenses {
		if exp.Payer == "" {
			return nil, fmt.Errorf("expense %d: %w", i, ErrEmptyParticipant)
		}
		if exp.Amount.IsNegative() {
			return nil, fmt.Errorf("expense %d: %w: %s", i, ErrInvalidAmount, exp.Amount)
		}
		register(exp.Payer)
		paid[exp.Payer] = paid[exp.Payer].Add(exp.Amount)
		total = total.Add(exp.Amount)
	}

	fairShare := total.Div(decimal.NewFromInt(int64(len(order))))

	balances := make(Balances, len(order))
	for i, p := range order {
		balances[i] = Balance{Participant: p, Net: paid[p].Sub(fairShare)}
	}
	return balances, nil
}
