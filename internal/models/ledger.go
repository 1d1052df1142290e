package models

import "github.com/shopspring/decimal"

// Ledger is a reusable participant list with its own expense history
// (a trip, a flat, a dinner club).
type Ledger struct {
	// ID is the unique identifier for the ledger (UUID format).
	ID string

	// Name is the display name (e.g., "Lisbon Trip").
	Name string

	// OwnerID is the user who created the ledger.
	OwnerID string

	// Participants is the ordered list of people sharing costs.
	// Order is preserved; settlement tie-breaks follow it.
	Participants []string

	// Budget is an optional spending cap used for progress reporting.
	Budget decimal.NullDecimal

	// CreatedAt is the Unix timestamp when the ledger was created.
	CreatedAt int64
}

// HasParticipant reports whether name is on the ledger.
func (l *Ledger) HasParticipant(name string) bool {
	for _, p := range l.Participants {
		if p == name {
			return true
		}
	}
	return false
}
