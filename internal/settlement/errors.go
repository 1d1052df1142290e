package settlement

import "errors"

var (
	// ErrEmptyParticipantSet is returned when there is nobody to split between.
	ErrEmptyParticipantSet = errors.New("at least one participant is required")

	// ErrEmptyParticipant is returned for a blank participant or payer id.
	ErrEmptyParticipant = errors.New("participant id must not be empty")

	// ErrInvalidAmount is returned for negative, non-finite or unparsable amounts.
	ErrInvalidAmount = errors.New("amount must be a finite non-negative number")

	// ErrUnbalancedInput is returned when balances handed to ComputeSettlement
	// do not sum to zero within Epsilon.
	ErrUnbalancedInput = errors.New("balances do not sum to zero")
)
