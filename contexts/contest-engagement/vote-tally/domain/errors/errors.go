package errors

import "errors"

var (
	ErrInvalidVoteInput      = errors.New("invalid vote input")
	ErrInvalidVoteSource     = errors.New("vote source not accepted")
	ErrInvalidQuantity       = errors.New("vote quantity out of range")
	ErrFreeVoteExhausted     = errors.New("free vote exhausted")
	ErrReferenceConflict     = errors.New("payment reference already recorded for a different vote")
	ErrContestantNotFound    = errors.New("contestant not found")
	ErrDependencyUnavailable = errors.New("vote store unavailable")
)
