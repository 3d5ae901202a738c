package errors

import "errors"

var (
	ErrInvalidNominationInput = errors.New("invalid nomination input")
	ErrInvalidContact         = errors.New("contact must be a valid email address")
	ErrDuplicateEntry         = errors.New("contact already nominated in this competition")
	ErrForbiddenTransition    = errors.New("transition not allowed from current status")
	ErrIncompleteProfile      = errors.New("profile requires bio, city and an interest or photo")
	ErrCompetitionNotFound    = errors.New("competition not found")
	ErrNomineeNotFound        = errors.New("nominee not found")
	ErrContestantNotFound     = errors.New("contestant not found")
	ErrAlreadyClaimed         = errors.New("nominee already claimed by another account")
	ErrInvalidClaimToken      = errors.New("claim token does not match")
	ErrStaleNominee           = errors.New("nominee changed concurrently")
	ErrDependencyUnavailable  = errors.New("nominee store unavailable")
)
