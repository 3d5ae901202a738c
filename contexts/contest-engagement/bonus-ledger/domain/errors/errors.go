package errors

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid bonus ledger input")
	ErrInvalidTask           = errors.New("unknown bonus task")
	ErrInvalidCatalog        = errors.New("invalid bonus catalog")
	ErrTaskNotAcknowledgable = errors.New("task is completed by profile checks only")
	ErrTaskNotSatisfied      = errors.New("profile does not meet the task requirements")
	ErrContestantNotFound    = errors.New("contestant not found")
	ErrDependencyUnavailable = errors.New("bonus ledger store unavailable")
)
