package errors

import "errors"

var (
	ErrInvalidCompetitionInput = errors.New("invalid competition input")
	ErrInvalidTimezone         = errors.New("unknown competition timezone")
	ErrInvalidPhaseWindow      = errors.New("phase must end after it starts")
	ErrInvalidPromotionalDate  = errors.New("promotional date must be YYYY-MM-DD")
	ErrCompetitionNotFound     = errors.New("competition not found")
	ErrCompetitionConflict     = errors.New("competition already exists with different settings")
	ErrDependencyUnavailable   = errors.New("competition store unavailable")
)
