package ports

import (
	"context"
	"time"

	"spotlight/contexts/contest-engagement/competition-clock/domain/entities"
)

type CompetitionRepository interface {
	// CreateCompetition inserts the competition and its phases unless the id
	// already exists. It reports whether a row was written.
	CreateCompetition(ctx context.Context, competition entities.Competition) (bool, error)
	GetCompetition(ctx context.Context, competitionID string) (entities.Competition, error)
	ListCompetitions(ctx context.Context) ([]entities.Competition, error)
	// AddPhase appends a phase and assigns the next ordinal.
	AddPhase(ctx context.Context, phase entities.Phase) (entities.Phase, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
