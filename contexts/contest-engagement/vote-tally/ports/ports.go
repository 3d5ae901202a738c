package ports

import (
	"context"
	"time"

	"spotlight/contexts/contest-engagement/vote-tally/domain/entities"
	"spotlight/internal/shared/events"
)

type EventEnvelope = events.Envelope

type VoteAppend struct {
	Event  entities.VoteEvent
	Events []EventEnvelope
}

// AppendResult carries the stored event. When Created is false the dedup key
// was already taken and Event is the original row.
type AppendResult struct {
	Event    entities.VoteEvent
	NewTotal int64
	Created  bool
}

type LedgerSum struct {
	Credited int64
	Events   int
}

type VoteRepository interface {
	// AppendVoteEvent inserts the event and increments the contestant total in
	// one transaction.
	AppendVoteEvent(ctx context.Context, entry VoteAppend) (AppendResult, error)
	ListVoteEvents(ctx context.Context, contestantID string) ([]entities.VoteEvent, error)
	SumCredited(ctx context.Context, contestantID string) (LedgerSum, error)
}

type ContestantDirectory interface {
	GetContestant(ctx context.Context, contestantID string) (entities.ContestantTotal, error)
	// ListContestants reads every contestant total of a competition in one
	// query.
	ListContestants(ctx context.Context, competitionID string) ([]entities.ContestantTotal, error)
}

type PromotionCalendar interface {
	CreditTerms(ctx context.Context, competitionID string, at time.Time) (entities.CreditTerms, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type Metrics interface {
	VoteCredited(source string, credited int64)
}
