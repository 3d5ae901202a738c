package ports

import (
	"context"
	"time"

	"spotlight/contexts/contest-engagement/bonus-ledger/domain/entities"
	"spotlight/internal/shared/events"
)

type EventEnvelope = events.Envelope

// BonusVote is the vote ledger entry written with an award. Bonus votes are
// never multiplied.
type BonusVote struct {
	VoteEventID   string
	ContestantID  string
	CompetitionID string
	Quantity      int64
	DedupKey      string
	CreatedAt     time.Time
}

// BonusAward commits the award record, its vote event, the total increment and
// the outbox event together. Created is false when a record for the contestant
// and task already existed; nothing is written in that case.
type BonusAward struct {
	Award  entities.AwardRecord
	Vote   BonusVote
	Events []EventEnvelope
}

type BonusAwardResult struct {
	Created  bool
	NewTotal int64
}

type CatalogRepository interface {
	// PublishCatalog inserts tasks that are not yet published and never
	// overwrites existing ones. It reports how many tasks were inserted.
	PublishCatalog(ctx context.Context, competitionID string, tasks []entities.Task) (int, error)
	ListTasks(ctx context.Context, competitionID string) ([]entities.Task, error)
	UpdateTaskPoints(ctx context.Context, competitionID string, taskKey string, points int64, updatedAt time.Time) (entities.Task, error)
}

type AwardRepository interface {
	AwardBonus(ctx context.Context, award BonusAward) (BonusAwardResult, error)
	ListAwards(ctx context.Context, contestantID string) ([]entities.AwardRecord, error)
}

// ContestantDirectory reads the contestant projection owned by the nominee
// lifecycle.
type ContestantDirectory interface {
	GetContestant(ctx context.Context, contestantID string) (entities.ContestantRef, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Metrics is optional; nil disables counting.
type Metrics interface {
	BonusAwarded(taskKey string, points int64)
}
