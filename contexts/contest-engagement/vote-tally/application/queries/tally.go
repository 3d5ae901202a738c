package queries

import (
	"context"
	"log/slog"
	"strings"

	application "spotlight/contexts/contest-engagement/vote-tally/application"
	"spotlight/contexts/contest-engagement/vote-tally/domain/entities"
	domainerrors "spotlight/contexts/contest-engagement/vote-tally/domain/errors"
	"spotlight/contexts/contest-engagement/vote-tally/domain/services"
	"spotlight/contexts/contest-engagement/vote-tally/ports"
)

type TallyQueries struct {
	Votes       ports.VoteRepository
	Contestants ports.ContestantDirectory
	Logger      *slog.Logger
}

// GetLeaderboard ranks the competition from a single read of contestant
// totals. Ranks are never stored.
func (q TallyQueries) GetLeaderboard(ctx context.Context, competitionID string) ([]entities.LeaderboardEntry, error) {
	id := strings.TrimSpace(competitionID)
	if id == "" {
		return nil, domainerrors.ErrInvalidVoteInput
	}
	totals, err := q.Contestants.ListContestants(ctx, id)
	if err != nil {
		return nil, err
	}
	return services.Rank(totals), nil
}

func (q TallyQueries) GetStanding(ctx context.Context, contestantID string) (entities.Standing, error) {
	id := strings.TrimSpace(contestantID)
	if id == "" {
		return entities.Standing{}, domainerrors.ErrInvalidVoteInput
	}
	contestant, err := q.Contestants.GetContestant(ctx, id)
	if err != nil {
		return entities.Standing{}, err
	}
	board, err := q.GetLeaderboard(ctx, contestant.CompetitionID)
	if err != nil {
		return entities.Standing{}, err
	}
	standing := entities.Standing{
		ContestantID:  contestant.ContestantID,
		CompetitionID: contestant.CompetitionID,
		Votes:         contestant.VoteTotal,
		Contestants:   len(board),
	}
	for _, entry := range board {
		if entry.ContestantID == contestant.ContestantID {
			standing.Votes = entry.Votes
			standing.Rank = entry.Rank
			break
		}
	}
	return standing, nil
}

func (q TallyQueries) ListVoteEvents(ctx context.Context, contestantID string) ([]entities.VoteEvent, error) {
	id := strings.TrimSpace(contestantID)
	if _, err := q.Contestants.GetContestant(ctx, id); err != nil {
		return nil, err
	}
	return q.Votes.ListVoteEvents(ctx, id)
}

// AuditContestant compares the running total with the sum of credited
// quantities in the ledger.
func (q TallyQueries) AuditContestant(ctx context.Context, contestantID string) (entities.Audit, error) {
	id := strings.TrimSpace(contestantID)
	contestant, err := q.Contestants.GetContestant(ctx, id)
	if err != nil {
		return entities.Audit{}, err
	}
	sum, err := q.Votes.SumCredited(ctx, id)
	if err != nil {
		return entities.Audit{}, err
	}
	audit := entities.Audit{
		ContestantID: contestant.ContestantID,
		StoredTotal:  contestant.VoteTotal,
		LedgerTotal:  sum.Credited,
		EventCount:   sum.Events,
		Consistent:   contestant.VoteTotal == sum.Credited,
	}
	if !audit.Consistent {
		application.ResolveLogger(q.Logger).Error("contestant total drifted from vote ledger",
			"event", "vote_audit_mismatch",
			"module", "contest-engagement/vote-tally",
			"layer", "application",
			"contestant_id", audit.ContestantID,
			"stored_total", audit.StoredTotal,
			"ledger_total", audit.LedgerTotal,
		)
	}
	return audit, nil
}
