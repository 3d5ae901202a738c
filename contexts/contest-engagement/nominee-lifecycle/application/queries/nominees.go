package queries

import (
	"context"
	"strings"

	"spotlight/contexts/contest-engagement/nominee-lifecycle/domain/entities"
	domainerrors "spotlight/contexts/contest-engagement/nominee-lifecycle/domain/errors"
	"spotlight/contexts/contest-engagement/nominee-lifecycle/ports"
)

type NomineeQueries struct {
	Nominees    ports.NomineeRepository
	Contestants ports.ContestantRepository
}

func (q NomineeQueries) GetNominee(ctx context.Context, nomineeID string) (entities.Nominee, error) {
	return q.Nominees.GetNominee(ctx, strings.TrimSpace(nomineeID))
}

func (q NomineeQueries) ListNominees(ctx context.Context, competitionID string, status string) ([]entities.Nominee, error) {
	filter := ports.NomineeFilter{
		CompetitionID: strings.TrimSpace(competitionID),
		Status:        entities.NomineeStatus(strings.TrimSpace(status)),
	}
	if filter.CompetitionID == "" {
		return nil, domainerrors.ErrInvalidNominationInput
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domainerrors.ErrInvalidNominationInput
	}
	return q.Nominees.ListNominees(ctx, filter)
}

// History returns the audited status path, oldest first.
func (q NomineeQueries) History(ctx context.Context, nomineeID string) ([]entities.Transition, error) {
	nominee, err := q.Nominees.GetNominee(ctx, strings.TrimSpace(nomineeID))
	if err != nil {
		return nil, err
	}
	return q.Nominees.ListTransitions(ctx, nominee.NomineeID)
}

func (q NomineeQueries) GetContestant(ctx context.Context, contestantID string) (entities.Contestant, error) {
	return q.Contestants.GetContestant(ctx, strings.TrimSpace(contestantID))
}

func (q NomineeQueries) ListContestants(ctx context.Context, competitionID string) ([]entities.Contestant, error) {
	if strings.TrimSpace(competitionID) == "" {
		return nil, domainerrors.ErrInvalidNominationInput
	}
	return q.Contestants.ListContestants(ctx, strings.TrimSpace(competitionID))
}
