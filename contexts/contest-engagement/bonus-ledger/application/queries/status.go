package queries

import (
	"context"
	"sort"
	"strings"

	"spotlight/contexts/contest-engagement/bonus-ledger/domain/entities"
	domainerrors "spotlight/contexts/contest-engagement/bonus-ledger/domain/errors"
	"spotlight/contexts/contest-engagement/bonus-ledger/domain/services"
	"spotlight/contexts/contest-engagement/bonus-ledger/ports"
)

type StatusQueries struct {
	Catalog     ports.CatalogRepository
	Awards      ports.AwardRepository
	Contestants ports.ContestantDirectory
}

// ListCatalog returns the published catalog, or the default catalog the
// competition will receive on first use.
func (q StatusQueries) ListCatalog(ctx context.Context, competitionID string) ([]entities.Task, error) {
	id := strings.TrimSpace(competitionID)
	if id == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	tasks, err := q.Catalog.ListTasks(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(tasks) > 0 {
		return tasks, nil
	}
	return services.ValidateCatalog(id, entities.DefaultCatalog())
}

func (q StatusQueries) GetBonusVoteStatus(ctx context.Context, contestantID string) (entities.BonusVoteStatus, error) {
	id := strings.TrimSpace(contestantID)
	if id == "" {
		return entities.BonusVoteStatus{}, domainerrors.ErrInvalidInput
	}
	contestant, err := q.Contestants.GetContestant(ctx, id)
	if err != nil {
		return entities.BonusVoteStatus{}, err
	}
	tasks, err := q.ListCatalog(ctx, contestant.CompetitionID)
	if err != nil {
		return entities.BonusVoteStatus{}, err
	}
	awards, err := q.Awards.ListAwards(ctx, contestant.ContestantID)
	if err != nil {
		return entities.BonusVoteStatus{}, err
	}
	return services.Status(contestant.ContestantID, tasks, awards), nil
}

// ListAwards returns the contestant's award records, oldest first.
func (q StatusQueries) ListAwards(ctx context.Context, contestantID string) ([]entities.AwardRecord, error) {
	awards, err := q.Awards.ListAwards(ctx, strings.TrimSpace(contestantID))
	if err != nil {
		return nil, err
	}
	sortAwards(awards)
	return awards, nil
}

func sortAwards(awards []entities.AwardRecord) {
	sort.SliceStable(awards, func(i, j int) bool {
		return awards[i].AwardedAt.Before(awards[j].AwardedAt)
	})
}
