package postgresadapter

import (
	"context"
	"testing"
	"time"

	"spotlight/contexts/contest-engagement/competition-clock/domain/entities"
	domainerrors "spotlight/contexts/contest-engagement/competition-clock/domain/errors"
	"spotlight/internal/platform/db/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.Open(t), nil)
	dbtest.Migrate(t, repo)

	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	competition := entities.Competition{
		CompetitionID: "comp-1",
		Name:          "Spring Showcase",
		Timezone:      "Europe/London",
		CreatedAt:     now,
		UpdatedAt:     now,
		Phases: []entities.Phase{{
			PhaseID:       "phase-1",
			CompetitionID: "comp-1",
			Name:          "Voting",
			Kind:          entities.PhaseKindRegular,
			Ordinal:       1,
			StartsAt:      now,
			EndsAt:        now.Add(48 * time.Hour),
			CreatedAt:     now,
		}},
	}

	created, err := repo.CreateCompetition(ctx, competition)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateCompetition(ctx, competition)
	require.NoError(t, err)
	assert.False(t, created)

	phase, err := repo.AddPhase(ctx, entities.Phase{
		PhaseID:       "promo-1",
		CompetitionID: "comp-1",
		Name:          "Double votes",
		Kind:          entities.PhaseKindPromotional,
		StartsAt:      now.Add(24 * time.Hour),
		EndsAt:        now.Add(48 * time.Hour),
		DoubleCredit:  true,
		CreatedAt:     now,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, phase.Ordinal)

	stored, err := repo.GetCompetition(ctx, "comp-1")
	require.NoError(t, err)
	assert.Equal(t, "Europe/London", stored.Timezone)
	require.Len(t, stored.Phases, 2)
	assert.Equal(t, "phase-1", stored.Phases[0].PhaseID)
	assert.True(t, stored.Phases[1].DoubleCredit)
	assert.True(t, stored.Phases[1].StartsAt.Equal(now.Add(24*time.Hour)))

	all, err := repo.ListCompetitions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Len(t, all[0].Phases, 2)

	_, err = repo.GetCompetition(ctx, "missing")
	assert.ErrorIs(t, err, domainerrors.ErrCompetitionNotFound)

	_, err = repo.AddPhase(ctx, entities.Phase{PhaseID: "x", CompetitionID: "missing", Name: "x", Kind: entities.PhaseKindRegular, StartsAt: now, EndsAt: now.Add(time.Hour)})
	assert.ErrorIs(t, err, domainerrors.ErrCompetitionNotFound)
}
