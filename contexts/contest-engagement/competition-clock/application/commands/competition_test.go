package commands_test

import (
	"context"
	"testing"
	"time"

	"spotlight/contexts/contest-engagement/competition-clock/adapters/memory"
	"spotlight/contexts/contest-engagement/competition-clock/application/commands"
	"spotlight/contexts/contest-engagement/competition-clock/application/queries"
	"spotlight/contexts/contest-engagement/competition-clock/domain/entities"
	domainerrors "spotlight/contexts/contest-engagement/competition-clock/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func newUseCases(now time.Time) (commands.CompetitionUseCase, queries.ClockUseCase) {
	store := memory.NewStore(nil)
	clock := fixedClock{now: now}
	return commands.CompetitionUseCase{
			Competitions:    store,
			Clock:           clock,
			IDGen:           store,
			DefaultTimezone: "UTC",
		}, queries.ClockUseCase{
			Competitions: store,
			Clock:        clock,
		}
}

func TestCreateCompetition(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	t.Run("Happy path - replay with the same id returns the stored competition", func(t *testing.T) {
		uc, _ := newUseCases(now)
		first, err := uc.CreateCompetition(ctx, commands.CreateCompetitionCommand{
			CompetitionID: "spring-2026",
			Name:          "Spring Showcase",
			Timezone:      "America/Chicago",
			Phases: []commands.PhaseInput{{
				Name:     "Voting",
				StartsAt: now,
				EndsAt:   now.Add(30 * 24 * time.Hour),
			}},
			PromotionalDates: []string{"2026-04-14"},
		})
		require.NoError(t, err)
		assert.False(t, first.Replayed)
		require.Len(t, first.Competition.Phases, 2)
		assert.Equal(t, 1, first.Competition.Phases[0].Ordinal)
		assert.Equal(t, entities.PhaseKindPromotional, first.Competition.Phases[1].Kind)

		second, err := uc.CreateCompetition(ctx, commands.CreateCompetitionCommand{
			CompetitionID: "spring-2026",
			Name:          "Spring Showcase",
			Timezone:      "America/Chicago",
		})
		require.NoError(t, err)
		assert.True(t, second.Replayed)
		assert.Len(t, second.Competition.Phases, 2)
	})

	t.Run("Unhappy path - replay with a different timezone conflicts", func(t *testing.T) {
		uc, _ := newUseCases(now)
		_, err := uc.CreateCompetition(ctx, commands.CreateCompetitionCommand{
			CompetitionID: "c1", Name: "One", Timezone: "UTC",
		})
		require.NoError(t, err)
		_, err = uc.CreateCompetition(ctx, commands.CreateCompetitionCommand{
			CompetitionID: "c1", Name: "One", Timezone: "Europe/Paris",
		})
		assert.ErrorIs(t, err, domainerrors.ErrCompetitionConflict)
	})

	t.Run("Unhappy path - missing name and bad timezone", func(t *testing.T) {
		uc, _ := newUseCases(now)
		_, err := uc.CreateCompetition(ctx, commands.CreateCompetitionCommand{Timezone: "UTC"})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidCompetitionInput)

		_, err = uc.CreateCompetition(ctx, commands.CreateCompetitionCommand{Name: "x", Timezone: "Nowhere/City"})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidTimezone)
	})

	t.Run("Unhappy path - inverted phase window", func(t *testing.T) {
		uc, _ := newUseCases(now)
		_, err := uc.CreateCompetition(ctx, commands.CreateCompetitionCommand{
			Name: "Backwards",
			Phases: []commands.PhaseInput{{
				Name:     "Voting",
				StartsAt: now,
				EndsAt:   now.Add(-time.Hour),
			}},
		})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidPhaseWindow)
	})
}

func TestPromotionalDayDrivesCreditWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	uc, clock := newUseCases(now)

	created, err := uc.CreateCompetition(ctx, commands.CreateCompetitionCommand{
		CompetitionID: "summer",
		Name:          "Summer Stars",
		Timezone:      "America/New_York",
	})
	require.NoError(t, err)

	phase, err := uc.AddPromotionalDay(ctx, commands.AddPromotionalDayCommand{
		CompetitionID: created.Competition.CompetitionID,
		Date:          "2026-04-10",
	})
	require.NoError(t, err)
	assert.True(t, phase.DoubleCredit)
	assert.Equal(t, 1, phase.Ordinal)

	inside, err := clock.CreditWindow(ctx, "summer", time.Date(2026, 4, 11, 3, 59, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, entities.MultiplierDoubleCredit, inside.Multiplier)
	assert.Equal(t, "2026-04-10", inside.LocalDate)
	assert.Equal(t, phase.PhaseID, inside.PromotionPhaseID)

	after, err := clock.CreditWindow(ctx, "summer", time.Date(2026, 4, 11, 4, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, entities.MultiplierStandard, after.Multiplier)

	defaulted, err := clock.CreditWindow(ctx, "summer", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, now, defaulted.At)

	_, err = uc.AddPromotionalDay(ctx, commands.AddPromotionalDayCommand{CompetitionID: "missing", Date: "2026-04-10"})
	assert.ErrorIs(t, err, domainerrors.ErrCompetitionNotFound)
}

func TestAddPhaseAssignsNextOrdinal(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	uc, clock := newUseCases(now)

	_, err := uc.CreateCompetition(ctx, commands.CreateCompetitionCommand{
		CompetitionID: "autumn",
		Name:          "Autumn Awards",
		Phases: []commands.PhaseInput{{
			Name:     "Nominations",
			StartsAt: now,
			EndsAt:   now.Add(7 * 24 * time.Hour),
		}},
	})
	require.NoError(t, err)

	phase, err := uc.AddPhase(ctx, commands.AddPhaseCommand{
		CompetitionID: "autumn",
		Name:          "Voting",
		StartsAt:      now.Add(7 * 24 * time.Hour),
		EndsAt:        now.Add(14 * 24 * time.Hour),
		DoubleCredit:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, phase.Ordinal)

	active, ok, err := clock.ActivePhase(ctx, "autumn", now.Add(8*24*time.Hour))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Voting", active.Name)

	window, err := clock.CreditWindow(ctx, "autumn", now.Add(8*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, entities.MultiplierDoubleCredit, window.Multiplier)
}
