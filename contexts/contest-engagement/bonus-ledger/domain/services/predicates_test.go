package services

import (
	"testing"
	"time"

	"spotlight/contexts/contest-engagement/bonus-ledger/domain/entities"
	domainerrors "spotlight/contexts/contest-engagement/bonus-ledger/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSatisfied(t *testing.T) {
	full := entities.ProfileSnapshot{
		DisplayName: "Jasmine Okafor",
		Bio:         "Singer",
		City:        "Lagos",
		PhotoRef:    "photos/j.jpg",
		TikTok:      "@jasmine",
	}
	for _, key := range []string{entities.TaskCompleteProfile, entities.TaskAddPhoto, entities.TaskAddSocial} {
		satisfied, ok := Satisfied(key, full)
		assert.True(t, ok, key)
		assert.True(t, satisfied, key)
	}

	t.Run("Unhappy path - whitespace does not count", func(t *testing.T) {
		satisfied, ok := Satisfied(entities.TaskCompleteProfile, entities.ProfileSnapshot{
			DisplayName: "Jasmine",
			Bio:         "   ",
			City:        "Lagos",
		})
		assert.True(t, ok)
		assert.False(t, satisfied)

		satisfied, _ = Satisfied(entities.TaskAddSocial, entities.ProfileSnapshot{Instagram: " "})
		assert.False(t, satisfied)
	})

	t.Run("Unhappy path - action tasks have no predicate", func(t *testing.T) {
		_, ok := Satisfied(entities.TaskViewHowToWin, full)
		assert.False(t, ok)
	})
}

func TestValidateCatalog(t *testing.T) {
	t.Run("Happy path - default catalog is valid and ordered", func(t *testing.T) {
		tasks, err := ValidateCatalog(" spring-2026 ", entities.DefaultCatalog())
		require.NoError(t, err)
		require.Len(t, tasks, 5)
		assert.Equal(t, entities.TaskCompleteProfile, tasks[0].Key)
		assert.Equal(t, entities.TaskShareProfile, tasks[4].Key)
		for _, task := range tasks {
			assert.Equal(t, "spring-2026", task.CompetitionID)
		}
	})

	t.Run("Happy path - label and sort order default", func(t *testing.T) {
		tasks, err := ValidateCatalog("spring-2026", []entities.Task{
			{Key: entities.TaskShareProfile, Points: 3, Kind: entities.TaskKindAction},
			{Key: entities.TaskAddPhoto, Points: 5, Kind: entities.TaskKindProfile},
		})
		require.NoError(t, err)
		assert.Equal(t, entities.TaskShareProfile, tasks[0].Key)
		assert.Equal(t, entities.TaskShareProfile, tasks[0].Label)
		assert.Equal(t, 2, tasks[1].SortOrder)
	})

	cases := []struct {
		name  string
		tasks []entities.Task
	}{
		{"empty", nil},
		{"zero points", []entities.Task{{Key: entities.TaskAddPhoto, Points: 0, Kind: entities.TaskKindProfile}}},
		{"unknown kind", []entities.Task{{Key: entities.TaskAddPhoto, Points: 5, Kind: "quiz"}}},
		{"profile task without predicate", []entities.Task{{Key: "add_video", Points: 5, Kind: entities.TaskKindProfile}}},
		{"duplicate key", []entities.Task{
			{Key: entities.TaskAddPhoto, Points: 5, Kind: entities.TaskKindProfile},
			{Key: entities.TaskAddPhoto, Points: 7, Kind: entities.TaskKindProfile},
		}},
	}
	for _, tc := range cases {
		t.Run("Unhappy path - "+tc.name, func(t *testing.T) {
			_, err := ValidateCatalog("spring-2026", tc.tasks)
			assert.ErrorIs(t, err, domainerrors.ErrInvalidCatalog)
		})
	}
}

func TestStatus(t *testing.T) {
	tasks, err := ValidateCatalog("spring-2026", entities.DefaultCatalog())
	require.NoError(t, err)
	awardedAt := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

	t.Run("Happy path - nothing completed", func(t *testing.T) {
		status := Status("con-1", tasks, nil)
		assert.Equal(t, 0, status.CompletedCount)
		assert.Equal(t, 5, status.TotalCount)
		assert.Equal(t, int64(0), status.VotesEarned)
		assert.Equal(t, int64(25), status.VotesAvailable)
	})

	t.Run("Happy path - granted points survive a points edit", func(t *testing.T) {
		edited := append([]entities.Task(nil), tasks...)
		edited[1].Points = 2
		status := Status("con-1", edited, []entities.AwardRecord{{
			ContestantID:  "con-1",
			TaskKey:       entities.TaskAddPhoto,
			PointsGranted: 5,
			AwardedAt:     awardedAt,
		}})
		assert.Equal(t, 1, status.CompletedCount)
		assert.Equal(t, int64(5), status.VotesEarned)
		assert.Equal(t, int64(25), status.VotesAvailable)
		assert.LessOrEqual(t, status.VotesEarned, status.VotesAvailable)
		require.NotNil(t, status.Tasks[1].AwardedAt)
		assert.True(t, status.Tasks[1].Completed)
	})
}
