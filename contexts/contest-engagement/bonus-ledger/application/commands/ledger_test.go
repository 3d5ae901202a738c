package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"spotlight/contexts/contest-engagement/bonus-ledger/adapters/memory"
	"spotlight/contexts/contest-engagement/bonus-ledger/application/commands"
	"spotlight/contexts/contest-engagement/bonus-ledger/application/queries"
	"spotlight/contexts/contest-engagement/bonus-ledger/domain/entities"
	domainerrors "spotlight/contexts/contest-engagement/bonus-ledger/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type recordingMetrics struct {
	mu     sync.Mutex
	points map[string]int64
}

func (m *recordingMetrics) BonusAwarded(taskKey string, points int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.points == nil {
		m.points = make(map[string]int64)
	}
	m.points[taskKey] += points
}

type fixture struct {
	store   *memory.Store
	ledger  commands.LedgerUseCase
	catalog commands.CatalogUseCase
	status  queries.StatusQueries
	metrics *recordingMetrics
}

func newFixture(contestants ...entities.ContestantRef) fixture {
	store := memory.NewStore(contestants)
	clock := fixedClock{now: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)}
	metrics := &recordingMetrics{}
	return fixture{
		store: store,
		ledger: commands.LedgerUseCase{
			Catalog:     store,
			Awards:      store,
			Contestants: store,
			Clock:       clock,
			IDGen:       store,
			Metrics:     metrics,
		},
		catalog: commands.CatalogUseCase{Catalog: store, Clock: clock},
		status:  queries.StatusQueries{Catalog: store, Awards: store, Contestants: store},
		metrics: metrics,
	}
}

func contestant(id string) entities.ContestantRef {
	return entities.ContestantRef{ContestantID: id, CompetitionID: "spring-2026"}
}

func profiledContestant(id string) entities.ContestantRef {
	ref := contestant(id)
	ref.Profile = entities.ProfileSnapshot{
		DisplayName: "Amara Eze",
		Bio:         "Spoken word poet",
		City:        "Enugu",
		PhotoRef:    "photos/amara.jpg",
	}
	return ref
}

func TestCheckAndAwardProfileBonuses(t *testing.T) {
	ctx := context.Background()
	f := newFixture(contestant("con-1"))

	t.Run("Happy path - photo upload awards five votes once", func(t *testing.T) {
		snapshot := &entities.ProfileSnapshot{DisplayName: "Jasmine Okafor", PhotoRef: "photos/j.jpg"}
		awarded, err := f.ledger.CheckAndAwardProfileBonuses(ctx, commands.CheckProfileBonusesCommand{
			ContestantID: "con-1",
			Snapshot:     snapshot,
		})
		require.NoError(t, err)
		require.Len(t, awarded, 1)
		assert.Equal(t, entities.TaskAddPhoto, awarded[0].TaskKey)
		assert.Equal(t, int64(5), awarded[0].VotesAwarded)
		assert.Equal(t, int64(5), awarded[0].NewTotal)

		again, err := f.ledger.CheckAndAwardProfileBonuses(ctx, commands.CheckProfileBonusesCommand{
			ContestantID: "con-1",
			Snapshot:     snapshot,
		})
		require.NoError(t, err)
		assert.Empty(t, again)

		ref, err := f.store.GetContestant(ctx, "con-1")
		require.NoError(t, err)
		assert.Equal(t, int64(5), ref.VoteTotal)
		assert.Equal(t, []string{entities.EventTypeBonusAwarded}, f.store.Outbox.EventTypes())
	})

	t.Run("Happy path - stored profile is used without a snapshot", func(t *testing.T) {
		ref := contestant("con-2")
		ref.Profile = entities.ProfileSnapshot{DisplayName: "Tobi", Bio: "Poet", City: "Accra", YouTube: "tobi"}
		f.store.PutContestant(ref)

		awarded, err := f.ledger.CheckAndAwardProfileBonuses(ctx, commands.CheckProfileBonusesCommand{ContestantID: "con-2"})
		require.NoError(t, err)
		keys := make([]string, 0, len(awarded))
		for _, outcome := range awarded {
			keys = append(keys, outcome.TaskKey)
		}
		assert.Equal(t, []string{entities.TaskCompleteProfile, entities.TaskAddSocial}, keys)
		assert.Equal(t, int64(15), awarded[1].NewTotal)
	})

	t.Run("Unhappy path - unknown contestant", func(t *testing.T) {
		_, err := f.ledger.CheckAndAwardProfileBonuses(ctx, commands.CheckProfileBonusesCommand{ContestantID: "con-404"})
		assert.ErrorIs(t, err, domainerrors.ErrContestantNotFound)
	})
}

func TestAwardBonusVotes(t *testing.T) {
	ctx := context.Background()

	t.Run("Happy path - replay reports already-awarded", func(t *testing.T) {
		f := newFixture(profiledContestant("con-1"))
		first, err := f.ledger.AwardBonusVotes(ctx, commands.AwardBonusVotesCommand{ContestantID: "con-1", TaskKey: entities.TaskAddPhoto})
		require.NoError(t, err)
		assert.True(t, first.Success)

		second, err := f.ledger.AwardBonusVotes(ctx, commands.AwardBonusVotesCommand{ContestantID: "con-1", TaskKey: entities.TaskAddPhoto})
		require.NoError(t, err)
		assert.False(t, second.Success)
		assert.Equal(t, entities.ReasonAlreadyAwarded, second.Reason)
		assert.Equal(t, int64(5), second.NewTotal)
		assert.Equal(t, int64(5), f.metrics.points[entities.TaskAddPhoto])
	})

	t.Run("Happy path - concurrent awards grant once", func(t *testing.T) {
		f := newFixture(profiledContestant("con-1"))
		const callers = 16
		outcomes := make([]entities.AwardOutcome, callers)
		errs := make([]error, callers)
		var wg sync.WaitGroup
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				outcomes[i], errs[i] = f.ledger.AwardBonusVotes(ctx, commands.AwardBonusVotesCommand{
					ContestantID: "con-1",
					TaskKey:      entities.TaskCompleteProfile,
				})
			}(i)
		}
		wg.Wait()

		successes := 0
		for i := 0; i < callers; i++ {
			require.NoError(t, errs[i])
			if outcomes[i].Success {
				successes++
			}
		}
		assert.Equal(t, 1, successes)
		votes := f.store.BonusVotes()
		require.Len(t, votes, 1)
		assert.Equal(t, "bonus:con-1:complete_profile", votes[0].DedupKey)
		ref, err := f.store.GetContestant(ctx, "con-1")
		require.NoError(t, err)
		assert.Equal(t, int64(10), ref.VoteTotal)
	})

	t.Run("Happy path - action task needs no profile", func(t *testing.T) {
		f := newFixture(contestant("con-1"))
		outcome, err := f.ledger.AwardBonusVotes(ctx, commands.AwardBonusVotesCommand{ContestantID: "con-1", TaskKey: entities.TaskShareProfile})
		require.NoError(t, err)
		assert.True(t, outcome.Success)
	})

	t.Run("Unhappy path - profile task without the profile field", func(t *testing.T) {
		f := newFixture(contestant("con-1"))
		outcome, err := f.ledger.AwardBonusVotes(ctx, commands.AwardBonusVotesCommand{ContestantID: "con-1", TaskKey: entities.TaskAddPhoto})
		assert.ErrorIs(t, err, domainerrors.ErrTaskNotSatisfied)
		assert.False(t, outcome.Success)
		assert.Empty(t, f.store.BonusVotes())
		assert.Zero(t, f.metrics.points[entities.TaskAddPhoto])

		ref, err := f.store.GetContestant(ctx, "con-1")
		require.NoError(t, err)
		assert.Zero(t, ref.VoteTotal)
	})

	t.Run("Unhappy path - task not in catalog", func(t *testing.T) {
		f := newFixture(contestant("con-1"))
		_, err := f.ledger.AwardBonusVotes(ctx, commands.AwardBonusVotesCommand{ContestantID: "con-1", TaskKey: "add_video"})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidTask)
		_, err = f.ledger.AwardBonusVotes(ctx, commands.AwardBonusVotesCommand{ContestantID: "con-1", TaskKey: " "})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidTask)
	})
}

func TestAcknowledgeTask(t *testing.T) {
	ctx := context.Background()
	f := newFixture(contestant("con-1"))

	outcome, err := f.ledger.AcknowledgeTask(ctx, commands.AwardBonusVotesCommand{ContestantID: "con-1", TaskKey: entities.TaskViewHowToWin})
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, int64(2), outcome.NewTotal)

	_, err = f.ledger.AcknowledgeTask(ctx, commands.AwardBonusVotesCommand{ContestantID: "con-1", TaskKey: entities.TaskAddPhoto})
	assert.ErrorIs(t, err, domainerrors.ErrTaskNotAcknowledgable)
}

func TestCatalogPointsEdit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(profiledContestant("con-1"))

	_, err := f.ledger.AwardBonusVotes(ctx, commands.AwardBonusVotesCommand{ContestantID: "con-1", TaskKey: entities.TaskAddPhoto})
	require.NoError(t, err)

	task, err := f.catalog.UpdateTaskPoints(ctx, commands.UpdateTaskPointsCommand{
		CompetitionID: "spring-2026",
		TaskKey:       entities.TaskAddPhoto,
		Points:        1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), task.Points)

	status, err := f.status.GetBonusVoteStatus(ctx, "con-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), status.VotesEarned)
	assert.LessOrEqual(t, status.VotesEarned, status.VotesAvailable)
	assert.Equal(t, 1, status.CompletedCount)

	_, err = f.catalog.UpdateTaskPoints(ctx, commands.UpdateTaskPointsCommand{
		CompetitionID: "spring-2026",
		TaskKey:       "add_video",
		Points:        4,
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTask)

	_, err = f.catalog.UpdateTaskPoints(ctx, commands.UpdateTaskPointsCommand{
		CompetitionID: "spring-2026",
		TaskKey:       entities.TaskAddPhoto,
		Points:        0,
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestPublishCatalog(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	result, err := f.catalog.PublishCatalog(ctx, commands.PublishCatalogCommand{
		CompetitionID: "summer-2026",
		Tasks: []entities.Task{
			{Key: entities.TaskAddPhoto, Points: 8, Kind: entities.TaskKindProfile},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)

	result, err = f.catalog.PublishCatalog(ctx, commands.PublishCatalogCommand{
		CompetitionID: "summer-2026",
		Tasks: []entities.Task{
			{Key: entities.TaskAddPhoto, Points: 20, Kind: entities.TaskKindProfile},
			{Key: entities.TaskShareProfile, Points: 3, Kind: entities.TaskKindAction},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	require.Len(t, result.Tasks, 2)
	photo, ok := findTask(result.Tasks, entities.TaskAddPhoto)
	require.True(t, ok)
	assert.Equal(t, int64(8), photo.Points)

	listed, err := f.status.ListCatalog(ctx, "fall-2026")
	require.NoError(t, err)
	assert.Len(t, listed, 5)
}

func findTask(tasks []entities.Task, key string) (entities.Task, bool) {
	for _, task := range tasks {
		if task.Key == key {
			return task, true
		}
	}
	return entities.Task{}, false
}
