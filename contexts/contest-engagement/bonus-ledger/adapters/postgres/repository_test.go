package postgresadapter

import (
	"context"
	"sync"
	"testing"
	"time"

	"spotlight/contexts/contest-engagement/bonus-ledger/application/commands"
	"spotlight/contexts/contest-engagement/bonus-ledger/application/queries"
	"spotlight/contexts/contest-engagement/bonus-ledger/domain/entities"
	domainerrors "spotlight/contexts/contest-engagement/bonus-ledger/domain/errors"
	nomineestore "spotlight/contexts/contest-engagement/nominee-lifecycle/adapters/postgres"
	votestore "spotlight/contexts/contest-engagement/vote-tally/adapters/postgres"
	"spotlight/internal/platform/db/dbtest"
	"spotlight/internal/shared/outbox"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	repo   *Repository
	outbox *outbox.Repository
	ledger commands.LedgerUseCase
	status queries.StatusQueries
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	gdb := dbtest.Open(t)
	outboxRepo := outbox.NewRepository(gdb)
	repo := NewRepository(gdb, nil)
	dbtest.Migrate(t, outboxRepo, nomineestore.NewRepository(gdb, nil), votestore.NewRepository(gdb, nil), repo)
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, gdb.Exec(
		`INSERT INTO contestants (contestant_id, competition_id, nominee_id, display_name, photo_ref, vote_total, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
		"con-1", "spring-2026", "nom-1", "Jasmine Okafor", "photos/j.jpg", now, now,
	).Error)
	return fixture{
		repo:   repo,
		outbox: outboxRepo,
		ledger: commands.LedgerUseCase{
			Catalog:     repo,
			Awards:      repo,
			Contestants: repo,
			Clock:       SystemClock{},
			IDGen:       UUIDGenerator{},
		},
		status: queries.StatusQueries{Catalog: repo, Awards: repo, Contestants: repo},
	}
}

func TestProfileBonusFromStoredProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	awarded, err := f.ledger.CheckAndAwardProfileBonuses(ctx, commands.CheckProfileBonusesCommand{ContestantID: "con-1"})
	require.NoError(t, err)
	require.Len(t, awarded, 1)
	assert.Equal(t, entities.TaskAddPhoto, awarded[0].TaskKey)
	assert.Equal(t, int64(5), awarded[0].NewTotal)

	again, err := f.ledger.CheckAndAwardProfileBonuses(ctx, commands.CheckProfileBonusesCommand{ContestantID: "con-1"})
	require.NoError(t, err)
	assert.Empty(t, again)

	contestant, err := f.repo.GetContestant(ctx, "con-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), contestant.VoteTotal)

	var votes []bonusVoteModel
	require.NoError(t, f.repo.db.Where("contestant_id = ?", "con-1").Find(&votes).Error)
	require.Len(t, votes, 1)
	assert.Equal(t, "bonus", votes[0].Source)
	require.NotNil(t, votes[0].DedupKey)
	assert.Equal(t, "bonus:con-1:add_photo", *votes[0].DedupKey)

	pending, err := f.outbox.ListPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, entities.EventTypeBonusAwarded, pending[0].EventType)
}

func TestAwardBonusConcurrently(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	const callers = 8
	outcomes := make([]entities.AwardOutcome, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i], errs[i] = f.ledger.AcknowledgeTask(ctx, commands.AwardBonusVotesCommand{
				ContestantID: "con-1",
				TaskKey:      entities.TaskShareProfile,
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		if outcomes[i].Success {
			successes++
			continue
		}
		assert.Equal(t, entities.ReasonAlreadyAwarded, outcomes[i].Reason)
		assert.Equal(t, int64(3), outcomes[i].NewTotal)
	}
	assert.Equal(t, 1, successes)

	awards, err := f.repo.ListAwards(ctx, "con-1")
	require.NoError(t, err)
	require.Len(t, awards, 1)
	assert.Equal(t, int64(3), awards[0].PointsGranted)
}

func TestCatalogPersistence(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)

	inserted, err := f.repo.PublishCatalog(ctx, "spring-2026", []entities.Task{
		{CompetitionID: "spring-2026", Key: entities.TaskAddPhoto, Label: "Photo", Points: 5, SortOrder: 2, Kind: entities.TaskKindProfile, PublishedAt: now},
		{CompetitionID: "spring-2026", Key: entities.TaskViewHowToWin, Label: "Rules", Points: 2, SortOrder: 1, Kind: entities.TaskKindAction, PublishedAt: now},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	inserted, err = f.repo.PublishCatalog(ctx, "spring-2026", []entities.Task{
		{CompetitionID: "spring-2026", Key: entities.TaskAddPhoto, Label: "Photo", Points: 50, SortOrder: 2, Kind: entities.TaskKindProfile, PublishedAt: now},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	tasks, err := f.repo.ListTasks(ctx, "spring-2026")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, entities.TaskViewHowToWin, tasks[0].Key)
	assert.Equal(t, int64(5), tasks[1].Points)

	_, err = f.ledger.AwardBonusVotes(ctx, commands.AwardBonusVotesCommand{ContestantID: "con-1", TaskKey: entities.TaskAddPhoto})
	require.NoError(t, err)

	_, err = f.ledger.AwardBonusVotes(ctx, commands.AwardBonusVotesCommand{ContestantID: "con-1", TaskKey: entities.TaskCompleteProfile})
	assert.ErrorIs(t, err, domainerrors.ErrTaskNotSatisfied)

	updated, err := f.repo.UpdateTaskPoints(ctx, "spring-2026", entities.TaskAddPhoto, 1, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.Points)

	status, err := f.status.GetBonusVoteStatus(ctx, "con-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), status.VotesEarned)
	assert.Equal(t, int64(7), status.VotesAvailable)

	_, err = f.repo.UpdateTaskPoints(ctx, "spring-2026", "add_video", 1, now)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTask)

	_, err = f.repo.GetContestant(ctx, "con-404")
	assert.ErrorIs(t, err, domainerrors.ErrContestantNotFound)
}
