package postgresadapter

import (
	"context"
	"sync"
	"testing"
	"time"

	nomineestore "spotlight/contexts/contest-engagement/nominee-lifecycle/adapters/postgres"
	"spotlight/contexts/contest-engagement/vote-tally/domain/entities"
	domainerrors "spotlight/contexts/contest-engagement/vote-tally/domain/errors"
	"spotlight/contexts/contest-engagement/vote-tally/ports"
	"spotlight/internal/platform/db/dbtest"
	"spotlight/internal/shared/events"
	"spotlight/internal/shared/outbox"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func newTestRepository(t *testing.T) (*Repository, *outbox.Repository) {
	t.Helper()
	gdb := dbtest.Open(t)
	outboxRepo := outbox.NewRepository(gdb)
	repo := NewRepository(gdb, nil)
	dbtest.Migrate(t, outboxRepo, nomineestore.NewRepository(gdb, nil), repo)
	return repo, outboxRepo
}

func seedContestant(t *testing.T, repo *Repository, id string, createdAt time.Time) {
	t.Helper()
	require.NoError(t, repo.db.Exec(
		`INSERT INTO contestants (contestant_id, competition_id, nominee_id, display_name, vote_total, created_at, updated_at)
		 VALUES (?, ?, ?, ?, 0, ?, ?)`,
		id, "spring-2026", "nom-"+id, "Contestant "+id, createdAt, createdAt,
	).Error)
}

func voteAppend(id string, contestantID string, credited int64, dedupKey string) ports.VoteAppend {
	return ports.VoteAppend{
		Event: entities.VoteEvent{
			VoteEventID:      id,
			ContestantID:     contestantID,
			CompetitionID:    "spring-2026",
			Source:           entities.VoteSourcePurchased,
			RawQuantity:      credited,
			Multiplier:       1,
			CreditedQuantity: credited,
			DedupKey:         dedupKey,
			CreatedAt:        created.Add(time.Hour),
		},
	}
}

func TestAppendVoteEvent(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)
	seedContestant(t, repo, "con-1", created)

	t.Run("Happy path - insert increments the running total", func(t *testing.T) {
		result, err := repo.AppendVoteEvent(ctx, voteAppend("v-1", "con-1", 10, ""))
		require.NoError(t, err)
		assert.True(t, result.Created)
		assert.Equal(t, int64(10), result.NewTotal)

		result, err = repo.AppendVoteEvent(ctx, voteAppend("v-2", "con-1", 4, ""))
		require.NoError(t, err)
		assert.Equal(t, int64(14), result.NewTotal)
	})

	t.Run("Happy path - dedup key returns the original event", func(t *testing.T) {
		first, err := repo.AppendVoteEvent(ctx, voteAppend("v-3", "con-1", 5, "purchase:pay_1"))
		require.NoError(t, err)
		require.True(t, first.Created)

		second, err := repo.AppendVoteEvent(ctx, voteAppend("v-4", "con-1", 5, "purchase:pay_1"))
		require.NoError(t, err)
		assert.False(t, second.Created)
		assert.Equal(t, "v-3", second.Event.VoteEventID)
		assert.Equal(t, int64(19), second.NewTotal)
	})

	t.Run("Unhappy path - unknown contestant rolls back the insert", func(t *testing.T) {
		_, err := repo.AppendVoteEvent(ctx, voteAppend("v-5", "con-404", 5, ""))
		require.ErrorIs(t, err, domainerrors.ErrContestantNotFound)
		events, err := repo.ListVoteEvents(ctx, "con-404")
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	sum, err := repo.SumCredited(ctx, "con-1")
	require.NoError(t, err)
	assert.Equal(t, int64(19), sum.Credited)
	assert.Equal(t, 3, sum.Events)

	contestant, err := repo.GetContestant(ctx, "con-1")
	require.NoError(t, err)
	assert.Equal(t, sum.Credited, contestant.VoteTotal)
}

func TestAppendFreeVoteConcurrently(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)
	seedContestant(t, repo, "con-1", created)

	const callers = 8
	wrote := make([]bool, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entry := voteAppend("free-"+string(rune('a'+i)), "con-1", 1, "free:fan-1:con-1:2026-05-04")
			entry.Event.Source = entities.VoteSourceFree
			result, err := repo.AppendVoteEvent(ctx, entry)
			wrote[i] = result.Created
			errs[i] = err
		}(i)
	}
	wg.Wait()

	inserted := 0
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		if wrote[i] {
			inserted++
		}
	}
	assert.Equal(t, 1, inserted)
	contestant, err := repo.GetContestant(ctx, "con-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), contestant.VoteTotal)
}

func TestListContestantsOrder(t *testing.T) {
	ctx := context.Background()
	repo, outboxRepo := newTestRepository(t)
	seedContestant(t, repo, "con-b", created.Add(time.Hour))
	seedContestant(t, repo, "con-a", created)
	seedContestant(t, repo, "con-c", created.Add(2*time.Hour))

	for _, id := range []string{"con-b", "con-a"} {
		entry := voteAppend("v-"+id, id, 10, "")
		envelope, err := outboxEnvelope("evt-"+id, id)
		require.NoError(t, err)
		entry.Events = []ports.EventEnvelope{envelope}
		_, err = repo.AppendVoteEvent(ctx, entry)
		require.NoError(t, err)
	}

	items, err := repo.ListContestants(ctx, "spring-2026")
	require.NoError(t, err)
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ContestantID)
	}
	assert.Equal(t, []string{"con-a", "con-b", "con-c"}, ids)

	pending, err := outboxRepo.ListPendingOutbox(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func outboxEnvelope(eventID string, contestantID string) (events.Envelope, error) {
	return events.New(eventID, entities.EventTypeVoteRecorded, "vote-tally", "contestant_id", contestantID,
		created, entities.VoteRecordedPayload{ContestantID: contestantID})
}
