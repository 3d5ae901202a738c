package outbox_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"spotlight/internal/platform/db/dbtest"
	"spotlight/internal/shared/events"
	"spotlight/internal/shared/outbox"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	topics []string
	failAt int
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, _ events.Envelope) error {
	if p.failAt > 0 && len(p.topics)+1 == p.failAt {
		return errors.New("bus closed")
	}
	p.topics = append(p.topics, topic)
	return nil
}

func envelope(t *testing.T, id string, eventType string, at time.Time) events.Envelope {
	t.Helper()
	env, err := events.New(id, eventType, "vote-tally", "contestant_id", "con-1", at, map[string]any{"quantity": 1})
	require.NoError(t, err)
	return env
}

func TestRelayRunOnce(t *testing.T) {
	base := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

	t.Run("Happy path - publishes in append order and marks rows", func(t *testing.T) {
		log := outbox.NewMemoryLog()
		require.NoError(t, log.Append(
			envelope(t, "evt-1", "vote.recorded", base),
			envelope(t, "evt-2", "bonus.awarded", base.Add(time.Second)),
			envelope(t, "evt-1", "vote.recorded", base),
		))
		publisher := &recordingPublisher{}
		relay := outbox.Relay{Outbox: log, Publisher: publisher, Now: func() time.Time { return base }}

		published, err := relay.RunOnce(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, published)
		assert.Equal(t, []string{"vote.recorded", "bonus.awarded"}, publisher.topics)

		pending, err := log.ListPendingOutbox(context.Background(), 10)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("Unhappy path - publish failure leaves the rest pending", func(t *testing.T) {
		log := outbox.NewMemoryLog()
		require.NoError(t, log.Append(
			envelope(t, "evt-1", "vote.recorded", base),
			envelope(t, "evt-2", "vote.recorded", base.Add(time.Second)),
		))
		relay := outbox.Relay{Outbox: log, Publisher: &recordingPublisher{failAt: 2}}

		published, err := relay.RunOnce(context.Background())
		require.Error(t, err)
		assert.Equal(t, 1, published)

		pending, err := log.ListPendingOutbox(context.Background(), 10)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, "evt-2", pending[0].OutboxID)
	})
}

func TestRepository(t *testing.T) {
	gdb := dbtest.Open(t)
	repo := outbox.NewRepository(gdb)
	dbtest.Migrate(t, repo)
	ctx := context.Background()
	base := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

	require.NoError(t, outbox.Insert(gdb,
		envelope(t, "evt-2", "nominee.approved", base.Add(time.Minute)),
		envelope(t, "evt-1", "nominee.submitted", base),
	))
	require.NoError(t, outbox.Insert(gdb, envelope(t, "evt-1", "nominee.submitted", base)))

	pending, err := repo.ListPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "evt-1", pending[0].OutboxID)
	assert.Equal(t, "evt-2", pending[1].OutboxID)

	publisher := &recordingPublisher{}
	published, err := outbox.Relay{Outbox: repo, Publisher: publisher}.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, published)
	assert.Equal(t, []string{"nominee.submitted", "nominee.approved"}, publisher.topics)

	pending, err = repo.ListPendingOutbox(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	assert.ErrorIs(t, repo.MarkOutboxPublished(ctx, "missing", base), outbox.ErrMessageNotFound)
}
