package messaging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"spotlight/internal/shared/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func envelope(id string, eventType string) events.Envelope {
	return events.Envelope{EventID: id, EventType: eventType}
}

func TestBusDeliversToEverySubscriber(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewBus(1, nil)
	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	received := map[string][]string{}
	done := make(chan struct{}, 4)
	record := func(group string) func(context.Context, events.Envelope) error {
		return func(_ context.Context, event events.Envelope) error {
			mu.Lock()
			received[group] = append(received[group], event.EventID)
			mu.Unlock()
			done <- struct{}{}
			return nil
		}
	}
	require.NoError(t, bus.Subscribe(ctx, "vote.recorded", "tally", record("tally")))
	require.NoError(t, bus.Subscribe(ctx, "vote.recorded", "audit", record("audit")))

	require.NoError(t, bus.Publish(ctx, "vote.recorded", envelope("evt-1", "vote.recorded")))
	require.NoError(t, bus.Publish(ctx, "vote.recorded", envelope("evt-2", "vote.recorded")))
	require.NoError(t, bus.Publish(ctx, "bonus.awarded", envelope("evt-3", "bonus.awarded")))

	for i := 0; i < 4; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for delivery")
		}
	}
	cancel()
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"evt-1", "evt-2"}, received["tally"])
	assert.Equal(t, []string{"evt-1", "evt-2"}, received["audit"])
}

func TestBusRetriesFailingHandler(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewBus(4, nil)
	bus.retryDelay = time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	calls := make(chan string, 8)
	flakyFailures := 1
	require.NoError(t, bus.Subscribe(ctx, "nominee.submitted", "notify", func(_ context.Context, event events.Envelope) error {
		calls <- event.EventID
		switch event.EventID {
		case "evt-bad":
			return errors.New("boom")
		case "evt-flaky":
			if flakyFailures > 0 {
				flakyFailures--
				return errors.New("smtp timeout")
			}
		}
		return nil
	}))

	require.NoError(t, bus.Publish(ctx, "nominee.submitted", envelope("evt-bad", "nominee.submitted")))
	require.NoError(t, bus.Publish(ctx, "nominee.submitted", envelope("evt-flaky", "nominee.submitted")))
	require.NoError(t, bus.Publish(ctx, "nominee.submitted", envelope("evt-good", "nominee.submitted")))

	got := make([]string, 0, 6)
	for len(got) < 6 {
		select {
		case id := <-calls:
			got = append(got, id)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after deliveries %v", got)
		}
	}
	assert.Equal(t, []string{"evt-bad", "evt-bad", "evt-bad", "evt-flaky", "evt-flaky", "evt-good"}, got)

	cancel()
	bus.Wait()
}

func TestBusPublishHonoursCancellation(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewBus(1, nil)
	subCtx, stop := context.WithCancel(context.Background())
	block := make(chan struct{})
	require.NoError(t, bus.Subscribe(subCtx, "vote.recorded", "slow", func(context.Context, events.Envelope) error {
		<-block
		return nil
	}))

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, "vote.recorded", envelope("evt-1", "vote.recorded")))

	timeout, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	var err error
	for i := 0; i < 3 && err == nil; i++ {
		err = bus.Publish(timeout, "vote.recorded", envelope("evt-next", "vote.recorded"))
	}
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	stop()
	close(block)
	bus.Wait()
}
