package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	clockentities "spotlight/contexts/contest-engagement/competition-clock/domain/entities"
	clockerrors "spotlight/contexts/contest-engagement/competition-clock/domain/errors"
	nomineehttp "spotlight/contexts/contest-engagement/nominee-lifecycle/transport/http"
	voteerrors "spotlight/contexts/contest-engagement/vote-tally/domain/errors"
	"spotlight/internal/platform/config"
	"spotlight/internal/shared/outbox"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{
		ServiceName:                "spotlight-test",
		HTTPPort:                   "0",
		DatabaseDriver:             config.DriverSQLite,
		LogFormat:                  "text",
		LogLevel:                   "error",
		DefaultTimezone:            "UTC",
		MaxPurchaseQuantity:        1000,
		OutboxBatchSize:            50,
		WorkerPollInterval:         10 * time.Millisecond,
		NotificationDedupTTL:       time.Hour,
		EnableNotificationConsumer: true,
	}
}

func openRuntime(t *testing.T) *Runtime {
	t.Helper()
	cfg := testConfig()
	runtime, err := Open(cfg, NewLogger(cfg, io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { _ = runtime.Close() })
	require.NoError(t, runtime.Migrate(context.Background()))
	return runtime
}

func seedSpring(t *testing.T, runtime *Runtime) {
	t.Helper()
	require.NoError(t, ApplySeed(context.Background(), runtime.Modules, config.Seed{
		Competitions: []config.SeedCompetition{{ID: "spring-2026", Name: "Spring 2026", Timezone: "Africa/Lagos"}},
	}, runtime.Logger))
}

func nominationRequest() nomineehttp.SubmitNominationRequest {
	return nomineehttp.SubmitNominationRequest{
		Channel:     "self",
		DisplayName: "Ada Obi",
		Contact:     "ada@example.com",
	}
}

func call(t *testing.T, handler http.Handler, method string, target string, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	var payload map[string]any
	if rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload), rr.Body.String())
	}
	return rr.Code, payload
}

func TestEngagementFlowOverSQLite(t *testing.T) {
	runtime := openRuntime(t)
	seedSpring(t, runtime)
	handler := NewAPIApp(runtime, false).Handler()

	status, missing := call(t, handler, http.MethodPost, "/v1/competitions/winter-1999/nominees",
		`{"channel":"self","display_name":"Tobi Adeyemi","contact":"tobi@example.com"}`)
	require.Equal(t, http.StatusNotFound, status, missing)
	assert.Equal(t, "competition_not_found", missing["code"])

	status, nominee := call(t, handler, http.MethodPost, "/v1/competitions/spring-2026/nominees",
		`{"channel":"self","display_name":"Tobi Adeyemi","contact":"tobi@example.com"}`)
	require.Equal(t, http.StatusCreated, status, nominee)
	nomineeID, _ := nominee["nominee_id"].(string)

	status, contestant := call(t, handler, http.MethodPost, "/v1/nominees/"+nomineeID+"/convert", "")
	require.Equal(t, http.StatusCreated, status, contestant)
	contestantID, _ := contestant["contestant_id"].(string)
	require.NotEmpty(t, contestantID)

	status, replay := call(t, handler, http.MethodPost, "/v1/nominees/"+nomineeID+"/convert", "")
	require.Equal(t, http.StatusOK, status, replay)
	assert.Equal(t, contestantID, replay["contestant_id"])

	t.Run("Happy path - profile edit awards every satisfied profile task once", func(t *testing.T) {
		body := `{"profile":{"bio":"Poet","city":"Lagos","photo_ref":"photos/tobi.jpg","instagram":"tobi"}}`
		status, updated := call(t, handler, http.MethodPut, "/v1/contestants/"+contestantID+"/profile", body)
		require.Equal(t, http.StatusOK, status, updated)
		awards, _ := updated["bonus_awards"].([]any)
		assert.Len(t, awards, 3)
		assert.Equal(t, float64(20), updated["vote_total"])

		status, again := call(t, handler, http.MethodPut, "/v1/contestants/"+contestantID+"/profile", body)
		require.Equal(t, http.StatusOK, status)
		awards, _ = again["bonus_awards"].([]any)
		assert.Empty(t, awards)
	})

	t.Run("Happy path - purchased votes add to the bonus total", func(t *testing.T) {
		status, vote := call(t, handler, http.MethodPost, "/v1/contestants/"+contestantID+"/votes",
			`{"source":"purchased","quantity":3,"reference":"pay-1"}`)
		require.Equal(t, http.StatusCreated, status, vote)
		credited, _ := vote["credited_quantity"].(float64)
		assert.Equal(t, 20+credited, vote["new_total"])
	})

	t.Run("Happy path - leaderboard and audit agree", func(t *testing.T) {
		status, board := call(t, handler, http.MethodGet, "/v1/competitions/spring-2026/leaderboard", "")
		require.Equal(t, http.StatusOK, status)
		entries, _ := board["entries"].([]any)
		require.Len(t, entries, 1)
		first, _ := entries[0].(map[string]any)
		assert.Equal(t, float64(1), first["rank"])

		status, audit := call(t, handler, http.MethodGet, "/v1/contestants/"+contestantID+"/audit", "")
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, audit["consistent"])
	})

	t.Run("Happy path - bonus status earned within available", func(t *testing.T) {
		status, bonus := call(t, handler, http.MethodGet, "/v1/contestants/"+contestantID+"/bonus", "")
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(20), bonus["votes_earned"])
		assert.Equal(t, float64(25), bonus["votes_available"])
	})

	t.Run("Happy path - health and metrics", func(t *testing.T) {
		status, health := call(t, handler, http.MethodGet, "/healthz", "")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "ok", health["status"])

		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Contains(t, rr.Body.String(), `spotlight_votes_credited_total{source="purchased"}`)
		assert.Contains(t, rr.Body.String(), `spotlight_bonus_awards_total{task_key="add_photo"} 1`)
	})
}

func TestWorkerDrainsOutbox(t *testing.T) {
	runtime := openRuntime(t)
	seedSpring(t, runtime)
	ctx := context.Background()
	_, err := runtime.Modules.Nominees.Handler.SubmitNominationHandler(ctx, "spring-2026", nominationRequest())
	require.NoError(t, err)

	pending, err := runtime.outbox.ListPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.NotEmpty(t, pending)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	worker := NewWorkerApp(runtime)
	go func() {
		done <- worker.Run(runCtx)
	}()

	require.Eventually(t, func() bool {
		rows, err := runtime.outbox.ListPendingOutbox(ctx, 10)
		return err == nil && len(rows) == 0
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
}

// flakySource fails the first failures list calls, then reads the real outbox.
type flakySource struct {
	outbox.Source
	failures int

	mu    sync.Mutex
	calls int
}

func (s *flakySource) ListPendingOutbox(ctx context.Context, limit int) ([]outbox.Message, error) {
	s.mu.Lock()
	s.calls++
	fail := s.calls <= s.failures
	s.mu.Unlock()
	if fail {
		return nil, errors.New("connection reset by peer")
	}
	return s.Source.ListPendingOutbox(ctx, limit)
}

func (s *flakySource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestEmbeddedWorkerSurvivesRelayErrors(t *testing.T) {
	runtime := openRuntime(t)
	seedSpring(t, runtime)
	ctx := context.Background()
	_, err := runtime.Modules.Nominees.Handler.SubmitNominationHandler(ctx, "spring-2026", nominationRequest())
	require.NoError(t, err)

	app := NewAPIApp(runtime, true)
	source := &flakySource{Source: runtime.outbox, failures: 2}
	app.worker.relay.Outbox = source

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- app.Run(runCtx)
	}()

	require.Eventually(t, func() bool {
		rows, err := runtime.outbox.ListPendingOutbox(ctx, 10)
		return err == nil && len(rows) == 0
	}, 5*time.Second, 20*time.Millisecond)

	select {
	case err := <-done:
		t.Fatalf("api stopped while its context was live: %v", err)
	default:
	}
	assert.GreaterOrEqual(t, source.Calls(), 3)

	status, health := call(t, app.Handler(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", health["status"])

	scrape := httptest.NewRecorder()
	app.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, scrape.Body.String(), "spotlight_outbox_relay_failures_total 2")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("api did not stop")
	}
}

func TestRelayBackoff(t *testing.T) {
	assert.Equal(t, time.Second, relayBackoff(time.Second, 1))
	assert.Equal(t, 4*time.Second, relayBackoff(time.Second, 3))
	assert.Equal(t, maxRelayBackoff, relayBackoff(time.Second, 40))
	assert.Equal(t, maxRelayBackoff, relayBackoff(10*time.Second, 3))
}

type fakeCompetitionLookup struct {
	err error
}

func (f fakeCompetitionLookup) GetCompetition(_ context.Context, competitionID string) (clockentities.Competition, error) {
	return clockentities.Competition{CompetitionID: competitionID}, f.err
}

func TestCompetitionDirectory(t *testing.T) {
	t.Run("Happy path - known competition", func(t *testing.T) {
		exists, err := competitionDirectory{clock: fakeCompetitionLookup{}}.CompetitionExists(context.Background(), "spring-2026")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("Unhappy path - unknown competition", func(t *testing.T) {
		directory := competitionDirectory{clock: fakeCompetitionLookup{err: clockerrors.ErrCompetitionNotFound}}
		exists, err := directory.CompetitionExists(context.Background(), "winter-1999")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Unhappy path - clock store failure", func(t *testing.T) {
		directory := competitionDirectory{clock: fakeCompetitionLookup{err: errors.New("connection reset")}}
		_, err := directory.CompetitionExists(context.Background(), "spring-2026")
		assert.Error(t, err)
	})
}

type fakeCreditSource struct {
	window clockentities.CreditWindow
	err    error
}

func (f fakeCreditSource) CreditWindow(context.Context, string, time.Time) (clockentities.CreditWindow, error) {
	return f.window, f.err
}

func TestPromotionCalendar(t *testing.T) {
	at := time.Date(2026, 5, 4, 23, 30, 0, 0, time.UTC)
	lagos, err := time.LoadLocation("Africa/Lagos")
	require.NoError(t, err)

	t.Run("Happy path - clock window is passed through", func(t *testing.T) {
		calendar := promotionCalendar{clock: fakeCreditSource{window: clockentities.CreditWindow{
			Multiplier:       2,
			LocalDate:        "2026-05-05",
			PromotionPhaseID: "phase-9",
		}}}
		terms, err := calendar.CreditTerms(context.Background(), "spring-2026", at)
		require.NoError(t, err)
		assert.Equal(t, int64(2), terms.Multiplier)
		assert.Equal(t, "2026-05-05", terms.LocalDate)
		assert.Equal(t, "phase-9", terms.PromotionPhaseID)
	})

	t.Run("Happy path - unknown competition earns single credit on the fallback day", func(t *testing.T) {
		calendar := promotionCalendar{
			clock:    fakeCreditSource{err: clockerrors.ErrCompetitionNotFound},
			fallback: lagos,
		}
		terms, err := calendar.CreditTerms(context.Background(), "adhoc", at)
		require.NoError(t, err)
		assert.Equal(t, int64(1), terms.Multiplier)
		assert.Equal(t, "2026-05-05", terms.LocalDate)
	})

	t.Run("Unhappy path - clock store failure", func(t *testing.T) {
		calendar := promotionCalendar{clock: fakeCreditSource{err: errors.New("connection reset")}}
		_, err := calendar.CreditTerms(context.Background(), "spring-2026", at)
		assert.ErrorIs(t, err, voteerrors.ErrDependencyUnavailable)
	})
}

func TestNormalizeAddr(t *testing.T) {
	assert.Equal(t, ":8080", normalizeAddr(""))
	assert.Equal(t, ":9090", normalizeAddr("9090"))
	assert.Equal(t, ":9090", normalizeAddr(":9090"))
	assert.Equal(t, "127.0.0.1:9090", normalizeAddr("127.0.0.1:9090"))
}
