package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"spotlight/contexts/contest-engagement/nominee-lifecycle/adapters/memory"
	"spotlight/contexts/contest-engagement/nominee-lifecycle/application/commands"
	"spotlight/contexts/contest-engagement/nominee-lifecycle/domain/entities"
	domainerrors "spotlight/contexts/contest-engagement/nominee-lifecycle/domain/errors"
	"spotlight/contexts/contest-engagement/nominee-lifecycle/domain/services"
	"spotlight/contexts/contest-engagement/nominee-lifecycle/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type countingMetrics struct {
	mu    sync.Mutex
	calls map[string]int
}

func (m *countingMetrics) LifecycleTransition(event string, to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[event+"->"+to]++
}

func newUseCase() (commands.LifecycleUseCase, *memory.Store, *countingMetrics) {
	store := memory.NewStore()
	metrics := &countingMetrics{}
	return commands.LifecycleUseCase{
		Nominees:    store,
		Contestants: store,
		Clock:       fixedClock{now: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)},
		IDGen:       store,
		Tokens:      store,
		Metrics:     metrics,
	}, store, metrics
}

func thirdParty(contact string) commands.SubmitNominationCommand {
	return commands.SubmitNominationCommand{
		CompetitionID: "spring-2026",
		Channel:       entities.ChannelThirdParty,
		DisplayName:   "Jasmine Okafor",
		Contact:       contact,
		Submitter:     &entities.Submitter{SubmitterID: "fan-1", Name: "Ada"},
	}
}

func selfNomination(contact string) commands.SubmitNominationCommand {
	return commands.SubmitNominationCommand{
		CompetitionID: "spring-2026",
		Channel:       entities.ChannelSelf,
		DisplayName:   "Tobi Adeyemi",
		Contact:       contact,
	}
}

func statusPath(t *testing.T, store *memory.Store, nomineeID string) []entities.NomineeStatus {
	t.Helper()
	history, err := store.ListTransitions(context.Background(), nomineeID)
	require.NoError(t, err)
	path := make([]entities.NomineeStatus, 0, len(history))
	for _, transition := range history {
		path = append(path, transition.ToStatus)
	}
	return path
}

func TestThirdPartyNominationToContestant(t *testing.T) {
	ctx := context.Background()
	uc, store, metrics := newUseCase()

	nominee, err := uc.SubmitNomination(ctx, thirdParty("jasmine@example.com"))
	require.NoError(t, err)
	assert.Equal(t, entities.NomineeStatusPendingApproval, nominee.Status)
	assert.NotEmpty(t, nominee.ClaimToken)

	nominee, err = uc.DecideNomination(ctx, commands.DecideNominationCommand{
		NomineeID: nominee.NomineeID,
		Decision:  entities.DecisionApprove,
		DeciderID: "host-1",
	})
	require.NoError(t, err)
	assert.Equal(t, entities.NomineeStatusAwaitingProfile, nominee.Status)
	require.NotNil(t, nominee.DecidedAt)

	_, err = uc.MarkProfileComplete(ctx, commands.MarkProfileCompleteCommand{NomineeID: nominee.NomineeID})
	require.ErrorIs(t, err, domainerrors.ErrIncompleteProfile)

	_, err = uc.UpdateNomineeProfile(ctx, commands.UpdateNomineeProfileCommand{
		NomineeID: nominee.NomineeID,
		Profile: entities.Profile{
			Bio:       "Afrobeats vocalist",
			City:      "Houston",
			Interests: []string{"music"},
		},
	})
	require.NoError(t, err)

	nominee, err = uc.MarkProfileComplete(ctx, commands.MarkProfileCompleteCommand{NomineeID: nominee.NomineeID})
	require.NoError(t, err)
	assert.Equal(t, entities.NomineeStatusProfileComplete, nominee.Status)
	assert.True(t, nominee.ProfileComplete)

	result, err := uc.ConvertToContestant(ctx, commands.ConvertToContestantCommand{NomineeID: nominee.NomineeID})
	require.NoError(t, err)
	assert.False(t, result.Replayed)
	assert.Equal(t, int64(0), result.Contestant.VoteTotal)
	assert.Equal(t, "Jasmine Okafor", result.Contestant.DisplayName)
	assert.Equal(t, "Houston", result.Contestant.Profile.City)

	stored, err := store.GetNominee(ctx, nominee.NomineeID)
	require.NoError(t, err)
	assert.Equal(t, entities.NomineeStatusApproved, stored.Status)
	assert.True(t, stored.Converted)
	assert.Equal(t, result.Contestant.ContestantID, stored.ContestantID)

	path := statusPath(t, store, nominee.NomineeID)
	assert.Equal(t, []entities.NomineeStatus{
		entities.NomineeStatusPendingApproval,
		entities.NomineeStatusAwaitingProfile,
		entities.NomineeStatusProfileComplete,
		entities.NomineeStatusApproved,
	}, path)
	assert.True(t, services.ValidPath(path))

	assert.Equal(t, []string{
		entities.EventTypeNomineeSubmitted,
		entities.EventTypeNomineeApproved,
		entities.EventTypeNomineeProfileCompleted,
		entities.EventTypeContestantCreated,
	}, store.Outbox.EventTypes())
	assert.Equal(t, 1, metrics.calls["convert->approved"])
}

func TestSubmitNomination(t *testing.T) {
	ctx := context.Background()

	t.Run("Happy path - self nomination starts pending without a claim token", func(t *testing.T) {
		uc, _, _ := newUseCase()
		nominee, err := uc.SubmitNomination(ctx, selfNomination("tobi@example.com"))
		require.NoError(t, err)
		assert.Equal(t, entities.NomineeStatusPending, nominee.Status)
		assert.Empty(t, nominee.ClaimToken)
		assert.Nil(t, nominee.Submitter)
	})

	t.Run("Unhappy path - contact reused in the same competition", func(t *testing.T) {
		uc, _, _ := newUseCase()
		_, err := uc.SubmitNomination(ctx, selfNomination("tobi@example.com"))
		require.NoError(t, err)
		_, err = uc.SubmitNomination(ctx, thirdParty("TOBI@example.com"))
		assert.ErrorIs(t, err, domainerrors.ErrDuplicateEntry)
	})

	t.Run("Happy path - same contact in another competition", func(t *testing.T) {
		uc, _, _ := newUseCase()
		_, err := uc.SubmitNomination(ctx, selfNomination("tobi@example.com"))
		require.NoError(t, err)
		other := selfNomination("tobi@example.com")
		other.CompetitionID = "autumn-2026"
		_, err = uc.SubmitNomination(ctx, other)
		assert.NoError(t, err)
	})

	t.Run("Unhappy path - missing name or malformed contact", func(t *testing.T) {
		uc, _, _ := newUseCase()
		cmd := selfNomination("tobi@example.com")
		cmd.DisplayName = " "
		_, err := uc.SubmitNomination(ctx, cmd)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidNominationInput)

		_, err = uc.SubmitNomination(ctx, selfNomination("tobi-at-example"))
		assert.ErrorIs(t, err, domainerrors.ErrInvalidContact)
	})

	t.Run("Unhappy path - submitter rules per channel", func(t *testing.T) {
		uc, _, _ := newUseCase()
		cmd := thirdParty("jasmine@example.com")
		cmd.Submitter = nil
		_, err := uc.SubmitNomination(ctx, cmd)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidNominationInput)

		self := selfNomination("tobi@example.com")
		self.Submitter = &entities.Submitter{Name: "Ada"}
		_, err = uc.SubmitNomination(ctx, self)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidNominationInput)
	})
}

func TestForbiddenTransitionsLeaveStateUnchanged(t *testing.T) {
	ctx := context.Background()
	uc, store, _ := newUseCase()

	nominee, err := uc.SubmitNomination(ctx, thirdParty("jasmine@example.com"))
	require.NoError(t, err)

	_, err = uc.ConvertToContestant(ctx, commands.ConvertToContestantCommand{NomineeID: nominee.NomineeID})
	require.ErrorIs(t, err, domainerrors.ErrForbiddenTransition)

	rejected, err := uc.DecideNomination(ctx, commands.DecideNominationCommand{
		NomineeID: nominee.NomineeID,
		Decision:  entities.DecisionReject,
	})
	require.NoError(t, err)
	assert.Equal(t, entities.NomineeStatusRejected, rejected.Status)

	_, err = uc.DeclineNomination(ctx, commands.DeclineNominationCommand{NomineeID: nominee.NomineeID})
	require.ErrorIs(t, err, domainerrors.ErrForbiddenTransition)
	_, err = uc.DecideNomination(ctx, commands.DecideNominationCommand{
		NomineeID: nominee.NomineeID,
		Decision:  entities.DecisionApprove,
	})
	require.ErrorIs(t, err, domainerrors.ErrForbiddenTransition)

	stored, err := store.GetNominee(ctx, nominee.NomineeID)
	require.NoError(t, err)
	assert.Equal(t, entities.NomineeStatusRejected, stored.Status)
	assert.Len(t, statusPath(t, store, nominee.NomineeID), 2)

	_, err = uc.DecideNomination(ctx, commands.DecideNominationCommand{
		NomineeID: nominee.NomineeID,
		Decision:  "maybe",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidNominationInput)
}

func TestConvertToContestant(t *testing.T) {
	ctx := context.Background()

	t.Run("Happy path - repeated calls return the same contestant", func(t *testing.T) {
		uc, store, _ := newUseCase()
		nominee, err := uc.SubmitNomination(ctx, selfNomination("tobi@example.com"))
		require.NoError(t, err)

		first, err := uc.ConvertToContestant(ctx, commands.ConvertToContestantCommand{NomineeID: nominee.NomineeID})
		require.NoError(t, err)
		second, err := uc.ConvertToContestant(ctx, commands.ConvertToContestantCommand{NomineeID: nominee.NomineeID})
		require.NoError(t, err)

		assert.True(t, second.Replayed)
		assert.Equal(t, first.Contestant.ContestantID, second.Contestant.ContestantID)
		contestants, err := store.ListContestants(ctx, "spring-2026")
		require.NoError(t, err)
		assert.Len(t, contestants, 1)
	})

	t.Run("Happy path - concurrent calls create one contestant", func(t *testing.T) {
		uc, store, _ := newUseCase()
		nominee, err := uc.SubmitNomination(ctx, selfNomination("tobi@example.com"))
		require.NoError(t, err)

		const callers = 16
		ids := make([]string, callers)
		errs := make([]error, callers)
		var wg sync.WaitGroup
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				result, err := uc.ConvertToContestant(ctx, commands.ConvertToContestantCommand{NomineeID: nominee.NomineeID})
				ids[i] = result.Contestant.ContestantID
				errs[i] = err
			}(i)
		}
		wg.Wait()

		for i := 0; i < callers; i++ {
			require.NoError(t, errs[i])
			assert.Equal(t, ids[0], ids[i])
		}
		contestants, err := store.ListContestants(ctx, "spring-2026")
		require.NoError(t, err)
		assert.Len(t, contestants, 1)
		assert.Equal(t, 1, countType(store.Outbox.EventTypes(), entities.EventTypeContestantCreated))
	})
}

func TestClaimNominee(t *testing.T) {
	ctx := context.Background()

	t.Run("Happy path - third-party claim with token is idempotent", func(t *testing.T) {
		uc, _, _ := newUseCase()
		nominee, err := uc.SubmitNomination(ctx, thirdParty("jasmine@example.com"))
		require.NoError(t, err)

		claimed, err := uc.ClaimNominee(ctx, commands.ClaimNomineeCommand{
			NomineeID:  nominee.NomineeID,
			AccountID:  "acct-1",
			ClaimToken: nominee.ClaimToken,
		})
		require.NoError(t, err)
		assert.Equal(t, "acct-1", claimed.AccountID)
		assert.Equal(t, entities.NomineeStatusPendingApproval, claimed.Status)

		again, err := uc.ClaimNominee(ctx, commands.ClaimNomineeCommand{
			NomineeID: nominee.NomineeID,
			AccountID: "acct-1",
		})
		require.NoError(t, err)
		assert.Equal(t, "acct-1", again.AccountID)
	})

	t.Run("Unhappy path - different account or wrong token", func(t *testing.T) {
		uc, _, _ := newUseCase()
		nominee, err := uc.SubmitNomination(ctx, thirdParty("jasmine@example.com"))
		require.NoError(t, err)

		_, err = uc.ClaimNominee(ctx, commands.ClaimNomineeCommand{
			NomineeID:  nominee.NomineeID,
			AccountID:  "acct-1",
			ClaimToken: "guess",
		})
		require.ErrorIs(t, err, domainerrors.ErrInvalidClaimToken)

		_, err = uc.ClaimNominee(ctx, commands.ClaimNomineeCommand{
			NomineeID:  nominee.NomineeID,
			AccountID:  "acct-1",
			ClaimToken: nominee.ClaimToken,
		})
		require.NoError(t, err)

		_, err = uc.ClaimNominee(ctx, commands.ClaimNomineeCommand{
			NomineeID:  nominee.NomineeID,
			AccountID:  "acct-2",
			ClaimToken: nominee.ClaimToken,
		})
		assert.ErrorIs(t, err, domainerrors.ErrAlreadyClaimed)
	})

	t.Run("Unhappy path - terminal nominee cannot be claimed", func(t *testing.T) {
		uc, _, _ := newUseCase()
		nominee, err := uc.SubmitNomination(ctx, selfNomination("tobi@example.com"))
		require.NoError(t, err)
		_, err = uc.DeclineNomination(ctx, commands.DeclineNominationCommand{NomineeID: nominee.NomineeID})
		require.NoError(t, err)

		_, err = uc.ClaimNominee(ctx, commands.ClaimNomineeCommand{
			NomineeID: nominee.NomineeID,
			AccountID: "acct-1",
		})
		assert.ErrorIs(t, err, domainerrors.ErrForbiddenTransition)
	})
}

func TestUpdateContestantProfileKeepsVoteTotal(t *testing.T) {
	ctx := context.Background()
	uc, store, _ := newUseCase()
	nominee, err := uc.SubmitNomination(ctx, selfNomination("tobi@example.com"))
	require.NoError(t, err)
	converted, err := uc.ConvertToContestant(ctx, commands.ConvertToContestantCommand{NomineeID: nominee.NomineeID})
	require.NoError(t, err)
	store.AddVotes(converted.Contestant.ContestantID, 7)

	updated, err := uc.UpdateContestantProfile(ctx, commands.UpdateContestantProfileCommand{
		ContestantID: converted.Contestant.ContestantID,
		Profile:      entities.Profile{Bio: "Poet", City: "Accra", Instagram: "@tobi"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), updated.VoteTotal)
	assert.Equal(t, "@tobi", updated.Profile.Instagram)
	assert.Equal(t, "Tobi Adeyemi", updated.DisplayName)

	_, err = uc.UpdateContestantProfile(ctx, commands.UpdateContestantProfileCommand{ContestantID: "missing"})
	assert.ErrorIs(t, err, domainerrors.ErrContestantNotFound)
}

func countType(types []string, want string) int {
	count := 0
	for _, value := range types {
		if value == want {
			count++
		}
	}
	return count
}

type competitionSet struct {
	known map[string]bool
	err   error
}

func (c competitionSet) CompetitionExists(_ context.Context, competitionID string) (bool, error) {
	return c.known[competitionID], c.err
}

func TestSubmitNominationChecksCompetition(t *testing.T) {
	t.Run("Happy path - known competition", func(t *testing.T) {
		uc, _, _ := newUseCase()
		uc.Competitions = competitionSet{known: map[string]bool{"spring-2026": true}}
		nominee, err := uc.SubmitNomination(context.Background(), selfNomination("tobi@example.com"))
		require.NoError(t, err)
		assert.Equal(t, "spring-2026", nominee.CompetitionID)
	})

	t.Run("Unhappy path - unknown competition", func(t *testing.T) {
		uc, store, metrics := newUseCase()
		uc.Competitions = competitionSet{known: map[string]bool{"spring-2026": true}}
		cmd := selfNomination("tobi@example.com")
		cmd.CompetitionID = "winter-1999"
		_, err := uc.SubmitNomination(context.Background(), cmd)
		assert.ErrorIs(t, err, domainerrors.ErrCompetitionNotFound)

		stored, err := store.ListNominees(context.Background(), ports.NomineeFilter{CompetitionID: "winter-1999"})
		require.NoError(t, err)
		assert.Empty(t, stored)
		assert.Empty(t, metrics.calls)
	})

	t.Run("Unhappy path - directory unavailable", func(t *testing.T) {
		uc, _, _ := newUseCase()
		uc.Competitions = competitionSet{err: errors.New("connection refused")}
		_, err := uc.SubmitNomination(context.Background(), selfNomination("tobi@example.com"))
		assert.ErrorIs(t, err, domainerrors.ErrDependencyUnavailable)
	})
}
