package commands

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "spotlight/contexts/contest-engagement/nominee-lifecycle/application"
	"spotlight/contexts/contest-engagement/nominee-lifecycle/domain/entities"
	domainerrors "spotlight/contexts/contest-engagement/nominee-lifecycle/domain/errors"
	"spotlight/contexts/contest-engagement/nominee-lifecycle/domain/services"
	"spotlight/contexts/contest-engagement/nominee-lifecycle/ports"
)

type SubmitNominationCommand struct {
	CompetitionID string
	Channel       entities.Channel
	DisplayName   string
	Contact       string
	Profile       entities.Profile
	Submitter     *entities.Submitter
}

type DecideNominationCommand struct {
	NomineeID string
	Decision  entities.Decision
	DeciderID string
}

type DeclineNominationCommand struct {
	NomineeID string
	ActorID   string
}

type ClaimNomineeCommand struct {
	NomineeID  string
	AccountID  string
	ClaimToken string
}

// LifecycleUseCase owns every nominee status change. Writes go through
// compare-and-set mutations so a concurrent change surfaces as a forbidden
// transition instead of a lost update.
type LifecycleUseCase struct {
	Nominees     ports.NomineeRepository
	Contestants  ports.ContestantRepository
	Competitions ports.CompetitionDirectory
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Tokens       ports.ClaimTokenGenerator
	Metrics      ports.Metrics
	Logger       *slog.Logger
}

func (uc LifecycleUseCase) SubmitNomination(ctx context.Context, cmd SubmitNominationCommand) (entities.Nominee, error) {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("nomination submit started",
		"event", "nominee_submit_started",
		"module", "contest-engagement/nominee-lifecycle",
		"layer", "application",
		"competition_id", strings.TrimSpace(cmd.CompetitionID),
		"channel", string(cmd.Channel),
	)

	status, event, err := services.InitialStatus(cmd.Channel)
	if err != nil || strings.TrimSpace(cmd.CompetitionID) == "" || strings.TrimSpace(cmd.DisplayName) == "" {
		logger.Warn("nomination submit validation failed",
			"event", "nominee_submit_validation_failed",
			"module", "contest-engagement/nominee-lifecycle",
			"layer", "application",
			"competition_id", strings.TrimSpace(cmd.CompetitionID),
			"channel", string(cmd.Channel),
		)
		return entities.Nominee{}, domainerrors.ErrInvalidNominationInput
	}
	if err := uc.requireCompetition(ctx, strings.TrimSpace(cmd.CompetitionID)); err != nil {
		return entities.Nominee{}, err
	}
	contact, contactKey, err := services.NormalizeContact(cmd.Contact)
	if err != nil {
		logger.Warn("nomination submit contact rejected",
			"event", "nominee_submit_contact_rejected",
			"module", "contest-engagement/nominee-lifecycle",
			"layer", "application",
			"competition_id", strings.TrimSpace(cmd.CompetitionID),
		)
		return entities.Nominee{}, err
	}

	var submitter *entities.Submitter
	switch cmd.Channel {
	case entities.ChannelThirdParty:
		if cmd.Submitter == nil || strings.TrimSpace(cmd.Submitter.Name) == "" {
			return entities.Nominee{}, domainerrors.ErrInvalidNominationInput
		}
		submitter = &entities.Submitter{
			SubmitterID: strings.TrimSpace(cmd.Submitter.SubmitterID),
			Name:        strings.TrimSpace(cmd.Submitter.Name),
			Contact:     strings.TrimSpace(cmd.Submitter.Contact),
		}
		if submitter.Contact != "" {
			if submitter.Contact, _, err = services.NormalizeContact(submitter.Contact); err != nil {
				return entities.Nominee{}, err
			}
		}
	case entities.ChannelSelf:
		if cmd.Submitter != nil {
			return entities.Nominee{}, domainerrors.ErrInvalidNominationInput
		}
	}

	now := uc.now()
	nomineeID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Nominee{}, err
	}
	nominee := entities.Nominee{
		NomineeID:     nomineeID,
		CompetitionID: strings.TrimSpace(cmd.CompetitionID),
		DisplayName:   strings.TrimSpace(cmd.DisplayName),
		Contact:       contact,
		ContactKey:    contactKey,
		Channel:       cmd.Channel,
		Submitter:     submitter,
		Status:        status,
		Profile:       cmd.Profile.Normalized(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if cmd.Channel == entities.ChannelThirdParty {
		token, err := uc.Tokens.NewClaimToken(ctx)
		if err != nil {
			return entities.Nominee{}, err
		}
		nominee.ClaimToken = token
	}

	transition, err := uc.newTransition(ctx, nominee.NomineeID, "", status, event, submitterID(submitter), now)
	if err != nil {
		return entities.Nominee{}, err
	}
	envelope, err := uc.newLifecycleEnvelope(ctx, entities.EventTypeNomineeSubmitted, nominee, "", now)
	if err != nil {
		return entities.Nominee{}, err
	}
	if err := uc.Nominees.CreateNominee(ctx, nominee, transition, []ports.EventEnvelope{envelope}); err != nil {
		if errors.Is(err, domainerrors.ErrDuplicateEntry) {
			logger.Warn("nomination duplicate contact",
				"event", "nominee_submit_duplicate",
				"module", "contest-engagement/nominee-lifecycle",
				"layer", "application",
				"competition_id", nominee.CompetitionID,
			)
		}
		return entities.Nominee{}, err
	}
	uc.countTransition(event, status)

	logger.Info("nomination submitted",
		"event", "nominee_submitted",
		"module", "contest-engagement/nominee-lifecycle",
		"layer", "application",
		"nominee_id", nominee.NomineeID,
		"competition_id", nominee.CompetitionID,
		"channel", string(nominee.Channel),
		"status", string(nominee.Status),
	)
	return nominee, nil
}

func (uc LifecycleUseCase) requireCompetition(ctx context.Context, competitionID string) error {
	if uc.Competitions == nil {
		return nil
	}
	exists, err := uc.Competitions.CompetitionExists(ctx, competitionID)
	if err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrDependencyUnavailable, err)
	}
	if !exists {
		application.ResolveLogger(uc.Logger).Warn("nomination submit competition unknown",
			"event", "nominee_submit_competition_unknown",
			"module", "contest-engagement/nominee-lifecycle",
			"layer", "application",
			"competition_id", competitionID,
		)
		return domainerrors.ErrCompetitionNotFound
	}
	return nil
}

func (uc LifecycleUseCase) DecideNomination(ctx context.Context, cmd DecideNominationCommand) (entities.Nominee, error) {
	var event entities.LifecycleEvent
	switch cmd.Decision {
	case entities.DecisionApprove:
		event = entities.EventApprove
	case entities.DecisionReject:
		event = entities.EventReject
	default:
		return entities.Nominee{}, domainerrors.ErrInvalidNominationInput
	}
	return uc.applyEvent(ctx, cmd.NomineeID, event, cmd.DeciderID, nil)
}

func (uc LifecycleUseCase) DeclineNomination(ctx context.Context, cmd DeclineNominationCommand) (entities.Nominee, error) {
	return uc.applyEvent(ctx, cmd.NomineeID, entities.EventDecline, cmd.ActorID, nil)
}

// ClaimNominee links an account without changing status. Repeating the claim
// with the same account is a no-op.
func (uc LifecycleUseCase) ClaimNominee(ctx context.Context, cmd ClaimNomineeCommand) (entities.Nominee, error) {
	logger := application.ResolveLogger(uc.Logger)
	accountID := strings.TrimSpace(cmd.AccountID)
	if accountID == "" || strings.TrimSpace(cmd.NomineeID) == "" {
		return entities.Nominee{}, domainerrors.ErrInvalidNominationInput
	}
	nominee, err := uc.Nominees.GetNominee(ctx, strings.TrimSpace(cmd.NomineeID))
	if err != nil {
		return entities.Nominee{}, err
	}
	if nominee.AccountID == accountID {
		return nominee, nil
	}
	if nominee.Claimed() {
		return entities.Nominee{}, domainerrors.ErrAlreadyClaimed
	}
	if nominee.Status.Terminal() {
		return entities.Nominee{}, domainerrors.ErrForbiddenTransition
	}
	if nominee.Channel == entities.ChannelThirdParty &&
		subtle.ConstantTimeCompare([]byte(strings.TrimSpace(cmd.ClaimToken)), []byte(nominee.ClaimToken)) != 1 {
		logger.Warn("nominee claim token mismatch",
			"event", "nominee_claim_token_mismatch",
			"module", "contest-engagement/nominee-lifecycle",
			"layer", "application",
			"nominee_id", nominee.NomineeID,
		)
		return entities.Nominee{}, domainerrors.ErrInvalidClaimToken
	}

	now := uc.now()
	previousStatus := nominee.Status
	nominee.AccountID = accountID
	nominee.UpdatedAt = now
	envelope, err := uc.newLifecycleEnvelope(ctx, entities.EventTypeNomineeClaimed, nominee, previousStatus, now)
	if err != nil {
		return entities.Nominee{}, err
	}
	err = uc.Nominees.SaveNominee(ctx, ports.NomineeMutation{
		Nominee:           nominee,
		ExpectedStatus:    previousStatus,
		ExpectedAccountID: "",
		Events:            []ports.EventEnvelope{envelope},
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrStaleNominee) {
			return uc.resolveClaimRace(ctx, nominee.NomineeID, accountID)
		}
		return entities.Nominee{}, err
	}
	logger.Info("nominee claimed",
		"event", "nominee_claimed",
		"module", "contest-engagement/nominee-lifecycle",
		"layer", "application",
		"nominee_id", nominee.NomineeID,
		"account_id", accountID,
	)
	return nominee, nil
}

func (uc LifecycleUseCase) resolveClaimRace(ctx context.Context, nomineeID string, accountID string) (entities.Nominee, error) {
	current, err := uc.Nominees.GetNominee(ctx, nomineeID)
	if err != nil {
		return entities.Nominee{}, err
	}
	if current.AccountID == accountID {
		return current, nil
	}
	if current.Claimed() {
		return entities.Nominee{}, domainerrors.ErrAlreadyClaimed
	}
	return entities.Nominee{}, domainerrors.ErrForbiddenTransition
}

// applyEvent runs one table-driven transition that has no side effects beyond
// the nominee row. mutate, when set, edits the nominee before it is stored.
func (uc LifecycleUseCase) applyEvent(
	ctx context.Context,
	nomineeID string,
	event entities.LifecycleEvent,
	actorID string,
	mutate func(*entities.Nominee) error,
) (entities.Nominee, error) {
	logger := application.ResolveLogger(uc.Logger)
	nominee, err := uc.Nominees.GetNominee(ctx, strings.TrimSpace(nomineeID))
	if err != nil {
		return entities.Nominee{}, err
	}
	from := nominee.Status
	to, err := services.NextStatus(from, event)
	if err != nil {
		logger.Warn("nominee transition forbidden",
			"event", "nominee_transition_forbidden",
			"module", "contest-engagement/nominee-lifecycle",
			"layer", "application",
			"nominee_id", nominee.NomineeID,
			"from_status", string(from),
			"lifecycle_event", string(event),
		)
		return entities.Nominee{}, err
	}
	if mutate != nil {
		if err := mutate(&nominee); err != nil {
			return entities.Nominee{}, err
		}
	}

	now := uc.now()
	expectedAccount := nominee.AccountID
	nominee.Status = to
	nominee.UpdatedAt = now
	if event == entities.EventApprove || event == entities.EventReject {
		decidedAt := now
		nominee.DecidedAt = &decidedAt
	}
	transition, err := uc.newTransition(ctx, nominee.NomineeID, from, to, event, actorID, now)
	if err != nil {
		return entities.Nominee{}, err
	}
	envelope, err := uc.newLifecycleEnvelope(ctx, eventTypeFor(event), nominee, from, now)
	if err != nil {
		return entities.Nominee{}, err
	}
	err = uc.Nominees.SaveNominee(ctx, ports.NomineeMutation{
		Nominee:           nominee,
		ExpectedStatus:    from,
		ExpectedAccountID: expectedAccount,
		Transition:        &transition,
		Events:            []ports.EventEnvelope{envelope},
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrStaleNominee) {
			return entities.Nominee{}, domainerrors.ErrForbiddenTransition
		}
		return entities.Nominee{}, err
	}
	uc.countTransition(event, to)

	logger.Info("nominee transitioned",
		"event", "nominee_transitioned",
		"module", "contest-engagement/nominee-lifecycle",
		"layer", "application",
		"nominee_id", nominee.NomineeID,
		"from_status", string(from),
		"to_status", string(to),
		"lifecycle_event", string(event),
		"actor_id", strings.TrimSpace(actorID),
	)
	return nominee, nil
}

func (uc LifecycleUseCase) newTransition(
	ctx context.Context,
	nomineeID string,
	from entities.NomineeStatus,
	to entities.NomineeStatus,
	event entities.LifecycleEvent,
	actorID string,
	now time.Time,
) (entities.Transition, error) {
	id, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Transition{}, err
	}
	return entities.Transition{
		TransitionID: id,
		NomineeID:    nomineeID,
		FromStatus:   from,
		ToStatus:     to,
		Event:        event,
		ActorID:      strings.TrimSpace(actorID),
		OccurredAt:   now,
	}, nil
}

func (uc LifecycleUseCase) countTransition(event entities.LifecycleEvent, to entities.NomineeStatus) {
	if uc.Metrics != nil {
		uc.Metrics.LifecycleTransition(string(event), string(to))
	}
}

func (uc LifecycleUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func submitterID(submitter *entities.Submitter) string {
	if submitter == nil {
		return ""
	}
	return submitter.SubmitterID
}
