package commands

import (
	"context"
	"errors"
	"strings"

	application "spotlight/contexts/contest-engagement/nominee-lifecycle/application"
	"spotlight/contexts/contest-engagement/nominee-lifecycle/domain/entities"
	domainerrors "spotlight/contexts/contest-engagement/nominee-lifecycle/domain/errors"
	"spotlight/contexts/contest-engagement/nominee-lifecycle/domain/services"
	"spotlight/contexts/contest-engagement/nominee-lifecycle/ports"
)

type UpdateNomineeProfileCommand struct {
	NomineeID   string
	DisplayName string
	Profile     entities.Profile
}

type MarkProfileCompleteCommand struct {
	NomineeID string
	ActorID   string
}

type UpdateContestantProfileCommand struct {
	ContestantID string
	DisplayName  string
	Profile      entities.Profile
}

// UpdateNomineeProfile replaces the profile of a non-terminal nominee without
// changing its status.
func (uc LifecycleUseCase) UpdateNomineeProfile(ctx context.Context, cmd UpdateNomineeProfileCommand) (entities.Nominee, error) {
	logger := application.ResolveLogger(uc.Logger)
	nominee, err := uc.Nominees.GetNominee(ctx, strings.TrimSpace(cmd.NomineeID))
	if err != nil {
		return entities.Nominee{}, err
	}
	if nominee.Status.Terminal() {
		return entities.Nominee{}, domainerrors.ErrForbiddenTransition
	}
	expectedStatus := nominee.Status
	expectedAccount := nominee.AccountID
	nominee.Profile = cmd.Profile.Normalized()
	if name := strings.TrimSpace(cmd.DisplayName); name != "" {
		nominee.DisplayName = name
	}
	nominee.UpdatedAt = uc.now()
	if err := uc.Nominees.SaveNominee(ctx, ports.NomineeMutation{
		Nominee:           nominee,
		ExpectedStatus:    expectedStatus,
		ExpectedAccountID: expectedAccount,
	}); err != nil {
		if errors.Is(err, domainerrors.ErrStaleNominee) {
			return entities.Nominee{}, domainerrors.ErrForbiddenTransition
		}
		return entities.Nominee{}, err
	}
	logger.Info("nominee profile updated",
		"event", "nominee_profile_updated",
		"module", "contest-engagement/nominee-lifecycle",
		"layer", "application",
		"nominee_id", nominee.NomineeID,
		"status", string(nominee.Status),
	)
	return nominee, nil
}

// MarkProfileComplete moves awaiting_profile to profile_complete once bio, city
// and an interest or photo are present.
func (uc LifecycleUseCase) MarkProfileComplete(ctx context.Context, cmd MarkProfileCompleteCommand) (entities.Nominee, error) {
	logger := application.ResolveLogger(uc.Logger)
	return uc.applyEvent(ctx, cmd.NomineeID, entities.EventProfileCompleted, cmd.ActorID, func(nominee *entities.Nominee) error {
		if !services.ProfileMeetsCompletion(nominee.Profile) {
			logger.Warn("nominee profile incomplete",
				"event", "nominee_profile_incomplete",
				"module", "contest-engagement/nominee-lifecycle",
				"layer", "application",
				"nominee_id", nominee.NomineeID,
			)
			return domainerrors.ErrIncompleteProfile
		}
		nominee.ProfileComplete = true
		return nil
	})
}

// UpdateContestantProfile edits the public profile. Callers follow up with the
// bonus ledger profile check to award newly satisfied tasks.
func (uc LifecycleUseCase) UpdateContestantProfile(ctx context.Context, cmd UpdateContestantProfileCommand) (entities.Contestant, error) {
	logger := application.ResolveLogger(uc.Logger)
	contestant, err := uc.Contestants.GetContestant(ctx, strings.TrimSpace(cmd.ContestantID))
	if err != nil {
		return entities.Contestant{}, err
	}
	contestant.Profile = cmd.Profile.Normalized()
	if name := strings.TrimSpace(cmd.DisplayName); name != "" {
		contestant.DisplayName = name
	}
	contestant.UpdatedAt = uc.now()
	updated, err := uc.Contestants.UpdateContestantProfile(ctx, contestant)
	if err != nil {
		return entities.Contestant{}, err
	}
	logger.Info("contestant profile updated",
		"event", "contestant_profile_updated",
		"module", "contest-engagement/nominee-lifecycle",
		"layer", "application",
		"contestant_id", updated.ContestantID,
	)
	return updated, nil
}
