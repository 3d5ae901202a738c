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

type ConvertToContestantCommand struct {
	NomineeID string
	ActorID   string
}

type ConvertToContestantResult struct {
	Contestant entities.Contestant
	Replayed   bool
}

// ConvertToContestant is the only path that creates a contestant. Repeated or
// concurrent calls for one nominee all return the same contestant.
func (uc LifecycleUseCase) ConvertToContestant(ctx context.Context, cmd ConvertToContestantCommand) (ConvertToContestantResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	nomineeID := strings.TrimSpace(cmd.NomineeID)
	nominee, err := uc.Nominees.GetNominee(ctx, nomineeID)
	if err != nil {
		return ConvertToContestantResult{}, err
	}
	if nominee.Converted {
		contestant, err := uc.Contestants.GetContestantByNominee(ctx, nominee.NomineeID)
		if err != nil {
			return ConvertToContestantResult{}, err
		}
		logger.Info("nominee conversion replayed",
			"event", "nominee_convert_replayed",
			"module", "contest-engagement/nominee-lifecycle",
			"layer", "application",
			"nominee_id", nominee.NomineeID,
			"contestant_id", contestant.ContestantID,
		)
		return ConvertToContestantResult{Contestant: contestant, Replayed: true}, nil
	}

	from := nominee.Status
	to, err := services.NextStatus(from, entities.EventConvert)
	if err != nil {
		logger.Warn("nominee conversion forbidden",
			"event", "nominee_convert_forbidden",
			"module", "contest-engagement/nominee-lifecycle",
			"layer", "application",
			"nominee_id", nominee.NomineeID,
			"from_status", string(from),
		)
		return ConvertToContestantResult{}, err
	}

	now := uc.now()
	contestantID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return ConvertToContestantResult{}, err
	}
	contestant := entities.Contestant{
		ContestantID:  contestantID,
		CompetitionID: nominee.CompetitionID,
		NomineeID:     nominee.NomineeID,
		DisplayName:   nominee.DisplayName,
		Profile:       nominee.Profile.Normalized(),
		VoteTotal:     0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	convertedAt := now
	nominee.Status = to
	nominee.Converted = true
	nominee.ContestantID = contestantID
	nominee.ConvertedAt = &convertedAt
	nominee.UpdatedAt = now

	transition, err := uc.newTransition(ctx, nominee.NomineeID, from, to, entities.EventConvert, cmd.ActorID, now)
	if err != nil {
		return ConvertToContestantResult{}, err
	}
	envelope, err := uc.newLifecycleEnvelope(ctx, entities.EventTypeContestantCreated, nominee, from, now)
	if err != nil {
		return ConvertToContestantResult{}, err
	}

	result, err := uc.Contestants.ConvertNominee(ctx, ports.Conversion{
		Nominee:        nominee,
		ExpectedStatus: from,
		Contestant:     contestant,
		Transition:     transition,
		Events:         []ports.EventEnvelope{envelope},
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrStaleNominee) {
			return ConvertToContestantResult{}, domainerrors.ErrForbiddenTransition
		}
		return ConvertToContestantResult{}, err
	}
	if !result.Created {
		return ConvertToContestantResult{Contestant: result.Contestant, Replayed: true}, nil
	}
	uc.countTransition(entities.EventConvert, to)

	logger.Info("nominee converted to contestant",
		"event", "nominee_converted",
		"module", "contest-engagement/nominee-lifecycle",
		"layer", "application",
		"nominee_id", nominee.NomineeID,
		"contestant_id", result.Contestant.ContestantID,
		"competition_id", result.Contestant.CompetitionID,
	)
	return ConvertToContestantResult{Contestant: result.Contestant}, nil
}
