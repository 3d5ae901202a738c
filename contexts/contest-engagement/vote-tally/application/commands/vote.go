package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "spotlight/contexts/contest-engagement/vote-tally/application"
	"spotlight/contexts/contest-engagement/vote-tally/domain/entities"
	domainerrors "spotlight/contexts/contest-engagement/vote-tally/domain/errors"
	"spotlight/contexts/contest-engagement/vote-tally/domain/services"
	"spotlight/contexts/contest-engagement/vote-tally/ports"
	"spotlight/internal/shared/events"
)

const sourceService = "vote-tally"

type SubmitVoteCommand struct {
	ContestantID string
	VoterID      string
	Source       entities.VoteSource
	Quantity     int64
	// Reference is the payment reference of a purchase. When set, retries
	// replay the original vote.
	Reference string
}

type VoteUseCase struct {
	Votes               ports.VoteRepository
	Contestants         ports.ContestantDirectory
	Calendar            ports.PromotionCalendar
	Clock               ports.Clock
	IDGen               ports.IDGenerator
	Metrics             ports.Metrics
	MaxPurchaseQuantity int64
	Logger              *slog.Logger
}

func (uc VoteUseCase) SubmitVote(ctx context.Context, cmd SubmitVoteCommand) (entities.VoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	contestantID := strings.TrimSpace(cmd.ContestantID)
	if contestantID == "" {
		return entities.VoteResult{}, domainerrors.ErrInvalidVoteInput
	}
	source := entities.VoteSource(strings.TrimSpace(string(cmd.Source)))
	raw, err := services.NormalizeQuantity(source, cmd.VoterID, cmd.Quantity, uc.MaxPurchaseQuantity)
	if err != nil {
		logger.Warn("vote rejected",
			"event", "vote_rejected",
			"module", "contest-engagement/vote-tally",
			"layer", "application",
			"contestant_id", contestantID,
			"source", string(source),
			"quantity", cmd.Quantity,
			"error", err.Error(),
		)
		return entities.VoteResult{}, err
	}

	contestant, err := uc.Contestants.GetContestant(ctx, contestantID)
	if err != nil {
		return entities.VoteResult{}, err
	}
	now := uc.now()
	terms, err := uc.Calendar.CreditTerms(ctx, contestant.CompetitionID, now)
	if err != nil {
		return entities.VoteResult{}, err
	}
	credited, multiplier := services.Credit(raw, terms.Multiplier)

	voteID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.VoteResult{}, err
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.VoteResult{}, err
	}
	vote := entities.VoteEvent{
		VoteEventID:      voteID,
		ContestantID:     contestant.ContestantID,
		CompetitionID:    contestant.CompetitionID,
		Source:           source,
		RawQuantity:      raw,
		Multiplier:       multiplier,
		CreditedQuantity: credited,
		VoterID:          strings.TrimSpace(cmd.VoterID),
		Reference:        strings.TrimSpace(cmd.Reference),
		LocalDate:        terms.LocalDate,
		CreatedAt:        now,
	}
	switch {
	case source == entities.VoteSourceFree:
		vote.DedupKey = services.FreeVoteDedupKey(vote.VoterID, vote.ContestantID, terms.LocalDate)
	case vote.Reference != "":
		vote.DedupKey = services.PurchaseDedupKey(vote.Reference)
	}
	envelope, err := events.New(eventID, entities.EventTypeVoteRecorded, sourceService,
		"contestant_id", vote.ContestantID, now,
		entities.VoteRecordedPayload{
			VoteEventID:      vote.VoteEventID,
			ContestantID:     vote.ContestantID,
			CompetitionID:    vote.CompetitionID,
			Source:           string(vote.Source),
			RawQuantity:      vote.RawQuantity,
			Multiplier:       vote.Multiplier,
			CreditedQuantity: vote.CreditedQuantity,
			LocalDate:        vote.LocalDate,
		})
	if err != nil {
		return entities.VoteResult{}, err
	}

	result, err := uc.Votes.AppendVoteEvent(ctx, ports.VoteAppend{
		Event:  vote,
		Events: []ports.EventEnvelope{envelope},
	})
	if err != nil {
		return entities.VoteResult{}, err
	}
	if !result.Created {
		return uc.replay(logger, vote, result)
	}
	if uc.Metrics != nil {
		uc.Metrics.VoteCredited(string(source), credited)
	}
	logger.Info("vote recorded",
		"event", "vote_recorded",
		"module", "contest-engagement/vote-tally",
		"layer", "application",
		"contestant_id", vote.ContestantID,
		"competition_id", vote.CompetitionID,
		"source", string(source),
		"raw_quantity", raw,
		"multiplier", multiplier,
		"credited_quantity", credited,
		"new_total", result.NewTotal,
	)
	return entities.VoteResult{
		VoteEventID:      result.Event.VoteEventID,
		ContestantID:     vote.ContestantID,
		Source:           source,
		CreditedQuantity: credited,
		Multiplier:       multiplier,
		NewTotal:         result.NewTotal,
	}, nil
}

// replay resolves a dedup collision: a second free vote on the same local day
// is exhausted, a purchase retry returns the original event.
func (uc VoteUseCase) replay(logger *slog.Logger, attempted entities.VoteEvent, result ports.AppendResult) (entities.VoteResult, error) {
	original := result.Event
	if attempted.Source == entities.VoteSourceFree {
		logger.Info("free vote exhausted",
			"event", "vote_free_exhausted",
			"module", "contest-engagement/vote-tally",
			"layer", "application",
			"contestant_id", attempted.ContestantID,
			"voter_id", attempted.VoterID,
			"local_date", attempted.LocalDate,
		)
		return entities.VoteResult{}, domainerrors.ErrFreeVoteExhausted
	}
	if original.ContestantID != attempted.ContestantID || original.RawQuantity != attempted.RawQuantity || original.Source != attempted.Source {
		logger.Warn("payment reference reused",
			"event", "vote_reference_conflict",
			"module", "contest-engagement/vote-tally",
			"layer", "application",
			"contestant_id", attempted.ContestantID,
			"reference", attempted.Reference,
		)
		return entities.VoteResult{}, domainerrors.ErrReferenceConflict
	}
	logger.Info("purchased vote replayed",
		"event", "vote_replayed",
		"module", "contest-engagement/vote-tally",
		"layer", "application",
		"contestant_id", original.ContestantID,
		"vote_event_id", original.VoteEventID,
	)
	return entities.VoteResult{
		VoteEventID:      original.VoteEventID,
		ContestantID:     original.ContestantID,
		Source:           original.Source,
		CreditedQuantity: original.CreditedQuantity,
		Multiplier:       original.Multiplier,
		NewTotal:         result.NewTotal,
		Replayed:         true,
	}, nil
}

func (uc VoteUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
