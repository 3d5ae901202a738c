package commands

import (
	"context"
	"log/slog"
	"strings"

	application "spotlight/contexts/contest-engagement/bonus-ledger/application"
	"spotlight/contexts/contest-engagement/bonus-ledger/domain/entities"
	domainerrors "spotlight/contexts/contest-engagement/bonus-ledger/domain/errors"
	"spotlight/contexts/contest-engagement/bonus-ledger/domain/services"
	"spotlight/contexts/contest-engagement/bonus-ledger/ports"
	"spotlight/internal/shared/events"
)

const sourceService = "bonus-ledger"

type AwardBonusVotesCommand struct {
	ContestantID string
	TaskKey      string
}

type CheckProfileBonusesCommand struct {
	ContestantID string
	// Snapshot overrides the stored contestant profile when set.
	Snapshot *entities.ProfileSnapshot
}

// LedgerUseCase grants bonus votes. The award record is the only proof of
// completion; concurrent awards for one task collapse on its unique key.
type LedgerUseCase struct {
	Catalog     ports.CatalogRepository
	Awards      ports.AwardRepository
	Contestants ports.ContestantDirectory
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Metrics     ports.Metrics
	Logger      *slog.Logger
}

// AwardBonusVotes grants a task's points. Profile tasks are granted only when
// the stored profile satisfies their predicate.
func (uc LedgerUseCase) AwardBonusVotes(ctx context.Context, cmd AwardBonusVotesCommand) (entities.AwardOutcome, error) {
	contestant, task, err := uc.resolveTask(ctx, cmd.ContestantID, cmd.TaskKey)
	if err != nil {
		return entities.AwardOutcome{}, err
	}
	if task.Kind == entities.TaskKindProfile {
		if satisfied, _ := services.Satisfied(task.Key, contestant.Profile); !satisfied {
			return uc.unsatisfiedProfileTask(ctx, contestant, task)
		}
	}
	return uc.award(ctx, contestant, task)
}

// unsatisfiedProfileTask keeps an earlier award visible as already-awarded
// after the profile stops satisfying the task.
func (uc LedgerUseCase) unsatisfiedProfileTask(ctx context.Context, contestant entities.ContestantRef, task entities.Task) (entities.AwardOutcome, error) {
	awards, err := uc.Awards.ListAwards(ctx, contestant.ContestantID)
	if err != nil {
		return entities.AwardOutcome{}, err
	}
	for _, award := range awards {
		if award.TaskKey == task.Key {
			return entities.AwardOutcome{
				Success:  false,
				TaskKey:  task.Key,
				NewTotal: contestant.VoteTotal,
				Reason:   entities.ReasonAlreadyAwarded,
			}, nil
		}
	}
	application.ResolveLogger(uc.Logger).Info("profile task not satisfied",
		"event", "bonus_profile_task_unsatisfied",
		"module", "contest-engagement/bonus-ledger",
		"layer", "application",
		"contestant_id", contestant.ContestantID,
		"task_key", task.Key,
	)
	return entities.AwardOutcome{}, domainerrors.ErrTaskNotSatisfied
}

// AcknowledgeTask completes an action task such as reading the rules.
func (uc LedgerUseCase) AcknowledgeTask(ctx context.Context, cmd AwardBonusVotesCommand) (entities.AwardOutcome, error) {
	contestant, task, err := uc.resolveTask(ctx, cmd.ContestantID, cmd.TaskKey)
	if err != nil {
		return entities.AwardOutcome{}, err
	}
	if task.Kind != entities.TaskKindAction {
		return entities.AwardOutcome{}, domainerrors.ErrTaskNotAcknowledgable
	}
	return uc.award(ctx, contestant, task)
}

// CheckAndAwardProfileBonuses awards every profile task whose predicate holds
// and returns only the tasks awarded by this call.
func (uc LedgerUseCase) CheckAndAwardProfileBonuses(ctx context.Context, cmd CheckProfileBonusesCommand) ([]entities.AwardOutcome, error) {
	logger := application.ResolveLogger(uc.Logger)
	contestant, err := uc.loadContestant(ctx, cmd.ContestantID)
	if err != nil {
		return nil, err
	}
	snapshot := contestant.Profile
	if cmd.Snapshot != nil {
		snapshot = *cmd.Snapshot
	}
	tasks, err := ensureCatalog(ctx, uc.Catalog, contestant.CompetitionID, nowFrom(uc.Clock))
	if err != nil {
		return nil, err
	}
	awards, err := uc.Awards.ListAwards(ctx, contestant.ContestantID)
	if err != nil {
		return nil, err
	}
	done := make(map[string]struct{}, len(awards))
	for _, award := range awards {
		done[award.TaskKey] = struct{}{}
	}

	awarded := make([]entities.AwardOutcome, 0)
	for _, task := range tasks {
		if task.Kind != entities.TaskKindProfile {
			continue
		}
		if _, ok := done[task.Key]; ok {
			continue
		}
		if satisfied, _ := services.Satisfied(task.Key, snapshot); !satisfied {
			continue
		}
		outcome, err := uc.award(ctx, contestant, task)
		if err != nil {
			return nil, err
		}
		if outcome.Success {
			awarded = append(awarded, outcome)
		}
	}
	logger.Info("profile bonuses checked",
		"event", "bonus_profile_checked",
		"module", "contest-engagement/bonus-ledger",
		"layer", "application",
		"contestant_id", contestant.ContestantID,
		"awarded", len(awarded),
	)
	return awarded, nil
}

func (uc LedgerUseCase) resolveTask(ctx context.Context, contestantID string, taskKey string) (entities.ContestantRef, entities.Task, error) {
	if strings.TrimSpace(taskKey) == "" {
		return entities.ContestantRef{}, entities.Task{}, domainerrors.ErrInvalidTask
	}
	contestant, err := uc.loadContestant(ctx, contestantID)
	if err != nil {
		return entities.ContestantRef{}, entities.Task{}, err
	}
	tasks, err := ensureCatalog(ctx, uc.Catalog, contestant.CompetitionID, nowFrom(uc.Clock))
	if err != nil {
		return entities.ContestantRef{}, entities.Task{}, err
	}
	task, ok := services.FindTask(tasks, taskKey)
	if !ok {
		application.ResolveLogger(uc.Logger).Warn("bonus task unknown",
			"event", "bonus_task_unknown",
			"module", "contest-engagement/bonus-ledger",
			"layer", "application",
			"contestant_id", contestant.ContestantID,
			"task_key", strings.TrimSpace(taskKey),
		)
		return entities.ContestantRef{}, entities.Task{}, domainerrors.ErrInvalidTask
	}
	return contestant, task, nil
}

func (uc LedgerUseCase) loadContestant(ctx context.Context, contestantID string) (entities.ContestantRef, error) {
	id := strings.TrimSpace(contestantID)
	if id == "" {
		return entities.ContestantRef{}, domainerrors.ErrInvalidInput
	}
	return uc.Contestants.GetContestant(ctx, id)
}

func (uc LedgerUseCase) award(ctx context.Context, contestant entities.ContestantRef, task entities.Task) (entities.AwardOutcome, error) {
	logger := application.ResolveLogger(uc.Logger)
	now := nowFrom(uc.Clock)
	awardID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.AwardOutcome{}, err
	}
	voteID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.AwardOutcome{}, err
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.AwardOutcome{}, err
	}
	record := entities.AwardRecord{
		AwardID:       awardID,
		ContestantID:  contestant.ContestantID,
		CompetitionID: contestant.CompetitionID,
		TaskKey:       task.Key,
		PointsGranted: task.Points,
		AwardedAt:     now,
	}
	envelope, err := events.New(eventID, entities.EventTypeBonusAwarded, sourceService,
		"contestant_id", contestant.ContestantID, now,
		entities.BonusAwardedPayload{
			AwardID:       awardID,
			ContestantID:  contestant.ContestantID,
			CompetitionID: contestant.CompetitionID,
			TaskKey:       task.Key,
			Points:        task.Points,
		})
	if err != nil {
		return entities.AwardOutcome{}, err
	}

	result, err := uc.Awards.AwardBonus(ctx, ports.BonusAward{
		Award: record,
		Vote: ports.BonusVote{
			VoteEventID:   voteID,
			ContestantID:  contestant.ContestantID,
			CompetitionID: contestant.CompetitionID,
			Quantity:      task.Points,
			DedupKey:      "bonus:" + contestant.ContestantID + ":" + task.Key,
			CreatedAt:     now,
		},
		Events: []ports.EventEnvelope{envelope},
	})
	if err != nil {
		return entities.AwardOutcome{}, err
	}
	if !result.Created {
		logger.Info("bonus already awarded",
			"event", "bonus_award_replayed",
			"module", "contest-engagement/bonus-ledger",
			"layer", "application",
			"contestant_id", contestant.ContestantID,
			"task_key", task.Key,
		)
		return entities.AwardOutcome{
			Success:  false,
			TaskKey:  task.Key,
			NewTotal: result.NewTotal,
			Reason:   entities.ReasonAlreadyAwarded,
		}, nil
	}
	if uc.Metrics != nil {
		uc.Metrics.BonusAwarded(task.Key, task.Points)
	}
	logger.Info("bonus votes awarded",
		"event", "bonus_awarded",
		"module", "contest-engagement/bonus-ledger",
		"layer", "application",
		"contestant_id", contestant.ContestantID,
		"task_key", task.Key,
		"points", task.Points,
		"new_total", result.NewTotal,
	)
	return entities.AwardOutcome{
		Success:      true,
		TaskKey:      task.Key,
		VotesAwarded: task.Points,
		NewTotal:     result.NewTotal,
	}, nil
}
