package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "spotlight/contexts/contest-engagement/competition-clock/application"
	"spotlight/contexts/contest-engagement/competition-clock/domain/entities"
	domainerrors "spotlight/contexts/contest-engagement/competition-clock/domain/errors"
	"spotlight/contexts/contest-engagement/competition-clock/domain/services"
	"spotlight/contexts/contest-engagement/competition-clock/ports"
)

type PhaseInput struct {
	Name         string
	StartsAt     time.Time
	EndsAt       time.Time
	DoubleCredit bool
}

type CreateCompetitionCommand struct {
	CompetitionID    string
	Name             string
	Timezone         string
	Phases           []PhaseInput
	PromotionalDates []string
}

type CreateCompetitionResult struct {
	Competition entities.Competition
	Replayed    bool
}

type AddPhaseCommand struct {
	CompetitionID string
	Name          string
	StartsAt      time.Time
	EndsAt        time.Time
	DoubleCredit  bool
}

type AddPromotionalDayCommand struct {
	CompetitionID string
	Date          string
	Name          string
}

// CompetitionUseCase maintains competition schedules.
type CompetitionUseCase struct {
	Competitions    ports.CompetitionRepository
	Clock           ports.Clock
	IDGen           ports.IDGenerator
	DefaultTimezone string
	Logger          *slog.Logger
}

// CreateCompetition is replay safe when the caller supplies CompetitionID: a
// second call with the same id returns the stored competition untouched.
func (uc CompetitionUseCase) CreateCompetition(
	ctx context.Context,
	cmd CreateCompetitionCommand,
) (CreateCompetitionResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	timezone := strings.TrimSpace(cmd.Timezone)
	if timezone == "" {
		timezone = strings.TrimSpace(uc.DefaultTimezone)
	}
	if timezone == "" {
		timezone = "UTC"
	}
	if strings.TrimSpace(cmd.Name) == "" {
		logger.Warn("competition create validation failed",
			"event", "competition_create_validation_failed",
			"module", "contest-engagement/competition-clock",
			"layer", "application",
			"competition_id", strings.TrimSpace(cmd.CompetitionID),
		)
		return CreateCompetitionResult{}, domainerrors.ErrInvalidCompetitionInput
	}
	loc, err := services.LoadLocation(timezone)
	if err != nil {
		return CreateCompetitionResult{}, err
	}

	now := uc.now()
	competitionID := strings.TrimSpace(cmd.CompetitionID)
	if competitionID == "" {
		competitionID, err = uc.IDGen.NewID(ctx)
		if err != nil {
			return CreateCompetitionResult{}, err
		}
	}

	competition := entities.Competition{
		CompetitionID: competitionID,
		Name:          strings.TrimSpace(cmd.Name),
		Timezone:      loc.String(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	ordinal := 0
	for _, input := range cmd.Phases {
		ordinal++
		phase, err := uc.newPhase(ctx, competitionID, input.Name, entities.PhaseKindRegular, input.StartsAt, input.EndsAt, input.DoubleCredit, now)
		if err != nil {
			return CreateCompetitionResult{}, err
		}
		phase.Ordinal = ordinal
		competition.Phases = append(competition.Phases, phase)
	}
	for _, date := range cmd.PromotionalDates {
		ordinal++
		startsAt, endsAt, err := services.PromotionalDayWindow(date, loc)
		if err != nil {
			return CreateCompetitionResult{}, err
		}
		phase, err := uc.newPhase(ctx, competitionID, "Double votes "+strings.TrimSpace(date), entities.PhaseKindPromotional, startsAt, endsAt, true, now)
		if err != nil {
			return CreateCompetitionResult{}, err
		}
		phase.Ordinal = ordinal
		competition.Phases = append(competition.Phases, phase)
	}

	created, err := uc.Competitions.CreateCompetition(ctx, competition)
	if err != nil {
		return CreateCompetitionResult{}, err
	}
	if !created {
		existing, err := uc.Competitions.GetCompetition(ctx, competitionID)
		if err != nil {
			return CreateCompetitionResult{}, err
		}
		if !strings.EqualFold(existing.Name, competition.Name) || existing.Timezone != competition.Timezone {
			return CreateCompetitionResult{}, domainerrors.ErrCompetitionConflict
		}
		logger.Info("competition create replayed",
			"event", "competition_create_replayed",
			"module", "contest-engagement/competition-clock",
			"layer", "application",
			"competition_id", competitionID,
		)
		return CreateCompetitionResult{Competition: existing, Replayed: true}, nil
	}

	logger.Info("competition created",
		"event", "competition_created",
		"module", "contest-engagement/competition-clock",
		"layer", "application",
		"competition_id", competitionID,
		"timezone", competition.Timezone,
		"phase_count", len(competition.Phases),
	)
	return CreateCompetitionResult{Competition: competition}, nil
}

func (uc CompetitionUseCase) AddPhase(ctx context.Context, cmd AddPhaseCommand) (entities.Phase, error) {
	logger := application.ResolveLogger(uc.Logger)
	competition, err := uc.Competitions.GetCompetition(ctx, strings.TrimSpace(cmd.CompetitionID))
	if err != nil {
		return entities.Phase{}, err
	}
	if strings.TrimSpace(cmd.Name) == "" {
		return entities.Phase{}, domainerrors.ErrInvalidCompetitionInput
	}
	phase, err := uc.newPhase(ctx, competition.CompetitionID, cmd.Name, entities.PhaseKindRegular, cmd.StartsAt, cmd.EndsAt, cmd.DoubleCredit, uc.now())
	if err != nil {
		return entities.Phase{}, err
	}
	stored, err := uc.Competitions.AddPhase(ctx, phase)
	if err != nil {
		return entities.Phase{}, err
	}
	logger.Info("competition phase added",
		"event", "competition_phase_added",
		"module", "contest-engagement/competition-clock",
		"layer", "application",
		"competition_id", stored.CompetitionID,
		"phase_id", stored.PhaseID,
		"ordinal", stored.Ordinal,
		"double_credit", stored.DoubleCredit,
	)
	return stored, nil
}

// AddPromotionalDay marks one local calendar day, midnight to midnight in the
// competition timezone, as double credit.
func (uc CompetitionUseCase) AddPromotionalDay(ctx context.Context, cmd AddPromotionalDayCommand) (entities.Phase, error) {
	logger := application.ResolveLogger(uc.Logger)
	competition, err := uc.Competitions.GetCompetition(ctx, strings.TrimSpace(cmd.CompetitionID))
	if err != nil {
		return entities.Phase{}, err
	}
	loc, err := services.LoadLocation(competition.Timezone)
	if err != nil {
		return entities.Phase{}, err
	}
	startsAt, endsAt, err := services.PromotionalDayWindow(cmd.Date, loc)
	if err != nil {
		return entities.Phase{}, err
	}
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		name = "Double votes " + strings.TrimSpace(cmd.Date)
	}
	phase, err := uc.newPhase(ctx, competition.CompetitionID, name, entities.PhaseKindPromotional, startsAt, endsAt, true, uc.now())
	if err != nil {
		return entities.Phase{}, err
	}
	stored, err := uc.Competitions.AddPhase(ctx, phase)
	if err != nil {
		return entities.Phase{}, err
	}
	logger.Info("promotional day added",
		"event", "competition_promotional_day_added",
		"module", "contest-engagement/competition-clock",
		"layer", "application",
		"competition_id", stored.CompetitionID,
		"phase_id", stored.PhaseID,
		"local_date", strings.TrimSpace(cmd.Date),
		"starts_at", stored.StartsAt.Format(time.RFC3339),
		"ends_at", stored.EndsAt.Format(time.RFC3339),
	)
	return stored, nil
}

func (uc CompetitionUseCase) newPhase(
	ctx context.Context,
	competitionID string,
	name string,
	kind entities.PhaseKind,
	startsAt time.Time,
	endsAt time.Time,
	doubleCredit bool,
	now time.Time,
) (entities.Phase, error) {
	phase := entities.Phase{
		CompetitionID: competitionID,
		Name:          strings.TrimSpace(name),
		Kind:          kind,
		StartsAt:      startsAt.UTC(),
		EndsAt:        endsAt.UTC(),
		DoubleCredit:  doubleCredit,
		CreatedAt:     now,
	}
	if phase.Name == "" {
		return entities.Phase{}, domainerrors.ErrInvalidCompetitionInput
	}
	if !phase.ValidWindow() {
		return entities.Phase{}, domainerrors.ErrInvalidPhaseWindow
	}
	id, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Phase{}, err
	}
	phase.PhaseID = id
	return phase, nil
}

func (uc CompetitionUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
