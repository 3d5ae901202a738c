package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "spotlight/contexts/contest-engagement/competition-clock/application"
	"spotlight/contexts/contest-engagement/competition-clock/domain/entities"
	"spotlight/contexts/contest-engagement/competition-clock/domain/services"
	"spotlight/contexts/contest-engagement/competition-clock/ports"
)

type ClockSnapshot struct {
	Competition entities.Competition
	At          time.Time
	ActivePhase *entities.Phase
	Credit      entities.CreditWindow
}

// ClockUseCase answers schedule questions for a competition at an instant.
type ClockUseCase struct {
	Competitions ports.CompetitionRepository
	Clock        ports.Clock
	Logger       *slog.Logger
}

func (uc ClockUseCase) GetCompetition(ctx context.Context, competitionID string) (entities.Competition, error) {
	return uc.Competitions.GetCompetition(ctx, strings.TrimSpace(competitionID))
}

func (uc ClockUseCase) ListCompetitions(ctx context.Context) ([]entities.Competition, error) {
	return uc.Competitions.ListCompetitions(ctx)
}

func (uc ClockUseCase) ActivePhase(ctx context.Context, competitionID string, at time.Time) (entities.Phase, bool, error) {
	competition, err := uc.Competitions.GetCompetition(ctx, strings.TrimSpace(competitionID))
	if err != nil {
		return entities.Phase{}, false, err
	}
	phase, ok := services.ActivePhase(competition.Phases, uc.resolveAt(at))
	return phase, ok, nil
}

// CreditWindow reports the vote multiplier in force at at. A zero at means now.
func (uc ClockUseCase) CreditWindow(ctx context.Context, competitionID string, at time.Time) (entities.CreditWindow, error) {
	logger := application.ResolveLogger(uc.Logger)
	competition, err := uc.Competitions.GetCompetition(ctx, strings.TrimSpace(competitionID))
	if err != nil {
		return entities.CreditWindow{}, err
	}
	window, err := services.CreditWindowAt(competition, uc.resolveAt(at))
	if err != nil {
		return entities.CreditWindow{}, err
	}
	logger.Debug("competition credit window resolved",
		"event", "competition_credit_window_resolved",
		"module", "contest-engagement/competition-clock",
		"layer", "application",
		"competition_id", window.CompetitionID,
		"multiplier", window.Multiplier,
		"local_date", window.LocalDate,
	)
	return window, nil
}

func (uc ClockUseCase) Snapshot(ctx context.Context, competitionID string, at time.Time) (ClockSnapshot, error) {
	competition, err := uc.Competitions.GetCompetition(ctx, strings.TrimSpace(competitionID))
	if err != nil {
		return ClockSnapshot{}, err
	}
	instant := uc.resolveAt(at)
	window, err := services.CreditWindowAt(competition, instant)
	if err != nil {
		return ClockSnapshot{}, err
	}
	snapshot := ClockSnapshot{
		Competition: competition,
		At:          instant,
		Credit:      window,
	}
	if phase, ok := services.ActivePhase(competition.Phases, instant); ok {
		snapshot.ActivePhase = &phase
	}
	return snapshot, nil
}

func (uc ClockUseCase) resolveAt(at time.Time) time.Time {
	if !at.IsZero() {
		return at.UTC()
	}
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
