package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"spotlight/contexts/contest-engagement/competition-clock/application/commands"
	"spotlight/contexts/contest-engagement/competition-clock/application/queries"
	"spotlight/contexts/contest-engagement/competition-clock/domain/entities"
	httptransport "spotlight/contexts/contest-engagement/competition-clock/transport/http"
)

type Handler struct {
	Competitions commands.CompetitionUseCase
	Clock        queries.ClockUseCase
	Logger       *slog.Logger
}

func (h Handler) CreateCompetitionHandler(
	ctx context.Context,
	req httptransport.CreateCompetitionRequest,
) (httptransport.CompetitionResponse, error) {
	phases := make([]commands.PhaseInput, 0, len(req.Phases))
	for _, phase := range req.Phases {
		phases = append(phases, commands.PhaseInput{
			Name:         phase.Name,
			StartsAt:     phase.StartsAt,
			EndsAt:       phase.EndsAt,
			DoubleCredit: phase.DoubleCredit,
		})
	}
	result, err := h.Competitions.CreateCompetition(ctx, commands.CreateCompetitionCommand{
		CompetitionID:    req.CompetitionID,
		Name:             req.Name,
		Timezone:         req.Timezone,
		Phases:           phases,
		PromotionalDates: req.PromotionalDates,
	})
	if err != nil {
		return httptransport.CompetitionResponse{}, err
	}
	resp := mapCompetition(result.Competition)
	resp.Replayed = result.Replayed
	return resp, nil
}

func (h Handler) GetCompetitionHandler(ctx context.Context, competitionID string) (httptransport.CompetitionResponse, error) {
	competition, err := h.Clock.GetCompetition(ctx, competitionID)
	if err != nil {
		return httptransport.CompetitionResponse{}, err
	}
	return mapCompetition(competition), nil
}

func (h Handler) ListCompetitionsHandler(ctx context.Context) (httptransport.ListCompetitionsResponse, error) {
	items, err := h.Clock.ListCompetitions(ctx)
	if err != nil {
		return httptransport.ListCompetitionsResponse{}, err
	}
	resp := httptransport.ListCompetitionsResponse{
		Items: make([]httptransport.CompetitionResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, mapCompetition(item))
	}
	return resp, nil
}

func (h Handler) AddPhaseHandler(
	ctx context.Context,
	competitionID string,
	req httptransport.PhaseRequest,
) (httptransport.PhaseResponse, error) {
	phase, err := h.Competitions.AddPhase(ctx, commands.AddPhaseCommand{
		CompetitionID: competitionID,
		Name:          req.Name,
		StartsAt:      req.StartsAt,
		EndsAt:        req.EndsAt,
		DoubleCredit:  req.DoubleCredit,
	})
	if err != nil {
		return httptransport.PhaseResponse{}, err
	}
	return mapPhase(phase), nil
}

func (h Handler) AddPromotionalDayHandler(
	ctx context.Context,
	competitionID string,
	req httptransport.AddPromotionalDayRequest,
) (httptransport.PhaseResponse, error) {
	phase, err := h.Competitions.AddPromotionalDay(ctx, commands.AddPromotionalDayCommand{
		CompetitionID: competitionID,
		Date:          req.Date,
		Name:          req.Name,
	})
	if err != nil {
		return httptransport.PhaseResponse{}, err
	}
	return mapPhase(phase), nil
}

func (h Handler) ClockHandler(ctx context.Context, competitionID string, at time.Time) (httptransport.ClockResponse, error) {
	snapshot, err := h.Clock.Snapshot(ctx, competitionID, at)
	if err != nil {
		return httptransport.ClockResponse{}, err
	}
	resp := httptransport.ClockResponse{
		CompetitionID:    snapshot.Competition.CompetitionID,
		At:               snapshot.At,
		LocalDate:        snapshot.Credit.LocalDate,
		Timezone:         snapshot.Competition.Timezone,
		Multiplier:       snapshot.Credit.Multiplier,
		DoubleCredit:     snapshot.Credit.Multiplier > entities.MultiplierStandard,
		PromotionPhaseID: snapshot.Credit.PromotionPhaseID,
	}
	if snapshot.ActivePhase != nil {
		phase := mapPhase(*snapshot.ActivePhase)
		resp.ActivePhase = &phase
	}
	return resp, nil
}

func mapCompetition(competition entities.Competition) httptransport.CompetitionResponse {
	resp := httptransport.CompetitionResponse{
		CompetitionID: competition.CompetitionID,
		Name:          competition.Name,
		Timezone:      competition.Timezone,
		Phases:        make([]httptransport.PhaseResponse, 0, len(competition.Phases)),
		CreatedAt:     competition.CreatedAt,
	}
	for _, phase := range competition.Phases {
		resp.Phases = append(resp.Phases, mapPhase(phase))
	}
	return resp
}

func mapPhase(phase entities.Phase) httptransport.PhaseResponse {
	return httptransport.PhaseResponse{
		PhaseID:      phase.PhaseID,
		Name:         phase.Name,
		Kind:         string(phase.Kind),
		Ordinal:      phase.Ordinal,
		StartsAt:     phase.StartsAt,
		EndsAt:       phase.EndsAt,
		DoubleCredit: phase.DoubleCredit,
	}
}
