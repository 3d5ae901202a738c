package httpadapter

import (
	"context"
	"log/slog"

	"spotlight/contexts/contest-engagement/bonus-ledger/application/commands"
	"spotlight/contexts/contest-engagement/bonus-ledger/application/queries"
	"spotlight/contexts/contest-engagement/bonus-ledger/domain/entities"
	httptransport "spotlight/contexts/contest-engagement/bonus-ledger/transport/http"
)

type Handler struct {
	Catalog commands.CatalogUseCase
	Ledger  commands.LedgerUseCase
	Status  queries.StatusQueries
	Logger  *slog.Logger
}

func (h Handler) PublishCatalogHandler(
	ctx context.Context,
	competitionID string,
	req httptransport.PublishCatalogRequest,
) (httptransport.CatalogResponse, error) {
	tasks := make([]entities.Task, 0, len(req.Tasks))
	for _, task := range req.Tasks {
		tasks = append(tasks, entities.Task{
			Key:       task.Key,
			Label:     task.Label,
			Points:    task.Points,
			SortOrder: task.SortOrder,
			Kind:      entities.TaskKind(task.Kind),
		})
	}
	result, err := h.Catalog.PublishCatalog(ctx, commands.PublishCatalogCommand{
		CompetitionID: competitionID,
		Tasks:         tasks,
	})
	if err != nil {
		return httptransport.CatalogResponse{}, err
	}
	resp := mapCatalog(competitionID, result.Tasks)
	resp.Inserted = result.Inserted
	return resp, nil
}

func (h Handler) ListCatalogHandler(ctx context.Context, competitionID string) (httptransport.CatalogResponse, error) {
	tasks, err := h.Status.ListCatalog(ctx, competitionID)
	if err != nil {
		return httptransport.CatalogResponse{}, err
	}
	return mapCatalog(competitionID, tasks), nil
}

func (h Handler) UpdateTaskPointsHandler(
	ctx context.Context,
	competitionID string,
	taskKey string,
	req httptransport.UpdateTaskPointsRequest,
) (httptransport.TaskResponse, error) {
	task, err := h.Catalog.UpdateTaskPoints(ctx, commands.UpdateTaskPointsCommand{
		CompetitionID: competitionID,
		TaskKey:       taskKey,
		Points:        req.Points,
	})
	if err != nil {
		return httptransport.TaskResponse{}, err
	}
	return mapTask(task), nil
}

func (h Handler) AwardHandler(
	ctx context.Context,
	contestantID string,
	req httptransport.AwardRequest,
) (httptransport.AwardResponse, error) {
	outcome, err := h.Ledger.AwardBonusVotes(ctx, commands.AwardBonusVotesCommand{
		ContestantID: contestantID,
		TaskKey:      req.TaskKey,
	})
	if err != nil {
		return httptransport.AwardResponse{}, err
	}
	return mapOutcome(outcome), nil
}

func (h Handler) AcknowledgeHandler(
	ctx context.Context,
	contestantID string,
	req httptransport.AwardRequest,
) (httptransport.AwardResponse, error) {
	outcome, err := h.Ledger.AcknowledgeTask(ctx, commands.AwardBonusVotesCommand{
		ContestantID: contestantID,
		TaskKey:      req.TaskKey,
	})
	if err != nil {
		return httptransport.AwardResponse{}, err
	}
	return mapOutcome(outcome), nil
}

func (h Handler) CheckProfileHandler(
	ctx context.Context,
	contestantID string,
	req httptransport.CheckProfileRequest,
) (httptransport.CheckProfileResponse, error) {
	cmd := commands.CheckProfileBonusesCommand{ContestantID: contestantID}
	if req.Snapshot != nil {
		cmd.Snapshot = &entities.ProfileSnapshot{
			DisplayName: req.Snapshot.DisplayName,
			Bio:         req.Snapshot.Bio,
			City:        req.Snapshot.City,
			PhotoRef:    req.Snapshot.PhotoRef,
			Instagram:   req.Snapshot.Instagram,
			TikTok:      req.Snapshot.TikTok,
			Twitter:     req.Snapshot.Twitter,
			Facebook:    req.Snapshot.Facebook,
			YouTube:     req.Snapshot.YouTube,
		}
	}
	outcomes, err := h.Ledger.CheckAndAwardProfileBonuses(ctx, cmd)
	if err != nil {
		return httptransport.CheckProfileResponse{}, err
	}
	resp := httptransport.CheckProfileResponse{
		ContestantID: contestantID,
		AwardedTasks: make([]httptransport.AwardResponse, 0, len(outcomes)),
	}
	for _, outcome := range outcomes {
		resp.AwardedTasks = append(resp.AwardedTasks, mapOutcome(outcome))
	}
	return resp, nil
}

func (h Handler) StatusHandler(ctx context.Context, contestantID string) (httptransport.BonusStatusResponse, error) {
	status, err := h.Status.GetBonusVoteStatus(ctx, contestantID)
	if err != nil {
		return httptransport.BonusStatusResponse{}, err
	}
	resp := httptransport.BonusStatusResponse{
		ContestantID:   status.ContestantID,
		Tasks:          make([]httptransport.TaskStatusResponse, 0, len(status.Tasks)),
		CompletedCount: status.CompletedCount,
		TotalCount:     status.TotalCount,
		VotesEarned:    status.VotesEarned,
		VotesAvailable: status.VotesAvailable,
	}
	for _, item := range status.Tasks {
		resp.Tasks = append(resp.Tasks, httptransport.TaskStatusResponse{
			TaskResponse:  mapTask(item.Task),
			Completed:     item.Completed,
			PointsGranted: item.PointsGranted,
			AwardedAt:     item.AwardedAt,
		})
	}
	return resp, nil
}

func mapCatalog(competitionID string, tasks []entities.Task) httptransport.CatalogResponse {
	resp := httptransport.CatalogResponse{
		CompetitionID: competitionID,
		Tasks:         make([]httptransport.TaskResponse, 0, len(tasks)),
	}
	for _, task := range tasks {
		resp.Tasks = append(resp.Tasks, mapTask(task))
	}
	return resp
}

func mapTask(task entities.Task) httptransport.TaskResponse {
	return httptransport.TaskResponse{
		Key:       task.Key,
		Label:     task.Label,
		Points:    task.Points,
		SortOrder: task.SortOrder,
		Kind:      string(task.Kind),
	}
}

func mapOutcome(outcome entities.AwardOutcome) httptransport.AwardResponse {
	return httptransport.AwardResponse{
		Success:      outcome.Success,
		TaskKey:      outcome.TaskKey,
		VotesAwarded: outcome.VotesAwarded,
		NewTotal:     outcome.NewTotal,
		Reason:       outcome.Reason,
	}
}
