package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "spotlight/contexts/contest-engagement/bonus-ledger/application"
	"spotlight/contexts/contest-engagement/bonus-ledger/domain/entities"
	domainerrors "spotlight/contexts/contest-engagement/bonus-ledger/domain/errors"
	"spotlight/contexts/contest-engagement/bonus-ledger/domain/services"
	"spotlight/contexts/contest-engagement/bonus-ledger/ports"
)

type PublishCatalogCommand struct {
	CompetitionID string
	Tasks         []entities.Task
}

type PublishCatalogResult struct {
	Tasks    []entities.Task
	Inserted int
}

type UpdateTaskPointsCommand struct {
	CompetitionID string
	TaskKey       string
	Points        int64
}

type CatalogUseCase struct {
	Catalog ports.CatalogRepository
	Clock   ports.Clock
	Logger  *slog.Logger
}

// PublishCatalog publishes tasks missing from the competition catalog. Tasks
// already published keep their stored definition.
func (uc CatalogUseCase) PublishCatalog(ctx context.Context, cmd PublishCatalogCommand) (PublishCatalogResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	tasks, err := services.ValidateCatalog(cmd.CompetitionID, cmd.Tasks)
	if err != nil {
		logger.Warn("bonus catalog rejected",
			"event", "bonus_catalog_rejected",
			"module", "contest-engagement/bonus-ledger",
			"layer", "application",
			"competition_id", strings.TrimSpace(cmd.CompetitionID),
		)
		return PublishCatalogResult{}, err
	}
	now := nowFrom(uc.Clock)
	for i := range tasks {
		tasks[i].PublishedAt = now
		tasks[i].UpdatedAt = now
	}
	inserted, err := uc.Catalog.PublishCatalog(ctx, tasks[0].CompetitionID, tasks)
	if err != nil {
		return PublishCatalogResult{}, err
	}
	stored, err := uc.Catalog.ListTasks(ctx, tasks[0].CompetitionID)
	if err != nil {
		return PublishCatalogResult{}, err
	}
	logger.Info("bonus catalog published",
		"event", "bonus_catalog_published",
		"module", "contest-engagement/bonus-ledger",
		"layer", "application",
		"competition_id", tasks[0].CompetitionID,
		"inserted", inserted,
		"total", len(stored),
	)
	return PublishCatalogResult{Tasks: stored, Inserted: inserted}, nil
}

// UpdateTaskPoints changes the points future completions receive. Existing
// award records keep their granted points.
func (uc CatalogUseCase) UpdateTaskPoints(ctx context.Context, cmd UpdateTaskPointsCommand) (entities.Task, error) {
	logger := application.ResolveLogger(uc.Logger)
	competitionID := strings.TrimSpace(cmd.CompetitionID)
	if competitionID == "" || strings.TrimSpace(cmd.TaskKey) == "" || cmd.Points <= 0 {
		return entities.Task{}, domainerrors.ErrInvalidInput
	}
	if _, err := ensureCatalog(ctx, uc.Catalog, competitionID, nowFrom(uc.Clock)); err != nil {
		return entities.Task{}, err
	}
	task, err := uc.Catalog.UpdateTaskPoints(ctx, competitionID, strings.TrimSpace(cmd.TaskKey), cmd.Points, nowFrom(uc.Clock))
	if err != nil {
		return entities.Task{}, err
	}
	logger.Info("bonus task points updated",
		"event", "bonus_task_points_updated",
		"module", "contest-engagement/bonus-ledger",
		"layer", "application",
		"competition_id", competitionID,
		"task_key", task.Key,
		"points", task.Points,
	)
	return task, nil
}

// ensureCatalog returns the published catalog, publishing the default one
// first when the competition has none.
func ensureCatalog(ctx context.Context, catalog ports.CatalogRepository, competitionID string, now time.Time) ([]entities.Task, error) {
	tasks, err := catalog.ListTasks(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	if len(tasks) > 0 {
		return tasks, nil
	}
	defaults, err := services.ValidateCatalog(competitionID, entities.DefaultCatalog())
	if err != nil {
		return nil, err
	}
	for i := range defaults {
		defaults[i].PublishedAt = now
		defaults[i].UpdatedAt = now
	}
	if _, err := catalog.PublishCatalog(ctx, competitionID, defaults); err != nil {
		return nil, err
	}
	return catalog.ListTasks(ctx, competitionID)
}

func nowFrom(clock ports.Clock) time.Time {
	if clock != nil {
		return clock.Now().UTC()
	}
	return time.Now().UTC()
}
