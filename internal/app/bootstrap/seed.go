package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	bonuscommands "spotlight/contexts/contest-engagement/bonus-ledger/application/commands"
	bonusentities "spotlight/contexts/contest-engagement/bonus-ledger/domain/entities"
	clockcommands "spotlight/contexts/contest-engagement/competition-clock/application/commands"
	"spotlight/internal/platform/config"
	"spotlight/internal/platform/httpserver"
)

// ApplySeed creates the seeded competitions and publishes their bonus
// catalogs. Running it again leaves existing rows untouched.
func ApplySeed(ctx context.Context, modules httpserver.Modules, seed config.Seed, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	for _, competition := range seed.Competitions {
		phases := make([]clockcommands.PhaseInput, 0, len(competition.Phases))
		for _, phase := range competition.Phases {
			phases = append(phases, clockcommands.PhaseInput{
				Name:         phase.Name,
				StartsAt:     phase.StartsAt,
				EndsAt:       phase.EndsAt,
				DoubleCredit: phase.DoubleCredit,
			})
		}
		result, err := modules.Competitions.Competitions.CreateCompetition(ctx, clockcommands.CreateCompetitionCommand{
			CompetitionID:    competition.ID,
			Name:             competition.Name,
			Timezone:         competition.Timezone,
			Phases:           phases,
			PromotionalDates: competition.PromotionalDates,
		})
		if err != nil {
			return fmt.Errorf("seed competition %s: %w", competition.ID, err)
		}
		logger.Info("competition seeded",
			"event", "bootstrap_competition_seeded",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"competition_id", result.Competition.CompetitionID,
			"replayed", result.Replayed,
		)
	}

	for _, catalog := range seed.Catalogs {
		tasks := make([]bonusentities.Task, 0, len(catalog.Tasks))
		for _, task := range catalog.Tasks {
			tasks = append(tasks, bonusentities.Task{
				CompetitionID: catalog.CompetitionID,
				Key:           task.Key,
				Label:         task.Label,
				Points:        task.Points,
				SortOrder:     task.SortOrder,
				Kind:          bonusentities.TaskKind(task.Kind),
			})
		}
		result, err := modules.Bonus.Catalog.PublishCatalog(ctx, bonuscommands.PublishCatalogCommand{
			CompetitionID: catalog.CompetitionID,
			Tasks:         tasks,
		})
		if err != nil {
			return fmt.Errorf("seed bonus catalog %s: %w", catalog.CompetitionID, err)
		}
		logger.Info("bonus catalog seeded",
			"event", "bootstrap_bonus_catalog_seeded",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"competition_id", catalog.CompetitionID,
			"inserted", result.Inserted,
		)
	}
	return nil
}
