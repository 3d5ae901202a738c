package competitionclock

import (
	"log/slog"

	httpadapter "spotlight/contexts/contest-engagement/competition-clock/adapters/http"
	"spotlight/contexts/contest-engagement/competition-clock/adapters/memory"
	"spotlight/contexts/contest-engagement/competition-clock/application/commands"
	"spotlight/contexts/contest-engagement/competition-clock/application/queries"
	"spotlight/contexts/contest-engagement/competition-clock/domain/entities"
	"spotlight/contexts/contest-engagement/competition-clock/ports"
)

type Module struct {
	Handler      httpadapter.Handler
	Competitions commands.CompetitionUseCase
	Clock        queries.ClockUseCase
	Store        *memory.Store
}

type Dependencies struct {
	Competitions    ports.CompetitionRepository
	Clock           ports.Clock
	IDGen           ports.IDGenerator
	DefaultTimezone string
	Logger          *slog.Logger
}

func NewModule(deps Dependencies) Module {
	competitionUseCase := commands.CompetitionUseCase{
		Competitions:    deps.Competitions,
		Clock:           deps.Clock,
		IDGen:           deps.IDGen,
		DefaultTimezone: deps.DefaultTimezone,
		Logger:          deps.Logger,
	}
	clockUseCase := queries.ClockUseCase{
		Competitions: deps.Competitions,
		Clock:        deps.Clock,
		Logger:       deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Competitions: competitionUseCase,
			Clock:        clockUseCase,
			Logger:       deps.Logger,
		},
		Competitions: competitionUseCase,
		Clock:        clockUseCase,
	}
}

func NewInMemoryModule(seed []entities.Competition, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Competitions:    store,
		Clock:           store,
		IDGen:           store,
		DefaultTimezone: "UTC",
		Logger:          logger,
	})
	module.Store = store
	return module
}
