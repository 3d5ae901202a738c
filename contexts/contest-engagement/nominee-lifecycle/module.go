package nomineelifecycle

import (
	"log/slog"

	httpadapter "spotlight/contexts/contest-engagement/nominee-lifecycle/adapters/http"
	"spotlight/contexts/contest-engagement/nominee-lifecycle/adapters/memory"
	"spotlight/contexts/contest-engagement/nominee-lifecycle/application/commands"
	"spotlight/contexts/contest-engagement/nominee-lifecycle/application/queries"
	"spotlight/contexts/contest-engagement/nominee-lifecycle/ports"
)

type Module struct {
	Handler   httpadapter.Handler
	Lifecycle commands.LifecycleUseCase
	Queries   queries.NomineeQueries
	Store     *memory.Store
}

type Dependencies struct {
	Nominees     ports.NomineeRepository
	Contestants  ports.ContestantRepository
	Competitions ports.CompetitionDirectory
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Tokens       ports.ClaimTokenGenerator
	Metrics      ports.Metrics
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	lifecycle := commands.LifecycleUseCase{
		Nominees:     deps.Nominees,
		Contestants:  deps.Contestants,
		Competitions: deps.Competitions,
		Clock:        deps.Clock,
		IDGen:        deps.IDGen,
		Tokens:       deps.Tokens,
		Metrics:      deps.Metrics,
		Logger:       deps.Logger,
	}
	nomineeQueries := queries.NomineeQueries{
		Nominees:    deps.Nominees,
		Contestants: deps.Contestants,
	}
	return Module{
		Handler: httpadapter.Handler{
			Lifecycle: lifecycle,
			Queries:   nomineeQueries,
			Logger:    deps.Logger,
		},
		Lifecycle: lifecycle,
		Queries:   nomineeQueries,
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Nominees:    store,
		Contestants: store,
		Clock:       store,
		IDGen:       store,
		Tokens:      store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
