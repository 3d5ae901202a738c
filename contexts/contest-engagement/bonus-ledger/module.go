package bonusledger

import (
	"log/slog"

	httpadapter "spotlight/contexts/contest-engagement/bonus-ledger/adapters/http"
	"spotlight/contexts/contest-engagement/bonus-ledger/adapters/memory"
	"spotlight/contexts/contest-engagement/bonus-ledger/application/commands"
	"spotlight/contexts/contest-engagement/bonus-ledger/application/queries"
	"spotlight/contexts/contest-engagement/bonus-ledger/domain/entities"
	"spotlight/contexts/contest-engagement/bonus-ledger/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Catalog commands.CatalogUseCase
	Ledger  commands.LedgerUseCase
	Status  queries.StatusQueries
	Store   *memory.Store
}

type Dependencies struct {
	Catalog     ports.CatalogRepository
	Awards      ports.AwardRepository
	Contestants ports.ContestantDirectory
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Metrics     ports.Metrics
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	catalog := commands.CatalogUseCase{
		Catalog: deps.Catalog,
		Clock:   deps.Clock,
		Logger:  deps.Logger,
	}
	ledger := commands.LedgerUseCase{
		Catalog:     deps.Catalog,
		Awards:      deps.Awards,
		Contestants: deps.Contestants,
		Clock:       deps.Clock,
		IDGen:       deps.IDGen,
		Metrics:     deps.Metrics,
		Logger:      deps.Logger,
	}
	status := queries.StatusQueries{
		Catalog:     deps.Catalog,
		Awards:      deps.Awards,
		Contestants: deps.Contestants,
	}
	return Module{
		Handler: httpadapter.Handler{
			Catalog: catalog,
			Ledger:  ledger,
			Status:  status,
			Logger:  deps.Logger,
		},
		Catalog: catalog,
		Ledger:  ledger,
		Status:  status,
	}
}

func NewInMemoryModule(contestants []entities.ContestantRef, logger *slog.Logger) Module {
	store := memory.NewStore(contestants)
	module := NewModule(Dependencies{
		Catalog:     store,
		Awards:      store,
		Contestants: store,
		Clock:       store,
		IDGen:       store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
