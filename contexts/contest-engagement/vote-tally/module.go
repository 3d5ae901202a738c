package votetally

import (
	"log/slog"
	"time"

	httpadapter "spotlight/contexts/contest-engagement/vote-tally/adapters/http"
	"spotlight/contexts/contest-engagement/vote-tally/adapters/memory"
	"spotlight/contexts/contest-engagement/vote-tally/application/commands"
	"spotlight/contexts/contest-engagement/vote-tally/application/queries"
	"spotlight/contexts/contest-engagement/vote-tally/domain/entities"
	"spotlight/contexts/contest-engagement/vote-tally/ports"
)

type Module struct {
	Handler  httpadapter.Handler
	Votes    commands.VoteUseCase
	Queries  queries.TallyQueries
	Store    *memory.Store
	Calendar *memory.Calendar
}

type Dependencies struct {
	Votes               ports.VoteRepository
	Contestants         ports.ContestantDirectory
	Calendar            ports.PromotionCalendar
	Clock               ports.Clock
	IDGen               ports.IDGenerator
	Metrics             ports.Metrics
	MaxPurchaseQuantity int64
	Logger              *slog.Logger
}

func NewModule(deps Dependencies) Module {
	votes := commands.VoteUseCase{
		Votes:               deps.Votes,
		Contestants:         deps.Contestants,
		Calendar:            deps.Calendar,
		Clock:               deps.Clock,
		IDGen:               deps.IDGen,
		Metrics:             deps.Metrics,
		MaxPurchaseQuantity: deps.MaxPurchaseQuantity,
		Logger:              deps.Logger,
	}
	tally := queries.TallyQueries{
		Votes:       deps.Votes,
		Contestants: deps.Contestants,
		Logger:      deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Votes:   votes,
			Queries: tally,
			Logger:  deps.Logger,
		},
		Votes:   votes,
		Queries: tally,
	}
}

func NewInMemoryModule(contestants []entities.ContestantTotal, location *time.Location, logger *slog.Logger) Module {
	store := memory.NewStore(contestants)
	calendar := memory.NewCalendar(location)
	module := NewModule(Dependencies{
		Votes:       store,
		Contestants: store,
		Calendar:    calendar,
		Clock:       store,
		IDGen:       store,
		Logger:      logger,
	})
	module.Store = store
	module.Calendar = calendar
	return module
}
