package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	bonusledger "spotlight/contexts/contest-engagement/bonus-ledger"
	bonuspostgres "spotlight/contexts/contest-engagement/bonus-ledger/adapters/postgres"
	competitionclock "spotlight/contexts/contest-engagement/competition-clock"
	clockpostgres "spotlight/contexts/contest-engagement/competition-clock/adapters/postgres"
	nomineelifecycle "spotlight/contexts/contest-engagement/nominee-lifecycle"
	"spotlight/contexts/contest-engagement/nominee-lifecycle/adapters/dispatch"
	nomineepostgres "spotlight/contexts/contest-engagement/nominee-lifecycle/adapters/postgres"
	nomineeworkers "spotlight/contexts/contest-engagement/nominee-lifecycle/application/workers"
	votetally "spotlight/contexts/contest-engagement/vote-tally"
	votepostgres "spotlight/contexts/contest-engagement/vote-tally/adapters/postgres"
	"spotlight/internal/platform/config"
	"spotlight/internal/platform/db"
	"spotlight/internal/platform/httpserver"
	"spotlight/internal/platform/messaging"
	"spotlight/internal/platform/metrics"
	"spotlight/internal/shared/outbox"

	"golang.org/x/sync/errgroup"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

const (
	notificationConsumerGroup = "nominee-notifications"
	busBuffer                 = 64
	shutdownTimeout           = 10 * time.Second
	maxRelayBackoff           = 30 * time.Second
)

type migrator interface {
	AutoMigrate() error
}

// Runtime holds the shared database handle and every wired module. The API
// and worker processes both start from one.
type Runtime struct {
	Config   config.Config
	Logger   *slog.Logger
	Database *db.Database
	Metrics  *metrics.Metrics
	Modules  httpserver.Modules

	outbox    *outbox.Repository
	nominees  *nomineepostgres.Repository
	migrators []migrator
}

type APIApp struct {
	runtime *Runtime
	server  *httpserver.Server
	worker  *WorkerApp
}

type WorkerApp struct {
	runtime      *Runtime
	bus          *messaging.Bus
	relay        outbox.Relay
	consumer     nomineeworkers.NotificationConsumer
	pollInterval time.Duration
	logger       *slog.Logger
}

// NewLogger builds the process logger from the configured format and level.
func NewLogger(cfg config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(cfg.LogFormat), "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler).With("service", cfg.ServiceName)
}

// Open connects to the configured database and wires the four services over
// it. It does not migrate.
func Open(cfg config.Config, logger *slog.Logger) (*Runtime, error) {
	if logger == nil {
		logger = slog.Default()
	}
	database, err := db.Connect(db.Options{
		Driver:       cfg.DatabaseDriver,
		PostgresDSN:  cfg.PostgresDSN,
		SQLitePath:   cfg.SQLitePath,
		MaxOpenConns: cfg.MaxOpenConns,
		MaxIdleConns: cfg.MaxIdleConns,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("database connected",
		"event", "bootstrap_database_connected",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"driver", database.Driver,
	)
	return newRuntime(cfg, database, metrics.New(), logger), nil
}

func newRuntime(cfg config.Config, database *db.Database, recorder *metrics.Metrics, logger *slog.Logger) *Runtime {
	gdb := database.DB
	outboxRepo := outbox.NewRepository(gdb)
	clockRepo := clockpostgres.NewRepository(gdb, logger)
	nomineeRepo := nomineepostgres.NewRepository(gdb, logger)
	voteRepo := votepostgres.NewRepository(gdb, logger)
	bonusRepo := bonuspostgres.NewRepository(gdb, logger)

	competitions := competitionclock.NewModule(competitionclock.Dependencies{
		Competitions:    clockRepo,
		Clock:           clockpostgres.SystemClock{},
		IDGen:           clockpostgres.UUIDGenerator{},
		DefaultTimezone: cfg.DefaultTimezone,
		Logger:          logger,
	})
	nominees := nomineelifecycle.NewModule(nomineelifecycle.Dependencies{
		Nominees:     nomineeRepo,
		Contestants:  nomineeRepo,
		Competitions: competitionDirectory{clock: competitions.Clock},
		Clock:        nomineepostgres.SystemClock{},
		IDGen:        nomineepostgres.UUIDGenerator{},
		Tokens:       nomineepostgres.NanoidClaimTokenGenerator{},
		Metrics:      recorder,
		Logger:       logger,
	})
	votes := votetally.NewModule(votetally.Dependencies{
		Votes:       voteRepo,
		Contestants: voteRepo,
		Calendar: promotionCalendar{
			clock:    competitions.Clock,
			fallback: cfg.Location(),
		},
		Clock:               votepostgres.SystemClock{},
		IDGen:               votepostgres.UUIDGenerator{},
		Metrics:             recorder,
		MaxPurchaseQuantity: cfg.MaxPurchaseQuantity,
		Logger:              logger,
	})
	bonus := bonusledger.NewModule(bonusledger.Dependencies{
		Catalog:     bonusRepo,
		Awards:      bonusRepo,
		Contestants: bonusRepo,
		Clock:       bonuspostgres.SystemClock{},
		IDGen:       bonuspostgres.UUIDGenerator{},
		Metrics:     recorder,
		Logger:      logger,
	})

	return &Runtime{
		Config:   cfg,
		Logger:   logger,
		Database: database,
		Metrics:  recorder,
		Modules: httpserver.Modules{
			Competitions: competitions,
			Nominees:     nominees,
			Votes:        votes,
			Bonus:        bonus,
		},
		outbox:   outboxRepo,
		nominees: nomineeRepo,
		// Owners of shared tables migrate before their readers.
		migrators: []migrator{outboxRepo, clockRepo, nomineeRepo, voteRepo, bonusRepo},
	}
}

func (r *Runtime) Migrate(_ context.Context) error {
	for _, m := range r.migrators {
		if err := m.AutoMigrate(); err != nil {
			return err
		}
	}
	r.Logger.Info("schema migrated",
		"event", "bootstrap_schema_migrated",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"driver", r.Database.Driver,
	)
	return nil
}

// SeedFromConfig applies the configured seed file, if any.
func (r *Runtime) SeedFromConfig(ctx context.Context) error {
	path := strings.TrimSpace(r.Config.SeedFile)
	if path == "" {
		return nil
	}
	seed, err := config.LoadSeed(path)
	if err != nil {
		return err
	}
	return ApplySeed(ctx, r.Modules, seed, r.Logger)
}

func (r *Runtime) Ping(ctx context.Context) error {
	sqlDB, err := r.Database.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *Runtime) Close() error {
	if r == nil {
		return nil
	}
	return r.Database.Close()
}

// BuildAPI wires the HTTP server over a migrated and seeded database. With
// embedWorker set the outbox relay and notification consumer run in the same
// process, which an in-memory SQLite database requires.
func BuildAPI(cfg config.Config, logger *slog.Logger, embedWorker bool) (*APIApp, error) {
	runtime, err := Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	if err := runtime.Migrate(ctx); err != nil {
		_ = runtime.Close()
		return nil, err
	}
	if err := runtime.SeedFromConfig(ctx); err != nil {
		_ = runtime.Close()
		return nil, err
	}
	return NewAPIApp(runtime, embedWorker), nil
}

func NewAPIApp(runtime *Runtime, embedWorker bool) *APIApp {
	app := &APIApp{
		runtime: runtime,
		server: httpserver.New(
			runtime.Modules,
			runtime.Logger,
			normalizeAddr(runtime.Config.HTTPPort),
			httpserver.WithMetrics(runtime.Metrics),
			httpserver.WithHealthCheck(runtime.Ping),
		),
	}
	if embedWorker {
		app.worker = NewWorkerApp(runtime)
	}
	return app
}

func BuildWorker(cfg config.Config, logger *slog.Logger) (*WorkerApp, error) {
	runtime, err := Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := runtime.Migrate(context.Background()); err != nil {
		_ = runtime.Close()
		return nil, err
	}
	return NewWorkerApp(runtime), nil
}

func NewWorkerApp(runtime *Runtime) *WorkerApp {
	cfg := runtime.Config
	bus := messaging.NewBus(busBuffer, runtime.Logger)
	return &WorkerApp{
		runtime: runtime,
		bus:     bus,
		relay: outbox.Relay{
			Outbox:    runtime.outbox,
			Publisher: bus,
			Now:       time.Now,
			BatchSize: cfg.OutboxBatchSize,
			Logger:    runtime.Logger,
		},
		consumer: nomineeworkers.NotificationConsumer{
			Subscriber:    bus,
			Dedup:         runtime.nominees,
			Dispatcher:    dispatch.NewLogDispatcher(runtime.Logger),
			Clock:         nomineepostgres.SystemClock{},
			ConsumerGroup: notificationConsumerGroup,
			DedupTTL:      cfg.NotificationDedupTTL,
			Disabled:      !cfg.EnableNotificationConsumer,
			Logger:        runtime.Logger,
		},
		pollInterval: cfg.WorkerPollInterval,
		logger:       runtime.Logger,
	}
}

func (a *APIApp) Handler() http.Handler {
	return a.server.Handler()
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *APIApp) Run(ctx context.Context) error {
	a.runtime.Logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"embedded_worker", a.worker != nil,
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(a.server.Start)
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})
	if a.worker != nil {
		group.Go(func() error {
			return a.worker.Run(groupCtx)
		})
	}
	return group.Wait()
}

func (a *APIApp) Close() error {
	return a.runtime.Close()
}

// Run relays outbox rows to the bus every poll interval until ctx is
// cancelled. The notification consumer reads from the same bus.
func (w *WorkerApp) Run(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)
	if err := w.consumer.Start(groupCtx); err != nil {
		return err
	}
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)
	group.Go(func() error {
		return w.relayLoop(groupCtx)
	})
	err := group.Wait()
	w.bus.Wait()
	return err
}

// relayLoop keeps relaying until ctx is cancelled. A failed cycle is logged
// and retried after a growing delay; it never stops the process.
func (w *WorkerApp) relayLoop(ctx context.Context) error {
	interval := w.pollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	failures := 0
	for {
		published, err := w.relay.RunOnce(ctx)
		w.runtime.Metrics.OutboxPublished(published)
		wait := interval
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			failures++
			wait = relayBackoff(interval, failures)
			w.runtime.Metrics.OutboxRelayFailed()
			w.logger.Warn("outbox relay cycle failed",
				"event", "bootstrap_outbox_relay_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"consecutive_failures", failures,
				"retry_in", wait.String(),
				"error", err.Error(),
			)
		} else {
			failures = 0
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// relayBackoff doubles the poll interval per consecutive failure, capped at
// maxRelayBackoff.
func relayBackoff(interval time.Duration, failures int) time.Duration {
	shift := failures - 1
	if shift > 6 {
		shift = 6
	}
	wait := interval << shift
	if wait > maxRelayBackoff || wait <= 0 {
		return maxRelayBackoff
	}
	return wait
}

func (w *WorkerApp) Close() error {
	return w.runtime.Close()
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.Contains(value, ":") {
		return value
	}
	return ":" + value
}
