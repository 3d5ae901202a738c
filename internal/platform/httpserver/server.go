package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	bonusledger "spotlight/contexts/contest-engagement/bonus-ledger"
	competitionclock "spotlight/contexts/contest-engagement/competition-clock"
	nomineelifecycle "spotlight/contexts/contest-engagement/nominee-lifecycle"
	votetally "spotlight/contexts/contest-engagement/vote-tally"
	"spotlight/internal/platform/metrics"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "spotlight/internal/platform/httpserver/docs"
)

type Modules struct {
	Competitions competitionclock.Module
	Nominees     nomineelifecycle.Module
	Votes        votetally.Module
	Bonus        bonusledger.Module
}

// HealthCheck reports whether the process can serve traffic.
type HealthCheck func(ctx context.Context) error

type Option func(*Server)

func WithMetrics(recorder *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = recorder
	}
}

func WithHealthCheck(check HealthCheck) Option {
	return func(s *Server) {
		s.health = check
	}
}

type Server struct {
	mux          *http.ServeMux
	server       *http.Server
	logger       *slog.Logger
	addr         string
	metrics      *metrics.Metrics
	health       HealthCheck
	competitions competitionclock.Module
	nominees     nomineelifecycle.Module
	votes        votetally.Module
	bonus        bonusledger.Module
}

func New(modules Modules, logger *slog.Logger, addr string, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:          http.NewServeMux(),
		logger:       logger,
		addr:         addr,
		competitions: modules.Competitions,
		nominees:     modules.Nominees,
		votes:        modules.Votes,
		bonus:        modules.Bonus,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerRoutes()
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server stopping",
		"event", "http_server_stopping",
		"module", "internal/platform/httpserver",
		"layer", "platform",
	)
	return s.server.Shutdown(ctx)
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}

	s.registerCompetitionRoutes()
	s.registerNomineeRoutes()
	s.registerVoteRoutes()
	s.registerBonusRoutes()
}

// handle registers an instrumented route labelled with its pattern.
func (s *Server) handle(pattern string, handler http.HandlerFunc) {
	if s.metrics == nil {
		s.mux.Handle(pattern, handler)
		return
	}
	s.mux.Handle(pattern, s.metrics.Instrument(pattern, handler))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			s.logger.Warn("health check failed",
				"event", "http_health_check_failed",
				"module", "internal/platform/httpserver",
				"layer", "platform",
				"error", err.Error(),
			)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// decodeOptionalJSON accepts an empty body for commands whose fields are all optional.
func decodeOptionalJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func resolveActorID(bodyActorID string, r *http.Request) string {
	if strings.TrimSpace(bodyActorID) != "" {
		return bodyActorID
	}
	return strings.TrimSpace(r.Header.Get("X-User-Id"))
}

func createdOrReplayed(replayed bool) int {
	if replayed {
		return http.StatusOK
	}
	return http.StatusCreated
}
