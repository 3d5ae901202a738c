// Package metrics holds the process Prometheus registry and the counters the
// contest-engagement services report through their Metrics ports.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "spotlight"

type Metrics struct {
	registry *prometheus.Registry

	votesCredited        *prometheus.CounterVec
	voteEvents           *prometheus.CounterVec
	bonusAwards          *prometheus.CounterVec
	bonusPoints          *prometheus.CounterVec
	lifecycleTransitions *prometheus.CounterVec
	outboxPublished      prometheus.Counter
	outboxRelayFailures  prometheus.Counter
	httpRequests         *prometheus.CounterVec
	httpDuration         *prometheus.HistogramVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		votesCredited: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_credited_total",
			Help:      "credited votes by source, after multipliers",
		}, []string{"source"}),
		voteEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vote_events_total",
			Help:      "vote events recorded by source",
		}, []string{"source"}),
		bonusAwards: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bonus_awards_total",
			Help:      "bonus tasks awarded",
		}, []string{"task_key"}),
		bonusPoints: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bonus_points_total",
			Help:      "bonus votes granted",
		}, []string{"task_key"}),
		lifecycleTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nominee_transitions_total",
			Help:      "nominee lifecycle transitions",
		}, []string{"event", "to"}),
		outboxPublished: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_published_total",
			Help:      "outbox rows relayed to the event bus",
		}),
		outboxRelayFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_relay_failures_total",
			Help:      "relay cycles that stopped on a store or bus error",
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"method", "route"}),
	}
}

func (m *Metrics) VoteCredited(source string, credited int64) {
	m.voteEvents.WithLabelValues(source).Inc()
	m.votesCredited.WithLabelValues(source).Add(float64(credited))
}

func (m *Metrics) BonusAwarded(taskKey string, points int64) {
	m.bonusAwards.WithLabelValues(taskKey).Inc()
	m.bonusPoints.WithLabelValues(taskKey).Add(float64(points))
}

func (m *Metrics) LifecycleTransition(event string, to string) {
	m.lifecycleTransitions.WithLabelValues(event, to).Inc()
}

func (m *Metrics) OutboxPublished(count int) {
	if count > 0 {
		m.outboxPublished.Add(float64(count))
	}
}

func (m *Metrics) OutboxRelayFailed() {
	m.outboxRelayFailures.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Instrument records request count and latency under the route pattern rather
// than the raw path, keeping label cardinality bounded.
func (m *Metrics) Instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		started := time.Now()
		next.ServeHTTP(recorder, r)
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(started).Seconds())
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(recorder.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
