package observability

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/javanetict/jnsuite/internal/logging"
	"github.com/javanetict/jnsuite/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "jnsuite"

// Metrics holds the collectors.
type Metrics struct {
	registry *prometheus.Registry
	logger   *slog.Logger

	turns      *prometheus.CounterVec
	outOfScope prometheus.Counter
	duration   prometheus.Histogram
	faults     *prometheus.CounterVec
	assistant  *prometheus.CounterVec
}

// Option configures Metrics.
type Option func(*Metrics)

// WithLogger logs every event the hooks see.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Metrics) {
		m.logger = logger
	}
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(m *Metrics) {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
}

// NewMetrics creates and registers the collectors on a fresh registry.
func NewMetrics(opts ...Option) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		logger:   logging.NewNop(),
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Conversation turns by resolved intent.",
		}, []string{"intent", "rule"}),
		outOfScope: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "out_of_scope_total",
			Help:      "Messages answered with the out-of-scope redirect.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_duration_seconds",
			Help:      "Time spent processing a turn.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		faults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_total",
			Help:      "Turns served in degraded mode, by failing component.",
		}, []string{"component"}),
		assistant: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assistant_attempts_total",
			Help:      "Assistant provider attempts by outcome.",
		}, []string{"provider", "outcome"}),
	}
	m.registry.MustRegister(m.turns, m.outOfScope, m.duration, m.faults, m.assistant)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Hooks returns engine lifecycle hooks that record metrics and log events.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurn: func(ctx context.Context, e *domain.TurnEvent) {
			m.turns.WithLabelValues(e.Intent, e.Rule).Inc()
			m.duration.Observe(e.Duration.Seconds())
			m.logger.DebugContext(ctx, "turn",
				"session_id", e.SessionID,
				"intent", e.Intent,
				"rule", e.Rule,
				"duration", e.Duration)
		},
		OnOutOfScope: func(ctx context.Context, e *domain.TurnEvent) {
			m.outOfScope.Inc()
			m.duration.Observe(e.Duration.Seconds())
			m.logger.DebugContext(ctx, "out of scope", "session_id", e.SessionID)
		},
		OnFault: func(ctx context.Context, e *domain.FaultEvent) {
			m.faults.WithLabelValues(e.Component).Inc()
			m.logger.WarnContext(ctx, "degraded turn",
				"session_id", e.SessionID,
				"component", e.Component,
				"err", e.Err)
		},
	}
}

// ObserveAssistant records one provider attempt. It matches
// assistant.Observer.
func (m *Metrics) ObserveAssistant(provider string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.assistant.WithLabelValues(provider, outcome).Inc()
}
