package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the playback collectors.
type Metrics struct {
	TracesGenerated *prometheus.CounterVec
	AdapterFailures *prometheus.CounterVec
	PlaybackTicks   prometheus.Counter
	TraceSteps      *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TracesGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stepwise_traces_generated_total",
				Help: "Total number of traces generated",
			},
			[]string{"problem"},
		),
		AdapterFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stepwise_adapter_failures_total",
				Help: "Total number of adapter failures (panics or empty traces)",
			},
			[]string{"problem"},
		),
		PlaybackTicks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "stepwise_playback_ticks_total",
				Help: "Total number of autoplay ticks",
			},
		),
		TraceSteps: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stepwise_trace_steps",
				Help:    "Number of steps per generated trace",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
			[]string{"problem"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.TracesGenerated, m.AdapterFailures, m.PlaybackTicks, m.TraceSteps)
	}
	return m
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTraceGenerated: func(_ context.Context, e *domain.TraceEvent) {
			m.TracesGenerated.WithLabelValues(e.Problem).Inc()
			m.TraceSteps.WithLabelValues(e.Problem).Observe(float64(e.Steps))
		},
		OnAdapterFailure: func(_ context.Context, e *domain.TraceEvent) {
			m.AdapterFailures.WithLabelValues(e.Problem).Inc()
		},
		OnTick: func(context.Context, *domain.PlaybackEvent) {
			m.PlaybackTicks.Inc()
		},
	}
}

// LogHooks returns lifecycle hooks writing each event to logger.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTraceGenerated: func(_ context.Context, e *domain.TraceEvent) {
			logger.Info("trace_generated", "problem", e.Problem, "steps", e.Steps)
		},
		OnAdapterFailure: func(_ context.Context, e *domain.TraceEvent) {
			logger.Warn("adapter_failed", "problem", e.Problem, "err", e.Err)
		},
		OnTick: func(_ context.Context, e *domain.PlaybackEvent) {
			logger.Debug("tick", "step", e.Current.CurrentStep, "total", e.Current.TotalSteps)
		},
		OnStateChange: func(_ context.Context, e *domain.PlaybackEvent) {
			logger.Debug("state_change",
				"step", e.Current.CurrentStep,
				"playing", e.Current.IsPlaying,
				"speed", e.Current.Speed,
			)
		},
	}
}
