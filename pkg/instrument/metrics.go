// Package instrument wires the reactive engine's hooks to Prometheus
// metrics and, optionally, OpenTelemetry flush spans.
package instrument

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/reflow-dev/reflow/pkg/reactive"
)

// Config configures engine instrumentation.
type Config struct {
	// Namespace is the metrics namespace (default: "reflow").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations, in seconds.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to register with.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer

	// Tracing enables an OpenTelemetry span per flush.
	Tracing bool

	// TracerName is the tracer name when Tracing is set (default: "reflow").
	TracerName string
}

// Option configures engine instrumentation.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// WithTracing enables OpenTelemetry flush spans under the given tracer
// name. An empty name means "reflow".
func WithTracing(tracerName string) Option {
	return func(c *Config) {
		c.Tracing = true
		if tracerName != "" {
			c.TracerName = tracerName
		}
	}
}

func defaultConfig() Config {
	return Config{
		Namespace:  "reflow",
		Buckets:    prometheus.DefBuckets,
		Registry:   prometheus.DefaultRegisterer,
		TracerName: "reflow",
	}
}

// metrics holds the Prometheus metrics for the engine.
type metrics struct {
	effectRuns     prometheus.Counter
	effectDuration prometheus.Histogram
	memoComputes   prometheus.Counter
	memoDuration   prometheus.Histogram
	flushes        prometheus.Counter
	flushPending   prometheus.Histogram
	flushDuration  prometheus.Histogram
	flushPasses    prometheus.Histogram
	signalWrites   prometheus.Counter
	watcherFires   prometheus.Counter
}

var enableMu sync.Mutex

// Enable registers the engine metrics and installs the hooks. Call once at
// startup; calling again replaces the installed hooks (re-registering with
// the same registry panics, as usual with Prometheus).
//
// Metrics:
//   - reflow_effect_runs_total / reflow_effect_run_duration_seconds
//   - reflow_memo_computes_total / reflow_memo_compute_duration_seconds
//   - reflow_flushes_total / reflow_flush_pending_effects /
//     reflow_flush_duration_seconds / reflow_flush_passes
//   - reflow_signal_writes_total
//   - reflow_watcher_fires_total
//
// Expose them with promhttp in the application that embeds the engine.
func Enable(opts ...Option) {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	enableMu.Lock()
	defer enableMu.Unlock()

	m := newMetrics(config)

	hooks := &reactive.Hooks{
		EffectRun: func(d time.Duration) {
			m.effectRuns.Inc()
			m.effectDuration.Observe(d.Seconds())
		},
		MemoRecompute: func(d time.Duration) {
			m.memoComputes.Inc()
			m.memoDuration.Observe(d.Seconds())
		},
		FlushStart: func(pending int) {
			m.flushes.Inc()
			m.flushPending.Observe(float64(pending))
		},
		FlushEnd: func(d time.Duration, generations, ran int) {
			m.flushDuration.Observe(d.Seconds())
			m.flushPasses.Observe(float64(generations))
		},
		SignalWrite: func() {
			m.signalWrites.Inc()
		},
		WatcherFire: func() {
			m.watcherFires.Inc()
		},
	}

	if config.Tracing {
		attachTracing(hooks, config.TracerName)
	}

	reactive.SetHooks(hooks)
}

func newMetrics(config Config) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		effectRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_runs_total",
			Help:        "Total number of tracked effect executions",
			ConstLabels: config.ConstLabels,
		}),

		effectDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_run_duration_seconds",
			Help:        "Tracked effect execution duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		memoComputes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "memo_computes_total",
			Help:        "Total number of derived-value computations",
			ConstLabels: config.ConstLabels,
		}),

		memoDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "memo_compute_duration_seconds",
			Help:        "Derived-value computation duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		flushes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of batch flushes",
			ConstLabels: config.ConstLabels,
		}),

		flushPending: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_pending_effects",
			Help:        "Effects pending at the start of a flush",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 5, 10, 25, 50, 100, 250},
		}),

		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Batch flush duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		flushPasses: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_passes",
			Help:        "Generations drained per flush",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 3, 5, 8, 13, 21},
		}),

		signalWrites: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "signal_writes_total",
			Help:        "Total number of value-changing writes",
			ConstLabels: config.ConstLabels,
		}),

		watcherFires: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "watcher_fires_total",
			Help:        "Total number of change-observer callback invocations",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Disable removes the installed hooks. Registered metrics remain in the
// registry but stop moving.
func Disable() {
	reactive.SetHooks(nil)
}
