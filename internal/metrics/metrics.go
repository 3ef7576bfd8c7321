// =============================================================================
// OBSERVABILITY WITH PROMETHEUS - CLI METRICS INFRASTRUCTURE
// =============================================================================
//
// WHAT IS THIS?
// rsmqctl is a one-shot process: it starts, runs one command, exits. Nothing
// stays alive long enough to be scraped, so metrics are PUSHED instead:
//
//   ┌──────────┐  run command  ┌──────────┐  push on exit  ┌─────────────┐
//   │ rsmqctl  │──────────────►│ Registry │───────────────►│ Pushgateway │
//   └──────────┘               └──────────┘                └──────┬──────┘
//                                                                 │ scrape
//                                                                 ▼
//                                                          ┌─────────────┐
//                                                          │ Prometheus  │
//                                                          └─────────────┘
//
// Each invocation builds its own Registry. Without a Pushgateway URL the
// registry is still filled (tests read it) but nothing leaves the process.
//
// METRICS:
//
//   rsmqctl_command_duration_seconds{command,result}  histogram
//   rsmqctl_commands_total{command,result}            counter
//   rsmqctl_messages_total{queue,operation}           counter
//
// result is "success" or "failure"; operation is send, receive, pop or delete.
//
// =============================================================================

package metrics

import (
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds the rsmqctl metrics and the Prometheus registry behind them.
type Registry struct {
	promRegistry *prometheus.Registry
	config       Config
	logger       *slog.Logger

	Commands *CommandMetrics
}

// Config holds metrics configuration.
type Config struct {
	// Namespace is the prefix for all metrics (default: "rsmqctl")
	Namespace string

	// Job is the Pushgateway grouping job name (default: "rsmqctl")
	Job string

	// IncludeGoCollector adds Go runtime metrics to the pushed set
	IncludeGoCollector bool

	// IncludeProcessCollector adds process metrics (CPU, memory, fds)
	IncludeProcessCollector bool

	// HistogramBuckets for command latency (in seconds)
	HistogramBuckets []float64

	// Logger receives push failures; nil discards them
	Logger *slog.Logger
}

// DefaultConfig returns the defaults used by rsmqctl.
//
// A command is one to a handful of Redis round trips, so the buckets run
// from a millisecond up to the default 30s timeout.
func DefaultConfig() Config {
	return Config{
		Namespace: "rsmqctl",
		Job:       "rsmqctl",
		HistogramBuckets: []float64{
			0.001, 0.0025, 0.005, 0.01, 0.025, 0.05,
			0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
		},
	}
}

// NewRegistry creates a registry with all rsmqctl metrics registered.
func NewRegistry(config Config) *Registry {
	if config.Namespace == "" {
		config.Namespace = "rsmqctl"
	}
	if config.Job == "" {
		config.Job = config.Namespace
	}
	if len(config.HistogramBuckets) == 0 {
		config.HistogramBuckets = DefaultConfig().HistogramBuckets
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := &Registry{
		promRegistry: prometheus.NewRegistry(),
		config:       config,
		logger:       logger,
	}

	if config.IncludeGoCollector {
		r.promRegistry.MustRegister(collectors.NewGoCollector())
	}
	if config.IncludeProcessCollector {
		r.promRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	r.Commands = newCommandMetrics(r)

	return r
}

// Namespace returns the configured namespace.
func (r *Registry) Namespace() string {
	return r.config.Namespace
}

// Config returns the metrics configuration.
func (r *Registry) Config() Config {
	return r.config
}

// PrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.promRegistry
}

// RecordMessage counts one message operation on queue. It lets the registry
// stand in wherever a message recorder is expected.
func (r *Registry) RecordMessage(queue, operation string) {
	r.Commands.MessagesTotal.WithLabelValues(queue, operation).Inc()
}

// =============================================================================
// METRIC REGISTRATION HELPERS
// =============================================================================

func (r *Registry) newCounterVec(opts prometheus.CounterOpts, labelNames []string) *prometheus.CounterVec {
	opts.Namespace = r.config.Namespace
	counterVec := prometheus.NewCounterVec(opts, labelNames)
	r.promRegistry.MustRegister(counterVec)
	return counterVec
}

func (r *Registry) newHistogramVec(opts prometheus.HistogramOpts, labelNames []string) *prometheus.HistogramVec {
	opts.Namespace = r.config.Namespace
	if opts.Buckets == nil {
		opts.Buckets = r.config.HistogramBuckets
	}
	histogramVec := prometheus.NewHistogramVec(opts, labelNames)
	r.promRegistry.MustRegister(histogramVec)
	return histogramVec
}

// =============================================================================
// TIMING HELPERS
// =============================================================================
//
// USAGE PATTERN:
//
//	timer := metrics.NewTimer()
//	err := run()
//	reg.Commands.RecordCommand("queue list", err == nil, timer.Elapsed())
//

// Timer measures the duration of an operation.
type Timer struct {
	start time.Time
}

// NewTimer starts a timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the time since the timer was started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
