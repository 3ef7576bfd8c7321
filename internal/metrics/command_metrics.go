package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// CommandMetrics covers command execution and the messages it moved.
type CommandMetrics struct {
	// CommandDuration is the wall time of one command, connection included.
	CommandDuration *prometheus.HistogramVec

	// CommandsTotal counts finished commands by outcome.
	CommandsTotal *prometheus.CounterVec

	// MessagesTotal counts messages sent, received, popped or deleted.
	MessagesTotal *prometheus.CounterVec
}

func newCommandMetrics(r *Registry) *CommandMetrics {
	return &CommandMetrics{
		CommandDuration: r.newHistogramVec(prometheus.HistogramOpts{
			Name: "command_duration_seconds",
			Help: "Time taken to run an rsmqctl command",
		}, []string{"command", "result"}),

		CommandsTotal: r.newCounterVec(prometheus.CounterOpts{
			Name: "commands_total",
			Help: "Total rsmqctl commands run",
		}, []string{"command", "result"}),

		MessagesTotal: r.newCounterVec(prometheus.CounterOpts{
			Name: "messages_total",
			Help: "Total messages handled, by queue and operation",
		}, []string{"queue", "operation"}),
	}
}

// RecordCommand records one finished command.
func (m *CommandMetrics) RecordCommand(command string, ok bool, elapsed time.Duration) {
	result := ResultSuccess
	if !ok {
		result = ResultFailure
	}
	m.CommandDuration.WithLabelValues(command, result).Observe(elapsed.Seconds())
	m.CommandsTotal.WithLabelValues(command, result).Inc()
}
