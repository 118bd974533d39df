// Package metrics provides Prometheus metrics for the shell engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Command kinds used as the "kind" label.
const (
	KindBuiltin = "builtin"
	KindProgram = "program"
	KindScript  = "script"
)

// Shell holds the shell engine's collectors. A nil *Shell records nothing.
type Shell struct {
	statementsTotal   prometheus.Counter
	commandsTotal     *prometheus.CounterVec
	notFoundTotal     prometheus.Counter
	interruptsTotal   prometheus.Counter
	pipeBytesTotal    prometheus.Counter
	statementDuration prometheus.Histogram
}

// New registers the shell collectors with reg.
func New(reg prometheus.Registerer) *Shell {
	factory := promauto.With(reg)
	return &Shell{
		statementsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "vsh_statements_total",
				Help: "Total number of top-level statements dispatched",
			},
		),
		commandsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vsh_commands_total",
				Help: "Total number of commands run, by kind",
			},
			[]string{"kind"},
		),
		notFoundTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "vsh_commands_not_found_total",
				Help: "Total number of commands that could not be resolved",
			},
		),
		interruptsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "vsh_interrupts_total",
				Help: "Total number of statements aborted by an interrupt",
			},
		),
		pipeBytesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "vsh_pipe_bytes_total",
				Help: "Total bytes moved through in-memory pipes",
			},
		),
		statementDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "vsh_statement_duration_seconds",
				Help:    "Top-level statement duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// Handler returns an HTTP handler exposing the collectors in reg.
func Handler(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// RecordStatement records a finished top-level statement.
func (s *Shell) RecordStatement(duration time.Duration) {
	if s == nil {
		return
	}
	s.statementsTotal.Inc()
	s.statementDuration.Observe(duration.Seconds())
}

// RecordCommand records a command of the given kind.
func (s *Shell) RecordCommand(kind string) {
	if s == nil {
		return
	}
	s.commandsTotal.WithLabelValues(kind).Inc()
}

// RecordNotFound records an unresolvable command.
func (s *Shell) RecordNotFound() {
	if s == nil {
		return
	}
	s.notFoundTotal.Inc()
}

// RecordInterrupt records an aborted statement.
func (s *Shell) RecordInterrupt() {
	if s == nil {
		return
	}
	s.interruptsTotal.Inc()
}

// RecordPipeBytes adds n to the pipe byte counter.
func (s *Shell) RecordPipeBytes(n int64) {
	if s == nil || n <= 0 {
		return
	}
	s.pipeBytesTotal.Add(float64(n))
}
