// Package shell implements the command interpreter: tokenizer, parser,
// dispatcher and the interactive sh program.
package shell

import (
	"go.uber.org/zap"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/logging"
	"github.com/rcarmo/go-vsh/pkg/metrics"
)

// DefaultHistoryFile is where interactive sessions keep their history.
const DefaultHistoryFile = "/etc/.sh_history"

// Hostname is what \h expands to in a prompt.
const Hostname = "vsh"

// Shell runs scripts against a program table.
type Shell struct {
	programs    core.Registry
	metrics     *metrics.Shell
	log         *zap.Logger
	historyFile string
}

// Option configures a Shell.
type Option func(*Shell)

// WithMetrics records engine metrics into m.
func WithMetrics(m *metrics.Shell) Option {
	return func(sh *Shell) { sh.metrics = m }
}

// WithLogger sets the logger used for engine diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(sh *Shell) { sh.log = l }
}

// WithHistoryFile sets the interactive history location.
func WithHistoryFile(path string) Option {
	return func(sh *Shell) { sh.historyFile = path }
}

// New returns a shell resolving commands through programs. The registry is
// consulted at run time, so programs added later are visible.
func New(programs core.Registry, opts ...Option) *Shell {
	sh := &Shell{
		programs:    programs,
		historyFile: DefaultHistoryFile,
	}
	for _, opt := range opts {
		opt(sh)
	}
	if sh.log == nil {
		sh.log = logging.Named("shell")
	}
	return sh
}
