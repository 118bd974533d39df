package shell

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/rcarmo/go-vsh/pkg/core"
)

// RunScript runs script statement by statement. A failing statement prints
// its error and the script goes on with a failure status; an interrupt
// stops the script with ErrInterrupt. exit stops it with the requested
// code.
func (sh *Shell) RunScript(ctx *Context, p *core.Process, script string) (core.ExitCode, error) {
	src := newSource(script)
	code := core.ExitSuccess
	for !src.done() {
		tokens, err := sh.tokenize(ctx, p, src)
		if err != nil {
			if errors.Is(err, ErrInterrupt) {
				return core.ExitFailure, err
			}
			sh.log.Debug("tokenize failed", zap.Error(err))
			p.Errorf("sh: %v\n", err)
			src.skipLine()
			code = core.ExitFailure
			continue
		}
		if len(tokens) > 0 {
			code, err = sh.runStatement(ctx, p, tokens)
			if errors.Is(err, ErrInterrupt) {
				return code, err
			}
			if err != nil {
				p.Errorf("sh: %v\n", err)
				code = core.ExitFailure
			}
		}
		if ctx.PendingExit != nil {
			return *ctx.PendingExit, nil
		}
	}
	return code, nil
}

// runStatement parses and dispatches one statement under its own
// interrupt token. While it runs, p's streams are bound to the statement's
// context.
func (sh *Shell) runStatement(ctx *Context, p *core.Process, tokens []Token) (core.ExitCode, error) {
	node, err := parse(tokens)
	if err != nil {
		sh.log.Debug("parse failed", zap.Error(err))
		return core.ExitFailure, err
	}

	start := time.Now()
	defer func() { sh.metrics.RecordStatement(time.Since(start)) }()

	stmtCtx, cancel := context.WithCancel(p.Context())
	defer cancel()
	unregister := p.Interrupts.Register(cancel)
	defer unregister()

	restore := p.Bind(stmtCtx)
	res, aborted, settled := abortable(stmtCtx, func() (core.ExitCode, error) {
		return sh.dispatch(ctx, p, node)
	})
	if !aborted && errors.Is(res.err, context.Canceled) && stmtCtx.Err() != nil {
		aborted = true
	}
	if aborted {
		<-settled
		restore()
		sh.metrics.RecordInterrupt()
		sh.log.Debug("statement interrupted", zap.Stringer("statement", node))
		return core.ExitFailure, ErrInterrupt
	}
	restore()
	return res.code, res.err
}
