package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/metrics"
	"github.com/rcarmo/go-vsh/pkg/streams"
	"github.com/rcarmo/go-vsh/pkg/vfs"
)

// dispatch evaluates n against p. Nothing new starts once p's context is
// done.
func (sh *Shell) dispatch(ctx *Context, p *core.Process, n Node) (core.ExitCode, error) {
	if err := p.Context().Err(); err != nil {
		return core.ExitFailure, err
	}
	switch n := n.(type) {
	case *Command:
		return sh.runCommand(ctx, p, n.Args)
	case *Pipe:
		return sh.runPipe(ctx, p, n)
	case *And:
		code, err := sh.dispatch(ctx, p, n.LHS)
		if err != nil || !code.Success() {
			return code, err
		}
		return sh.dispatch(ctx, p, n.RHS)
	case *Or:
		code, err := sh.dispatch(ctx, p, n.LHS)
		if err != nil || code.Success() {
			return code, err
		}
		return sh.dispatch(ctx, p, n.RHS)
	case *RedirectOut:
		return sh.runRedirectOut(ctx, p, n)
	case *RedirectIn:
		return sh.runRedirectIn(ctx, p, n)
	}
	return core.ExitFailure, fmt.Errorf("unknown node %T", n)
}

// runCommand runs a builtin in p itself, or a program on a clone of p.
func (sh *Shell) runCommand(ctx *Context, p *core.Process, args []string) (core.ExitCode, error) {
	if len(args) == 0 {
		return core.ExitFailure, syntaxErrorf("empty command")
	}
	if b, ok := lookupBuiltin(args[0]); ok {
		sh.metrics.RecordCommand(metrics.KindBuiltin)
		return builtinTable[b](sh, ctx, p, args)
	}
	child := p.Clone()
	child.Args = args
	return sh.runProgram(child, args[0])
}

// runProgram resolves name and runs it with p. Names containing a slash
// are script paths; anything else is looked up in each PATH directory,
// where a registered program runs natively and any other file runs as a
// script.
func (sh *Shell) runProgram(p *core.Process, name string) (core.ExitCode, error) {
	if strings.Contains(name, "/") {
		path := p.Path(name)
		if ok, _ := path.IsFile(); ok {
			return sh.runScriptFile(p, path)
		}
		return sh.notFound(p, name)
	}
	for _, dir := range strings.Split(p.Env["PATH"], ":") {
		if dir == "" {
			continue
		}
		candidate := p.Path(dir).Join(name)
		if ok, _ := candidate.IsFile(); !ok {
			continue
		}
		if prog, ok := sh.programs[name]; ok {
			sh.metrics.RecordCommand(metrics.KindProgram)
			return prog(p)
		}
		return sh.runScriptFile(p, candidate)
	}
	return sh.notFound(p, name)
}

func (sh *Shell) notFound(p *core.Process, name string) (core.ExitCode, error) {
	sh.metrics.RecordNotFound()
	sh.log.Debug("command not found", zap.String("name", name))
	p.Errorf("%s: Command not found\n", name)
	return core.ExitFailure, nil
}

// runScriptFile runs a script in a fresh context; p.Args are its
// positional arguments.
func (sh *Shell) runScriptFile(p *core.Process, path vfs.Path) (core.ExitCode, error) {
	sh.metrics.RecordCommand(metrics.KindScript)
	data, err := path.ReadFile()
	if err != nil {
		return core.FileError(p, "sh", path.String(), err), nil
	}
	return sh.RunScript(NewContext(), p, string(data))
}

// runPipe runs both sides concurrently. The write end is shut down as soon
// as the left side finishes; the read end only after the right side has
// finished and the left side has been aborted and has let go of the pipe.
func (sh *Shell) runPipe(ctx *Context, p *core.Process, n *Pipe) (core.ExitCode, error) {
	in, out, backend := streams.Pipe()
	parent := p.Context()
	lhsCtx, abortLHS := context.WithCancel(parent)
	defer abortLHS()

	lhs := p.WithContext(lhsCtx)
	lhs.Stdout = out.WithContext(lhsCtx)
	rhs := p.Clone()
	rhs.Stdin = in.WithContext(parent)
	lhsCtxCopy, rhsCtxCopy := ctx.Copy(), ctx.Copy()

	lhsDone := make(chan struct{})
	var code core.ExitCode
	var g errgroup.Group
	g.Go(backend.Run)
	g.Go(func() error {
		defer close(lhsDone)
		res, aborted, settled := abortable(lhsCtx, func() (core.ExitCode, error) {
			return sh.dispatch(lhsCtxCopy, lhs, n.LHS)
		})
		if aborted {
			<-settled
		}
		shutErr := out.Shutdown()
		// Once the stage was aborted its error only reports the abort.
		if res.err != nil && lhsCtx.Err() == nil && !errors.Is(res.err, streams.ErrBrokenPipe) {
			return res.err
		}
		return shutErr
	})
	g.Go(func() error {
		c, err := sh.dispatch(rhsCtxCopy, rhs, n.RHS)
		code = c
		abortLHS()
		<-lhsDone
		if shutErr := in.Shutdown(); err == nil {
			err = shutErr
		}
		return err
	})
	err := g.Wait()
	sh.metrics.RecordPipeBytes(backend.Transferred())
	return code, err
}

func (sh *Shell) runRedirectOut(ctx *Context, p *core.Process, n *RedirectOut) (core.ExitCode, error) {
	path := p.Path(n.Path)
	var w io.WriteCloser
	var err error
	if exists, _ := path.Exists(); n.Append && exists {
		w, err = path.Append()
	} else {
		w, err = path.Create()
	}
	if err != nil {
		return core.FileError(p, "sh", n.Path, err), nil
	}

	out, backend := streams.FileRedirectOut(w)
	child := p.Clone()
	child.Stdout = out.WithContext(p.Context())

	var g errgroup.Group
	g.Go(backend.Run)
	code, runErr := sh.dispatch(ctx, child, n.Inner)
	shutErr := out.Shutdown()
	if err := g.Wait(); runErr == nil {
		runErr = err
	}
	if runErr == nil {
		runErr = shutErr
	}
	return code, runErr
}

func (sh *Shell) runRedirectIn(ctx *Context, p *core.Process, n *RedirectIn) (core.ExitCode, error) {
	path := p.Path(n.Path)
	r, err := path.Open()
	if err != nil {
		return core.FileError(p, "sh", n.Path, err), nil
	}

	in, backend := streams.FileRedirectIn(r)
	child := p.Clone()
	child.Stdin = in.WithContext(p.Context())

	var g errgroup.Group
	g.Go(backend.Run)
	code, runErr := sh.dispatch(ctx, child, n.Inner)
	shutErr := in.Shutdown()
	if err := g.Wait(); runErr == nil {
		runErr = err
	}
	if runErr == nil {
		runErr = shutErr
	}
	return code, runErr
}

// substitute runs script with stdout captured and returns the output
// without trailing newlines. An interrupt discards the output and returns
// ErrInterrupt.
func (sh *Shell) substitute(ctx *Context, p *core.Process, script string) (string, error) {
	runCtx, cancel := context.WithCancel(p.Context())
	defer cancel()
	unregister := p.Interrupts.Register(cancel)
	defer unregister()

	in, out, backend := streams.Pipe()
	child := p.WithContext(runCtx)
	child.Stdout = out.WithContext(runCtx)

	var captured []byte
	var g errgroup.Group
	g.Go(backend.Run)
	g.Go(func() error {
		data, err := io.ReadAll(in)
		captured = data
		if shutErr := in.Shutdown(); err == nil {
			err = shutErr
		}
		return err
	})

	res, aborted, settled := abortable(runCtx, func() (core.ExitCode, error) {
		return sh.RunScript(ctx.Copy(), child, script)
	})
	if aborted {
		<-settled
	}
	_ = out.Shutdown()
	if err := g.Wait(); err != nil && !aborted {
		return "", err
	}
	if aborted || errors.Is(res.err, ErrInterrupt) {
		return "", ErrInterrupt
	}
	if res.err != nil {
		return "", res.err
	}
	return strings.TrimRight(string(captured), "\n"), nil
}
