package shell

import (
	"context"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/streams"
)

// errReadInterrupted reports a prompt read cut short by an interrupt.
var errReadInterrupted = errors.New("read interrupted")

// Main is the sh program:
//
//	sh                    interactive session
//	sh -c COMMAND         run COMMAND; positional arguments stay [sh -c COMMAND]
//	sh -s FILE            source FILE, then go interactive
//	sh SCRIPT [ARGS...]   run SCRIPT with positional arguments [SCRIPT ARGS...]
func (sh *Shell) Main(p *core.Process) (core.ExitCode, error) {
	args := p.Args[1:]
	ctx := NewContext()
	if len(args) == 0 {
		return sh.Interactive(ctx, p)
	}
	switch args[0] {
	case "-c":
		if len(args) < 2 {
			return core.UsageError(p, "sh", "-c: option requires an argument"), nil
		}
		return sh.RunScript(ctx, p, args[1])
	case "-s":
		if len(args) < 2 {
			return core.UsageError(p, "sh", "-s: option requires an argument"), nil
		}
		code, err := sh.source(ctx, p, []string{"source", args[1]})
		if err != nil {
			return code, err
		}
		if ctx.PendingExit != nil {
			return *ctx.PendingExit, nil
		}
		return sh.Interactive(ctx, p)
	}
	data, err := p.Path(args[0]).ReadFile()
	if err != nil {
		return core.FileError(p, "sh", args[0], err), nil
	}
	child := p.Clone()
	child.Args = append([]string(nil), args...)
	return sh.RunScript(ctx, child, string(data))
}

// Interactive runs the read-eval loop until end of input or exit.
func (sh *Shell) Interactive(ctx *Context, p *core.Process) (core.ExitCode, error) {
	history := LoadHistory(p.Path(sh.historyFile))
	code := core.ExitSuccess
	for {
		line, err := sh.readLine(p, RenderPrompt(p), history)
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, streams.ErrEmptyRead):
			return code, nil
		case errors.Is(err, errReadInterrupted):
			p.Print("\n")
			continue
		case errors.Is(err, streams.ErrBrokenPipe), errors.Is(err, streams.ErrProtocol):
			return core.ExitFailure, err
		case err != nil:
			p.Errorf("\nreadline: %v\n", err)
			continue
		}

		if strings.TrimSpace(line) != "" {
			if err := history.Add(line); err != nil {
				sh.log.Debug("history append failed", zap.Error(err))
			}
		}
		code, err = sh.RunScript(ctx, p, line)
		if errors.Is(err, ErrInterrupt) {
			p.Errorf("INTERRUPT\n")
		} else if err != nil {
			p.Errorf("sh: %v\n", err)
		}
		if ctx.PendingExit != nil {
			return *ctx.PendingExit, nil
		}
	}
}

// readLine prints the prompt and reads one line under its own interrupt
// token. A terminal gets the line editor; anything else a plain line read.
func (sh *Shell) readLine(p *core.Process, prompt string, history *History) (string, error) {
	readCtx, cancel := context.WithCancel(p.Context())
	defer cancel()
	unregister := p.Interrupts.Register(cancel)
	defer unregister()

	var line string
	var err error
	if isTerm, _ := p.Stdout.IsTerminal(); isTerm {
		line, err = editLine(readCtx, p.Stdin, p.Stdout, prompt, screenWidth(p), history)
	} else {
		p.Print(prompt)
		if err = p.Stdout.Flush(); err != nil {
			return "", err
		}
		line, err = p.Stdin.WithContext(readCtx).GetLine()
	}
	if err != nil && readCtx.Err() != nil && p.Context().Err() == nil {
		return "", errReadInterrupted
	}
	return line, err
}
