// Package core provides the process contract shared by the shell and its
// programs.
package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/rcarmo/go-vsh/pkg/streams"
	"github.com/rcarmo/go-vsh/pkg/vfs"
)

// ExitCode is a program's exit status. Zero is success.
type ExitCode uint8

// Exit codes following POSIX conventions
const (
	ExitSuccess ExitCode = 0
	ExitFailure ExitCode = 1
	ExitUsage   ExitCode = 2
)

// Success reports whether c is zero.
func (c ExitCode) Success() bool { return c == ExitSuccess }

// Byte returns the raw status byte.
func (c ExitCode) Byte() byte { return byte(c) }

// FromBool maps true to ExitSuccess and false to ExitFailure.
func FromBool(ok bool) ExitCode {
	if ok {
		return ExitSuccess
	}
	return ExitFailure
}

// Process is the execution context handed to every program: its streams,
// environment, working directory and argument vector. Each pipeline stage
// runs on its own Clone.
type Process struct {
	Stdin  streams.InputStream
	Stdout streams.OutputStream
	Stderr streams.OutputStream

	Env  map[string]string
	Cwd  vfs.Path
	Args []string

	// Interrupts is shared by every clone of a session.
	Interrupts *Interrupts

	ctx context.Context
}

// Program is a userland command. It may read and write the process streams
// and resolve paths against Cwd, but never owns the stream handles.
type Program func(p *Process) (ExitCode, error)

// Registry maps command names to programs.
type Registry map[string]Program

// Names returns the registered names in sorted order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a copy with its own environment and argument vector. Stream
// handles and the interrupt registrar are shared.
func (p *Process) Clone() *Process {
	c := *p
	c.Env = make(map[string]string, len(p.Env))
	for k, v := range p.Env {
		c.Env[k] = v
	}
	c.Args = append([]string(nil), p.Args...)
	return &c
}

// Context returns the context the process is bound to.
func (p *Process) Context() context.Context {
	if p.ctx == nil {
		return context.Background()
	}
	return p.ctx
}

// Bind ties the process and its stream handles to ctx in place, so blocked
// reads and writes give up when ctx is done. The returned func restores the
// previous binding.
func (p *Process) Bind(ctx context.Context) (restore func()) {
	prevCtx, stdin, stdout, stderr := p.ctx, p.Stdin, p.Stdout, p.Stderr
	p.bind(ctx)
	return func() {
		p.ctx, p.Stdin, p.Stdout, p.Stderr = prevCtx, stdin, stdout, stderr
	}
}

// WithContext returns a Clone bound to ctx.
func (p *Process) WithContext(ctx context.Context) *Process {
	c := p.Clone()
	c.bind(ctx)
	return c
}

func (p *Process) bind(ctx context.Context) {
	p.ctx = ctx
	p.Stdin = p.Stdin.WithContext(ctx)
	p.Stdout = p.Stdout.WithContext(ctx)
	p.Stderr = p.Stderr.WithContext(ctx)
}

// Path resolves name against the working directory.
func (p *Process) Path(name string) vfs.Path {
	return p.Cwd.Join(name)
}

// Getenv returns the environment value for name, or "".
func (p *Process) Getenv(name string) string {
	return p.Env[name]
}

// Arg returns the i-th argument, or "" when out of range.
func (p *Process) Arg(i int) string {
	if i < 0 || i >= len(p.Args) {
		return ""
	}
	return p.Args[i]
}

// Errorf writes a formatted error message to stderr.
func (p *Process) Errorf(format string, args ...any) {
	fmt.Fprintf(p.Stderr, format, args...)
}

// Printf writes a formatted message to stdout.
func (p *Process) Printf(format string, args ...any) {
	fmt.Fprintf(p.Stdout, format, args...)
}

// Print writes a message to stdout.
func (p *Process) Print(args ...any) {
	fmt.Fprint(p.Stdout, args...)
}

// Println writes a message to stdout with a newline.
func (p *Process) Println(args ...any) {
	fmt.Fprintln(p.Stdout, args...)
}

// UsageError prints a usage error and returns ExitUsage.
func UsageError(p *Process, applet, message string) ExitCode {
	p.Errorf("%s: %s\n", applet, message)
	return ExitUsage
}

// FileError prints a file-related error and returns ExitFailure.
func FileError(p *Process, applet, path string, err error) ExitCode {
	p.Errorf("%s: %s: %v\n", applet, path, Cause(err))
	return ExitFailure
}
