// Package streams implements the actor-style byte streams that stand in for
// file descriptors: a cloneable handle per stream and one backend goroutine
// that owns the underlying resource.
package streams

import (
	"errors"
	"io"
)

var (
	// ErrBrokenPipe is returned when writing to a stream whose reader is gone.
	ErrBrokenPipe = errors.New("Broken pipe")
	// ErrProtocol reports a backend that vanished during a handshake.
	ErrProtocol = errors.New("stream backend protocol violation")
	// ErrEmptyRead is returned by GetLine when the stream ended before any
	// byte was read.
	ErrEmptyRead = errors.New("unexpected end of input")
)

// Mode selects how an echoing source delivers input.
type Mode int

const (
	// Line buffers a whole line locally and delivers it on Enter.
	Line Mode = iota
	// Char delivers every keystroke immediately.
	Char
)

func (m Mode) String() string {
	if m == Char {
		return "char"
	}
	return "line"
}

// Writer is the resource behind an output backend.
type Writer interface {
	io.Writer
	Close() error
	IsTerminal() bool
}

// Source is the resource behind an input backend. Close must unblock a
// pending Read.
type Source interface {
	io.Reader
	SetMode(Mode) error
	Close() error
}

type plainWriter struct {
	w io.Writer
}

// WrapWriter adapts w as a non-terminal Writer. Close closes w when it is an
// io.Closer.
func WrapWriter(w io.Writer) Writer {
	return plainWriter{w: w}
}

func (p plainWriter) Write(b []byte) (int, error) { return p.w.Write(b) }
func (p plainWriter) IsTerminal() bool            { return false }
func (p plainWriter) Close() error {
	if c, ok := p.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

type plainSource struct {
	r io.Reader
}

// WrapReader adapts r as a Source that ignores mode switches.
func WrapReader(r io.Reader) Source {
	return plainSource{r: r}
}

func (p plainSource) Read(b []byte) (int, error) { return p.r.Read(b) }
func (p plainSource) SetMode(Mode) error         { return nil }
func (p plainSource) Close() error {
	if c, ok := p.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// FileRedirectOut wraps an open VFS file as an output stream.
func FileRedirectOut(f io.WriteCloser) (OutputStream, *OutputBackend) {
	return NewOutput(WrapWriter(f))
}

// FileRedirectIn wraps an open VFS file as an input stream. A read error or a
// zero-length read ends the stream.
func FileRedirectIn(f io.ReadCloser) (InputStream, *InputBackend) {
	return NewInput(WrapReader(f))
}
