package streams

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/rcarmo/go-vsh/pkg/logging"
)

// highWater bounds how far writers may run ahead of the backend.
const highWater = 256

type outputKind int

const (
	outBytes outputKind = iota
	outFlush
	outShutdown
	outIsTerminal
)

type outputCommand struct {
	kind  outputKind
	data  []byte
	ack   chan struct{}
	reply chan bool
}

type outputLink struct {
	cmds *mailbox[outputCommand]
	done chan struct{}

	mu  sync.Mutex
	err error
}

func (l *outputLink) failure() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func (l *outputLink) fail(err error) {
	l.mu.Lock()
	if l.err == nil {
		l.err = err
	}
	l.mu.Unlock()
}

// OutputStream is a cloneable handle to an output backend. Copies share the
// backend; WithContext binds the copy's writes to a context.
type OutputStream struct {
	link *outputLink
	ctx  context.Context
}

// OutputBackend owns the Writer behind an OutputStream and is the only code
// that touches it.
type OutputBackend struct {
	w    Writer
	link *outputLink
	buf  []byte
}

// NewOutput creates a handle/backend pair around w. The caller must run the
// backend and eventually Shutdown the handle.
func NewOutput(w Writer) (OutputStream, *OutputBackend) {
	link := &outputLink{cmds: newMailbox[outputCommand](), done: make(chan struct{})}
	return OutputStream{link: link}, &OutputBackend{w: w, link: link}
}

// WithContext returns a copy whose writes fail once ctx is done.
func (o OutputStream) WithContext(ctx context.Context) OutputStream {
	o.ctx = ctx
	return o
}

func (o OutputStream) context() context.Context {
	if o.ctx == nil {
		return context.Background()
	}
	return o.ctx
}

// Write queues p for the backend. It returns ErrBrokenPipe once the stream is
// shut down or its resource stopped accepting data.
func (o OutputStream) Write(p []byte) (int, error) {
	if o.link == nil {
		return 0, ErrBrokenPipe
	}
	ctx := o.context()
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := o.link.failure(); err != nil {
		return 0, err
	}
	if err := o.link.cmds.waitBelow(ctx, highWater); err != nil {
		return 0, err
	}
	data := append([]byte(nil), p...)
	if err := o.link.cmds.send(outputCommand{kind: outBytes, data: data}); err != nil {
		return 0, ErrBrokenPipe
	}
	return len(p), nil
}

// WriteString writes s.
func (o OutputStream) WriteString(s string) (int, error) {
	return o.Write([]byte(s))
}

// Flush asks the backend to push buffered bytes to its resource.
func (o OutputStream) Flush() error {
	if o.link == nil {
		return ErrBrokenPipe
	}
	if err := o.link.cmds.send(outputCommand{kind: outFlush}); err != nil {
		return ErrBrokenPipe
	}
	return nil
}

// Shutdown flushes, closes the resource and waits for the backend to
// acknowledge. Shutting down an already closed stream is a no-op.
func (o OutputStream) Shutdown() error {
	if o.link == nil {
		return nil
	}
	ack := make(chan struct{})
	if err := o.link.cmds.send(outputCommand{kind: outShutdown, ack: ack}); err != nil {
		return nil
	}
	return awaitAck(ack, o.link.done, "output shutdown")
}

// IsTerminal reports whether the backend writes to a terminal.
func (o OutputStream) IsTerminal() (bool, error) {
	if o.link == nil {
		return false, ErrBrokenPipe
	}
	reply := make(chan bool, 1)
	if err := o.link.cmds.send(outputCommand{kind: outIsTerminal, reply: reply}); err != nil {
		return false, ErrBrokenPipe
	}
	select {
	case v := <-reply:
		return v, nil
	case <-o.link.done:
		select {
		case v := <-reply:
			return v, nil
		default:
		}
		logging.Named("streams").Error("output backend exited before answering terminal query")
		return false, ErrProtocol
	}
}

// Run services commands until Shutdown. Resource errors other than a broken
// pipe are returned once the stream is shut down.
func (b *OutputBackend) Run() error {
	defer close(b.link.done)
	for {
		cmd, err := b.link.cmds.recv(context.Background())
		if err != nil {
			return b.w.Close()
		}
		switch cmd.kind {
		case outBytes:
			b.buf = append(b.buf, cmd.data...)
			if i := bytes.LastIndexAny(b.buf, "\n\r"); i >= 0 {
				b.emit(b.buf[:i+1])
				b.buf = append(b.buf[:0], b.buf[i+1:]...)
			}
		case outFlush:
			b.flush()
		case outIsTerminal:
			cmd.reply <- b.w.IsTerminal()
		case outShutdown:
			b.flush()
			closeErr := b.w.Close()
			b.link.cmds.close()
			close(cmd.ack)
			if err := b.link.failure(); err != nil && !errors.Is(err, ErrBrokenPipe) {
				return err
			}
			return closeErr
		}
	}
}

func (b *OutputBackend) flush() {
	if len(b.buf) == 0 {
		return
	}
	b.emit(b.buf)
	b.buf = b.buf[:0]
}

func (b *OutputBackend) emit(p []byte) {
	if b.link.failure() != nil {
		return
	}
	if _, err := b.w.Write(p); err != nil {
		b.link.fail(err)
	}
}

// awaitAck waits for a backend acknowledgment. A backend that exits without
// answering is a protocol violation.
func awaitAck(ack <-chan struct{}, done <-chan struct{}, what string) error {
	select {
	case <-ack:
		return nil
	case <-done:
		select {
		case <-ack:
			return nil
		default:
		}
		logging.Named("streams").Error("backend exited without acknowledging", zap.String("command", what))
		return ErrProtocol
	}
}
