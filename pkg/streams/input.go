package streams

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/rcarmo/go-vsh/pkg/logging"
)

// chunkSize is the read size used by input backends.
const chunkSize = 512

type inputKind int

const (
	inSetMode inputKind = iota
	inShutdown
)

type inputCommand struct {
	kind  inputKind
	mode  Mode
	ack   chan struct{}
	reply chan error
}

type inputLink struct {
	cmds *mailbox[inputCommand]
	data chan []byte
	done chan struct{}

	// sem serializes readers; pending is only touched while holding it.
	sem     chan struct{}
	pending []byte
}

// InputStream is a cloneable handle to an input backend. Copies share the
// backend and its unread bytes; each byte is delivered to exactly one reader.
type InputStream struct {
	link *inputLink
	ctx  context.Context
}

// InputBackend owns the Source behind an InputStream.
type InputBackend struct {
	src  Source
	link *inputLink
	stop chan struct{}
}

// NewInput creates a handle/backend pair around src.
func NewInput(src Source) (InputStream, *InputBackend) {
	link := &inputLink{
		cmds: newMailbox[inputCommand](),
		data: make(chan []byte, 16),
		done: make(chan struct{}),
		sem:  make(chan struct{}, 1),
	}
	return InputStream{link: link}, &InputBackend{src: src, link: link, stop: make(chan struct{})}
}

// WithContext returns a copy whose reads give up once ctx is done.
func (in InputStream) WithContext(ctx context.Context) InputStream {
	in.ctx = ctx
	return in
}

func (in InputStream) context() context.Context {
	if in.ctx == nil {
		return context.Background()
	}
	return in.ctx
}

func (in InputStream) acquire() error {
	ctx := in.context()
	select {
	case in.link.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (in InputStream) release() { <-in.link.sem }

// fill blocks until pending holds at least one byte. Callers hold sem.
func (in InputStream) fill() error {
	ctx := in.context()
	for len(in.link.pending) == 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case chunk, ok := <-in.link.data:
			if !ok {
				return io.EOF
			}
			in.link.pending = chunk
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Read returns whatever bytes are available, blocking until at least one
// arrives or the stream ends.
func (in InputStream) Read(p []byte) (int, error) {
	if in.link == nil {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}
	if err := in.acquire(); err != nil {
		return 0, err
	}
	defer in.release()
	if err := in.fill(); err != nil {
		return 0, err
	}
	n := copy(p, in.link.pending)
	in.link.pending = in.link.pending[n:]
	return n, nil
}

// GetChar reads a single byte.
func (in InputStream) GetChar() (byte, error) {
	var b [1]byte
	if _, err := in.Read(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// GetLine reads up to and including the next newline and returns the line
// without its terminator. A partial line at end of stream is returned as is;
// ErrEmptyRead is returned when nothing was read at all.
func (in InputStream) GetLine() (string, error) {
	if in.link == nil {
		return "", ErrEmptyRead
	}
	if err := in.acquire(); err != nil {
		return "", err
	}
	defer in.release()

	var line []byte
	for {
		if err := in.fill(); err != nil {
			if err == io.EOF {
				if len(line) == 0 {
					return "", ErrEmptyRead
				}
				return decodeLine(line), nil
			}
			return "", err
		}
		pending := in.link.pending
		if i := bytes.IndexByte(pending, '\n'); i >= 0 {
			line = append(line, pending[:i]...)
			in.link.pending = pending[i+1:]
			return decodeLine(line), nil
		}
		line = append(line, pending...)
		in.link.pending = nil
	}
}

func decodeLine(b []byte) string {
	s := strings.TrimSuffix(string(b), "\r")
	return strings.ToValidUTF8(s, "�")
}

// SetMode switches the source's delivery mode and waits for the backend to
// apply it.
func (in InputStream) SetMode(mode Mode) error {
	if in.link == nil {
		return ErrBrokenPipe
	}
	reply := make(chan error, 1)
	if err := in.link.cmds.send(inputCommand{kind: inSetMode, mode: mode, reply: reply}); err != nil {
		return ErrBrokenPipe
	}
	select {
	case err := <-reply:
		return err
	case <-in.link.done:
		select {
		case err := <-reply:
			return err
		default:
		}
		logging.Named("streams").Error("input backend exited without acknowledging mode switch")
		return ErrProtocol
	}
}

// Shutdown closes the source and waits for the backend to acknowledge.
// Blocked readers observe end of stream. Repeated calls are no-ops.
func (in InputStream) Shutdown() error {
	if in.link == nil {
		return nil
	}
	ack := make(chan struct{})
	if err := in.link.cmds.send(inputCommand{kind: inShutdown, ack: ack}); err != nil {
		return nil
	}
	return awaitAck(ack, in.link.done, "input shutdown")
}

// Run services commands until Shutdown while a pump goroutine moves bytes
// from the source to the handles.
func (b *InputBackend) Run() error {
	defer close(b.link.done)
	pumped := make(chan struct{})
	go func() {
		defer close(pumped)
		b.pump()
	}()
	for {
		cmd, err := b.link.cmds.recv(context.Background())
		if err != nil {
			close(b.stop)
			closeErr := b.src.Close()
			<-pumped
			return closeErr
		}
		switch cmd.kind {
		case inSetMode:
			cmd.reply <- b.src.SetMode(cmd.mode)
		case inShutdown:
			b.link.cmds.close()
			close(b.stop)
			closeErr := b.src.Close()
			<-pumped
			close(cmd.ack)
			return closeErr
		}
	}
}

func (b *InputBackend) pump() {
	defer close(b.link.data)
	buf := make([]byte, chunkSize)
	for {
		n, err := b.src.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			select {
			case b.link.data <- chunk:
			case <-b.stop:
				return
			}
		}
		if err != nil || n == 0 {
			return
		}
		select {
		case <-b.stop:
			return
		default:
		}
	}
}
