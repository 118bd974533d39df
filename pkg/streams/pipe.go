package streams

import (
	"context"
	"io"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// PipeBackend runs both halves of an in-memory pipe.
type PipeBackend struct {
	in   *InputBackend
	out  *OutputBackend
	sent atomic.Int64
}

// Pipe returns the read end, the write end and the backend that joins them.
// Bytes written to the write end arrive on the read end in order; shutting
// down the write end ends the read end only after everything was delivered.
func Pipe() (InputStream, OutputStream, *PipeBackend) {
	box := newMailbox[[]byte]()
	b := &PipeBackend{}
	out, ob := NewOutput(&pipeWriter{box: box, sent: &b.sent})
	in, ib := NewInput(&pipeReader{box: box})
	b.in, b.out = ib, ob
	return in, out, b
}

// Run runs both backends until both ends are shut down.
func (b *PipeBackend) Run() error {
	var g errgroup.Group
	g.Go(b.out.Run)
	g.Go(b.in.Run)
	return g.Wait()
}

// Transferred returns the number of bytes that entered the pipe.
func (b *PipeBackend) Transferred() int64 {
	return b.sent.Load()
}

type pipeWriter struct {
	box  *mailbox[[]byte]
	sent *atomic.Int64
}

func (w *pipeWriter) Write(p []byte) (int, error) {
	if err := w.box.send(append([]byte(nil), p...)); err != nil {
		return 0, ErrBrokenPipe
	}
	w.sent.Add(int64(len(p)))
	return len(p), nil
}

func (w *pipeWriter) IsTerminal() bool { return false }

func (w *pipeWriter) Close() error {
	w.box.close()
	return nil
}

type pipeReader struct {
	box     *mailbox[[]byte]
	pending []byte
}

func (r *pipeReader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 {
		chunk, err := r.box.recv(context.Background())
		if err != nil {
			return 0, io.EOF
		}
		r.pending = chunk
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

func (r *pipeReader) SetMode(Mode) error { return nil }

func (r *pipeReader) Close() error {
	r.box.close()
	return nil
}
