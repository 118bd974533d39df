package main

import (
	"bytes"
	"io"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/streams"
)

// host binds the session streams to the process's own stdin and stdout.
type host struct {
	in      streams.InputStream
	out     streams.OutputStream
	run     func() error
	restore func()

	fd   int
	size atomic.Pointer[unix.Winsize]
	log  *zap.Logger
}

// openHost uses the keyed terminal in raw mode when stdin is a tty and plain
// byte streams otherwise.
func openHost(interrupts *core.Interrupts, log *zap.Logger) *host {
	h := &host{fd: int(os.Stdin.Fd()), restore: func() {}, log: log}
	keys := make(chan []byte)
	go readKeys(os.Stdin, keys)

	if !term.IsTerminal(h.fd) {
		in, ib := streams.NewInput(streams.WrapReader(newKeyReader(keys)))
		out, ob := streams.NewOutput(streams.WrapWriter(os.Stdout))
		h.in, h.out = in, out
		h.run = func() error {
			var g errgroup.Group
			g.Go(ib.Run)
			g.Go(ob.Run)
			return g.Wait()
		}
		return h
	}

	state, err := term.MakeRaw(h.fd)
	if err != nil {
		log.Warn("raw mode unavailable", zap.Error(err))
	} else {
		h.restore = func() { _ = term.Restore(h.fd, state) }
	}
	h.refreshSize()
	h.watchResize()

	in, out, backend := streams.Terminal(keys, crlfWriter{w: os.Stdout}, streams.TerminalOptions{
		Interrupt: func() { interrupts.Fire() },
	})
	h.in, h.out, h.run = in, out, backend.Run
	return h
}

// readKeys forwards raw key chunks until r fails.
func readKeys(r io.Reader, keys chan<- []byte) {
	defer close(keys)
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			keys <- append([]byte(nil), buf[:n]...)
		}
		if err != nil {
			return
		}
	}
}

func (h *host) refreshSize() {
	ws, err := unix.IoctlGetWinsize(h.fd, unix.TIOCGWINSZ)
	if err != nil {
		h.log.Warn("window size unavailable", zap.Error(err))
		return
	}
	h.size.Store(ws)
}

// watchResize keeps the cached size current for sessions started later.
func (h *host) watchResize() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, unix.SIGWINCH)
	go func() {
		for range sig {
			h.refreshSize()
			if ws := h.size.Load(); ws != nil {
				h.log.Debug("terminal resized", zap.Uint16("cols", ws.Col), zap.Uint16("rows", ws.Row))
			}
		}
	}()
}

// exportSize sets COLUMNS and LINES from the host window, when known.
func (h *host) exportSize(env map[string]string) {
	ws := h.size.Load()
	if ws == nil || ws.Col == 0 {
		return
	}
	env["COLUMNS"] = strconv.Itoa(int(ws.Col))
	env["LINES"] = strconv.Itoa(int(ws.Row))
}

// keyReader reads forwarded chunks; Close releases a blocked Read without
// touching the host descriptor.
type keyReader struct {
	keys    <-chan []byte
	done    chan struct{}
	once    sync.Once
	pending []byte
}

func newKeyReader(keys <-chan []byte) *keyReader {
	return &keyReader{keys: keys, done: make(chan struct{})}
}

func (k *keyReader) Read(p []byte) (int, error) {
	for len(k.pending) == 0 {
		select {
		case chunk, ok := <-k.keys:
			if !ok {
				return 0, io.EOF
			}
			k.pending = chunk
		case <-k.done:
			return 0, io.EOF
		}
	}
	n := copy(p, k.pending)
	k.pending = k.pending[n:]
	return n, nil
}

func (k *keyReader) Close() error {
	k.once.Do(func() { close(k.done) })
	return nil
}

// crlfWriter turns bare line feeds into CR LF for a raw-mode tty.
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if bytes.IndexByte(p, '\n') < 0 {
		return c.w.Write(p)
	}
	out := make([]byte, 0, len(p)+8)
	for i, b := range p {
		if b == '\n' && (i == 0 || p[i-1] != '\r') {
			out = append(out, '\r')
		}
		out = append(out, b)
	}
	if _, err := c.w.Write(out); err != nil {
		return 0, err
	}
	return len(p), nil
}
