package streams

import (
	"io"
	"sync"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

// InterruptKey is the key byte that fires an interrupt (Ctrl-C).
const InterruptKey = 0x03

// TerminalOptions configures a terminal.
type TerminalOptions struct {
	// Interrupt is called when InterruptKey is typed.
	Interrupt func()
}

// TerminalBackend runs the input and output sides of a terminal.
type TerminalBackend struct {
	in  *InputBackend
	out *OutputBackend
}

// Terminal connects a keyed-input source and an append-only text sink. Keys
// arrive as raw byte chunks; closing keys ends the input stream.
func Terminal(keys <-chan []byte, sink io.Writer, opts TerminalOptions) (InputStream, OutputStream, *TerminalBackend) {
	out, ob := NewOutput(terminalWriter{sink: sink})
	kb := &keyboard{keys: keys, echo: out, interrupt: opts.Interrupt, closed: make(chan struct{})}
	in, ib := NewInput(kb)
	return in, out, &TerminalBackend{in: ib, out: ob}
}

// Run runs both backends until both streams are shut down.
func (b *TerminalBackend) Run() error {
	var g errgroup.Group
	g.Go(b.out.Run)
	g.Go(b.in.Run)
	return g.Wait()
}

type terminalWriter struct {
	sink io.Writer
}

func (w terminalWriter) Write(p []byte) (int, error) { return w.sink.Write(p) }
func (w terminalWriter) IsTerminal() bool            { return true }
func (w terminalWriter) Close() error                { return nil }

// keyboard turns key chunks into input. In Line mode it echoes keystrokes,
// handles backspace and delivers the line on Enter; in Char mode every key is
// delivered immediately without echo.
type keyboard struct {
	keys      <-chan []byte
	echo      OutputStream
	interrupt func()
	closed    chan struct{}
	closeOnce sync.Once

	mu    sync.Mutex
	mode  Mode
	line  []byte
	ready []byte
	// inEscape is set while swallowing an escape sequence in Line mode.
	inEscape bool
}

func (k *keyboard) Read(p []byte) (int, error) {
	for {
		k.mu.Lock()
		if len(k.ready) > 0 {
			n := copy(p, k.ready)
			k.ready = k.ready[n:]
			k.mu.Unlock()
			return n, nil
		}
		k.mu.Unlock()

		select {
		case chunk, ok := <-k.keys:
			if !ok {
				return 0, io.EOF
			}
			k.feed(chunk)
		case <-k.closed:
			return 0, io.EOF
		}
	}
}

func (k *keyboard) feed(chunk []byte) {
	k.mu.Lock()
	defer k.mu.Unlock()
	var echo []byte
	for _, c := range chunk {
		if c == InterruptKey {
			if k.mode == Line {
				k.line = k.line[:0]
				echo = append(echo, "^C\n"...)
			}
			if k.interrupt != nil {
				k.interrupt()
			}
			continue
		}
		if k.mode == Char {
			if c == '\r' {
				c = '\n'
			}
			k.ready = append(k.ready, c)
			continue
		}
		if k.inEscape {
			if c >= 0x40 && c <= 0x7e && c != '[' {
				k.inEscape = false
			}
			continue
		}
		switch {
		case c == 0x1b:
			k.inEscape = true
		case c == '\r' || c == '\n':
			k.ready = append(k.ready, k.line...)
			k.ready = append(k.ready, '\n')
			k.line = k.line[:0]
			echo = append(echo, '\n')
		case c == 0x7f || c == 0x08:
			if len(k.line) > 0 {
				_, size := utf8.DecodeLastRune(k.line)
				k.line = k.line[:len(k.line)-size]
				echo = append(echo, "\b \b"...)
			}
		case c == 0x04:
			if len(k.line) == 0 {
				k.closeOnce.Do(func() { close(k.closed) })
			}
		case c < 0x20 && c != '\t':
		default:
			k.line = append(k.line, c)
			echo = append(echo, c)
		}
	}
	if len(echo) > 0 {
		_, _ = k.echo.Write(echo)
		_ = k.echo.Flush()
	}
}

func (k *keyboard) SetMode(m Mode) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if m == Char && k.mode == Line && len(k.line) > 0 {
		k.ready = append(k.ready, k.line...)
		k.line = k.line[:0]
	}
	k.mode = m
	return nil
}

func (k *keyboard) Close() error {
	k.closeOnce.Do(func() { close(k.closed) })
	return nil
}
