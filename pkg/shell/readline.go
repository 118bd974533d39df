package shell

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/streams"
)

const defaultWidth = 80

// keyReader feeds readline from a shared input stream one byte per Read, so
// no key past the current one is taken from the stream. Close abandons a
// pending read without shutting the stream down.
type keyReader struct {
	in     streams.InputStream
	cancel context.CancelFunc
}

func (k keyReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	c, err := k.in.GetChar()
	if err != nil {
		return 0, err
	}
	p[0] = c
	return 1, nil
}

func (k keyReader) Close() error {
	k.cancel()
	return nil
}

// flushWriter pushes every write through the line buffer so echoed keys
// show up before Enter.
type flushWriter struct {
	out streams.OutputStream
}

func (w flushWriter) Write(p []byte) (int, error) {
	n, err := w.out.Write(p)
	if err != nil {
		return n, err
	}
	return n, w.out.Flush()
}

// screenWidth reads COLUMNS, falling back to 80.
func screenWidth(p *core.Process) int {
	if n, err := strconv.Atoi(p.Env["COLUMNS"]); err == nil && n > 0 {
		return n
	}
	return defaultWidth
}

// editLine reads one line with readline on a terminal that delivers raw
// keys. Raw mode maps to the stream's Char mode. ^D on an empty line
// reports io.EOF.
func editLine(ctx context.Context, in streams.InputStream, out streams.OutputStream, prompt string, width int, history *History) (string, error) {
	w := flushWriter{out: out}
	if i := strings.LastIndexByte(prompt, '\n'); i >= 0 {
		if _, err := w.Write([]byte(prompt[:i+1])); err != nil {
			return "", err
		}
		prompt = prompt[i+1:]
	}

	keyCtx, cancel := context.WithCancel(ctx)
	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 prompt,
		HistoryLimit:           500,
		DisableAutoSaveHistory: true,
		Stdin:                  keyReader{in: in.WithContext(keyCtx), cancel: cancel},
		Stdout:                 w,
		Stderr:                 w,
		FuncGetWidth:           func() int { return width },
		FuncIsTerminal:         func() bool { return true },
		FuncMakeRaw:            func() error { return in.SetMode(streams.Char) },
		FuncExitRaw:            func() error { return in.SetMode(streams.Line) },
		FuncOnWidthChanged:     func(func()) {},
	})
	if err != nil {
		cancel()
		return "", err
	}
	// A read still pending in readline must give up before Close waits
	// for it.
	defer func() {
		cancel()
		_ = rl.Close()
	}()

	if history != nil {
		for _, entry := range history.Entries() {
			if err := rl.SaveHistory(entry); err != nil {
				return "", err
			}
		}
	}
	line, err := rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", errReadInterrupted
	}
	return line, err
}
