package streams

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	mu     sync.Mutex
	writes []string
	closed bool
	term   bool
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writes = append(w.writes, string(p))
	return len(p), nil
}

func (w *recordingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *recordingWriter) IsTerminal() bool { return w.term }

func (w *recordingWriter) snapshot() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.writes...)
}

func runBackend(t *testing.T, run func() error) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- run() }()
	return done
}

func TestOutputLineBuffering(t *testing.T) {
	rec := &recordingWriter{term: true}
	out, backend := NewOutput(rec)
	done := runBackend(t, backend.Run)

	_, err := out.Write([]byte("ab"))
	require.NoError(t, err)
	isTerm, err := out.IsTerminal()
	require.NoError(t, err)
	assert.True(t, isTerm)
	assert.Empty(t, rec.snapshot(), "partial line must stay buffered")

	_, err = out.WriteString("c\nd")
	require.NoError(t, err)
	_, err = out.IsTerminal()
	require.NoError(t, err)
	assert.Equal(t, []string{"abc\n"}, rec.snapshot())

	_, err = out.WriteString("e\rf")
	require.NoError(t, err)
	require.NoError(t, out.Flush())
	_, err = out.IsTerminal()
	require.NoError(t, err)
	assert.Equal(t, []string{"abc\n", "de\r", "f"}, rec.snapshot())

	_, err = out.WriteString("tail")
	require.NoError(t, err)
	require.NoError(t, out.Shutdown())
	require.NoError(t, <-done)
	assert.Equal(t, []string{"abc\n", "de\r", "f", "tail"}, rec.snapshot())
	assert.True(t, rec.closed)

	_, err = out.Write([]byte("late"))
	assert.ErrorIs(t, err, ErrBrokenPipe)
	assert.NoError(t, out.Shutdown(), "second shutdown is a no-op")
}

func TestPipeDeliversAllBytes(t *testing.T) {
	payload := strings.Repeat("0123456789abcdef", 700) + "tail without newline"
	chunkSizes := []int{1, 7, 512, 4096, len(payload)}
	for _, size := range chunkSizes {
		in, out, backend := Pipe()
		done := runBackend(t, backend.Run)

		go func() {
			for i := 0; i < len(payload); i += size {
				end := min(i+size, len(payload))
				_, _ = out.Write([]byte(payload[i:end]))
			}
			_ = out.Shutdown()
		}()

		got, err := io.ReadAll(in)
		require.NoError(t, err)
		assert.Equal(t, payload, string(got), "chunk size %d", size)
		require.NoError(t, in.Shutdown())
		require.NoError(t, <-done)
		assert.EqualValues(t, len(payload), backend.Transferred())
	}
}

func TestPipeBrokenAfterReaderShutdown(t *testing.T) {
	in, out, backend := Pipe()
	done := runBackend(t, backend.Run)

	require.NoError(t, in.Shutdown())
	require.Eventually(t, func() bool {
		_, err := out.Write([]byte("x\n"))
		return errors.Is(err, ErrBrokenPipe)
	}, time.Second, time.Millisecond)

	require.NoError(t, out.Shutdown())
	require.NoError(t, <-done)
}

func TestGetLine(t *testing.T) {
	in, backend := NewInput(WrapReader(strings.NewReader("first\r\nsecond\npartial")))
	done := runBackend(t, backend.Run)

	line, err := in.GetLine()
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	c, err := in.GetChar()
	require.NoError(t, err)
	assert.Equal(t, byte('s'), c)

	line, err = in.GetLine()
	require.NoError(t, err)
	assert.Equal(t, "econd", line)

	line, err = in.GetLine()
	require.NoError(t, err)
	assert.Equal(t, "partial", line)

	_, err = in.GetLine()
	assert.ErrorIs(t, err, ErrEmptyRead)

	require.NoError(t, in.Shutdown())
	require.NoError(t, <-done)
}

func TestGetLineLossyUTF8(t *testing.T) {
	in, backend := NewInput(WrapReader(strings.NewReader("ok\xff")))
	done := runBackend(t, backend.Run)

	line, err := in.GetLine()
	require.NoError(t, err)
	assert.Equal(t, "ok�", line)

	require.NoError(t, in.Shutdown())
	require.NoError(t, <-done)
}

func TestReadHonorsContext(t *testing.T) {
	in, out, backend := Pipe()
	done := runBackend(t, backend.Run)

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		_, err := in.WithContext(ctx).GetLine()
		errs <- err
	}()
	cancel()
	select {
	case err := <-errs:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("read did not observe cancellation")
	}

	_, err := out.WithContext(ctx).Write([]byte("x"))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = out.WriteString("still open\n")
	require.NoError(t, err)
	line, err := in.GetLine()
	require.NoError(t, err)
	assert.Equal(t, "still open", line)

	require.NoError(t, out.Shutdown())
	require.NoError(t, in.Shutdown())
	require.NoError(t, <-done)
}

type syncBuffer struct {
	mu sync.Mutex
	sb strings.Builder
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.String()
}

func TestTerminalModes(t *testing.T) {
	keys := make(chan []byte, 8)
	sink := &syncBuffer{}
	interrupts := make(chan struct{}, 1)
	in, out, backend := Terminal(keys, sink, TerminalOptions{
		Interrupt: func() { interrupts <- struct{}{} },
	})
	done := runBackend(t, backend.Run)

	keys <- []byte("lx\x7fs\r")
	line, err := in.GetLine()
	require.NoError(t, err)
	assert.Equal(t, "ls", line)
	require.Eventually(t, func() bool {
		return sink.String() == "lx\b \bs\n"
	}, time.Second, time.Millisecond)

	require.NoError(t, in.SetMode(Char))
	keys <- []byte("q\r")
	c, err := in.GetChar()
	require.NoError(t, err)
	assert.Equal(t, byte('q'), c)
	c, err = in.GetChar()
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), c)

	keys <- []byte{InterruptKey}
	select {
	case <-interrupts:
	case <-time.After(time.Second):
		t.Fatal("interrupt key did not fire")
	}

	isTerm, err := out.IsTerminal()
	require.NoError(t, err)
	assert.True(t, isTerm)

	require.NoError(t, in.SetMode(Line))
	require.NoError(t, in.Shutdown())
	require.NoError(t, out.Shutdown())
	require.NoError(t, <-done)
}

func TestFileRedirectOut(t *testing.T) {
	var buf syncBuffer
	out, backend := FileRedirectOut(nopCloser{&buf})
	done := runBackend(t, backend.Run)
	_, err := out.WriteString("no newline")
	require.NoError(t, err)
	require.NoError(t, out.Shutdown())
	require.NoError(t, <-done)
	assert.Equal(t, "no newline", buf.String())
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
