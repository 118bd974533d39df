// Package testutil provides shared testing utilities and fixtures.
package testutil

import (
	"strings"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/streams"
	"github.com/rcarmo/go-vsh/pkg/vfs"
)

// WorkDir is the working directory of captured processes.
const WorkDir = "/home/user"

// Buffer is a goroutine-safe output sink.
type Buffer struct {
	mu sync.Mutex
	sb strings.Builder
}

func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.Write(p)
}

func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.String()
}

// NewRoot builds an in-memory root with WorkDir and /bin created and files
// written relative to WorkDir.
func NewRoot(t *testing.T, files map[string]string) *vfs.Root {
	t.Helper()
	root := vfs.NewRoot()
	for _, dir := range []string{WorkDir, "/bin", "/tmp", "/etc"} {
		if err := root.Path.Join(dir).CreateDirAll(); err != nil {
			t.Fatal(err)
		}
	}
	WriteFiles(t, root.Path.Join(WorkDir), files)
	return root
}

// WriteFiles creates files under dir. Keys are relative paths, values are
// file contents; missing parents are created.
func WriteFiles(t *testing.T, dir vfs.Path, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := dir.Join(name)
		if err := path.Parent().CreateDirAll(); err != nil {
			t.Fatal(err)
		}
		if err := path.WriteFile([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
}

// Capture is a process wired to in-memory stdio.
type Capture struct {
	Process *core.Process
	Stdout  *Buffer
	Stderr  *Buffer

	backends errgroup.Group
	once     sync.Once
	err      error
}

// CaptureProcess creates a process rooted at WorkDir whose stdin yields input
// and whose output is captured. Call Finish before inspecting output.
func CaptureProcess(root *vfs.Root, input string, args ...string) *Capture {
	c := &Capture{Stdout: &Buffer{}, Stderr: &Buffer{}}
	stdin, inBackend := streams.NewInput(streams.WrapReader(strings.NewReader(input)))
	stdout, outBackend := streams.NewOutput(streams.WrapWriter(c.Stdout))
	stderr, errBackend := streams.NewOutput(streams.WrapWriter(c.Stderr))
	c.backends.Go(inBackend.Run)
	c.backends.Go(outBackend.Run)
	c.backends.Go(errBackend.Run)

	c.Process = &core.Process{
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
		Env: map[string]string{
			"HOME": WorkDir,
			"PATH": "/bin",
			"USER": "user",
			"PWD":  WorkDir,
		},
		Cwd:        root.Path.Join(WorkDir),
		Args:       args,
		Interrupts: core.NewInterrupts(nil),
	}
	return c
}

// Finish shuts the streams down, waits for their backends and returns the
// captured output.
func (c *Capture) Finish() (stdout, stderr string) {
	c.once.Do(func() {
		_ = c.Process.Stdin.Shutdown()
		_ = c.Process.Stdout.Shutdown()
		_ = c.Process.Stderr.Shutdown()
		c.err = c.backends.Wait()
	})
	return c.Stdout.String(), c.Stderr.String()
}

// Err returns the first backend error, valid after Finish.
func (c *Capture) Err() error {
	return c.err
}

// AssertExitCode checks that the exit code matches expected.
func AssertExitCode(t *testing.T, got, want core.ExitCode) {
	t.Helper()
	if got != want {
		t.Errorf("exit code = %d, want %d", got, want)
	}
}

// AssertOutput checks that stdout matches expected.
func AssertOutput(t *testing.T, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

// AssertOutputContains checks that stdout contains expected substring.
func AssertOutputContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Errorf("output %q does not contain %q", got, want)
	}
}

// AssertNoError fails if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// AssertError fails if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Error("expected error, got nil")
	}
}

// AssertFileExists checks that a file exists.
func AssertFileExists(t *testing.T, path vfs.Path) {
	t.Helper()
	if ok, _ := path.Exists(); !ok {
		t.Errorf("file %s does not exist", path)
	}
}

// AssertFileNotExists checks that a file does not exist.
func AssertFileNotExists(t *testing.T, path vfs.Path) {
	t.Helper()
	if ok, _ := path.Exists(); ok {
		t.Errorf("file %s should not exist", path)
	}
}

// AssertFileContent checks that a file contains expected content.
func AssertFileContent(t *testing.T, path vfs.Path, want string) {
	t.Helper()
	got, err := path.ReadFile()
	if err != nil {
		t.Fatalf("failed to read file %s: %v", path, err)
	}
	if string(got) != want {
		t.Errorf("file %s content = %q, want %q", path, got, want)
	}
}

// AppletTestCase defines a parameterized test case for applets.
type AppletTestCase struct {
	Name       string                           // Test name
	Args       []string                         // Arguments after the command name
	Input      string                           // Stdin input
	WantCode   core.ExitCode                    // Expected exit code
	WantOut    string                           // Expected stdout (exact match)
	WantOutSub string                           // Expected stdout substring
	WantErr    string                           // Expected stderr substring
	Files      map[string]string                // Files to create in the work dir
	Setup      func(t *testing.T, dir vfs.Path) // Optional setup function
	Check      func(t *testing.T, dir vfs.Path) // Optional post-run check
}

// CaptureAndRun runs a program with captured stdio and returns its output.
func CaptureAndRun(t *testing.T, root *vfs.Root, run core.Program, args []string, input string) (string, string, core.ExitCode) {
	t.Helper()
	c := CaptureProcess(root, input, args...)
	code, err := run(c.Process)
	stdout, stderr := c.Finish()
	AssertNoError(t, err)
	AssertNoError(t, c.Err())
	return stdout, stderr, code
}

// RunAppletTests runs a slice of parameterized applet test cases. Each case
// gets a fresh root with its files under WorkDir.
func RunAppletTests(t *testing.T, name string, run core.Program, tests []AppletTestCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			root := NewRoot(t, tt.Files)
			dir := root.Path.Join(WorkDir)

			if tt.Setup != nil {
				tt.Setup(t, dir)
			}

			args := append([]string{name}, tt.Args...)
			out, errOut, code := CaptureAndRun(t, root, run, args, tt.Input)

			AssertExitCode(t, code, tt.WantCode)
			if tt.WantOut != "" {
				AssertOutput(t, out, tt.WantOut)
			}
			if tt.WantOutSub != "" {
				AssertOutputContains(t, out, tt.WantOutSub)
			}
			if tt.WantErr != "" {
				AssertOutputContains(t, errOut, tt.WantErr)
			}

			if tt.Check != nil {
				tt.Check(t, dir)
			}
		})
	}
}
