package core_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/core/textutil"
	"github.com/rcarmo/go-vsh/pkg/core/timeutil"
	"github.com/rcarmo/go-vsh/pkg/testutil"
)

func TestCloneIsolatesEnvAndArgs(t *testing.T) {
	root := testutil.NewRoot(t, nil)
	c := testutil.CaptureProcess(root, "", "sh", "a")
	defer c.Finish()

	clone := c.Process.Clone()
	clone.Env["HOME"] = "/elsewhere"
	clone.Args[1] = "b"
	clone.Cwd = clone.Cwd.Parent()

	assert.Equal(t, testutil.WorkDir, c.Process.Env["HOME"])
	assert.Equal(t, "a", c.Process.Arg(1))
	assert.Equal(t, testutil.WorkDir, c.Process.Cwd.String())
	assert.Same(t, c.Process.Interrupts, clone.Interrupts)
	assert.Equal(t, "", clone.Arg(7))
}

func TestBindRestores(t *testing.T) {
	root := testutil.NewRoot(t, nil)
	c := testutil.CaptureProcess(root, "")
	defer c.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	restore := c.Process.Bind(ctx)
	cancel()
	_, err := c.Process.Stdout.WriteString("dropped\n")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, c.Process.Context().Err(), context.Canceled)

	restore()
	assert.NoError(t, c.Process.Context().Err())
	c.Process.Println("kept")
	out, _ := c.Finish()
	assert.Equal(t, "kept\n", out)
}

func TestInterruptsFireAndUnregister(t *testing.T) {
	var fired []int
	in := core.NewInterrupts(func(n int) { fired = append(fired, n) })

	ctxA, cancelA := context.WithCancel(context.Background())
	ctxB, cancelB := context.WithCancel(context.Background())
	defer cancelA()
	defer cancelB()

	in.Register(cancelA)
	unregister := in.Register(cancelB)
	unregister()
	unregister()
	assert.Equal(t, 1, in.Pending())

	assert.Equal(t, 1, in.Fire())
	assert.Error(t, ctxA.Err())
	assert.NoError(t, ctxB.Err())
	assert.Equal(t, 0, in.Fire())
	assert.Equal(t, []int{1, 0}, fired)

	var nilRegistrar *core.Interrupts
	nilRegistrar.Register(cancelB)()
	assert.Equal(t, 0, nilRegistrar.Fire())
}

func TestExitCode(t *testing.T) {
	assert.True(t, core.ExitSuccess.Success())
	assert.False(t, core.ExitUsage.Success())
	assert.Equal(t, byte(2), core.ExitUsage.Byte())
	assert.Equal(t, core.ExitFailure, core.FromBool(false))
}

func TestRunWindowed(t *testing.T) {
	tests := []struct {
		name       string
		applet     string
		args       []string
		wantWindow core.Window
		wantFiles  []string
		wantCode   core.ExitCode
	}{
		{"defaults", "head", nil, core.Window{Count: 10}, []string{"-"}, core.ExitSuccess},
		{"shorthand", "head", []string{"-3", "f"}, core.Window{Count: 3}, []string{"f"}, core.ExitSuccess},
		{"separate value", "tail", []string{"-n", "4"}, core.Window{Count: 4}, []string{"-"}, core.ExitSuccess},
		{"negative tail count", "tail", []string{"-n", "-4"}, core.Window{Count: 4}, []string{"-"}, core.ExitSuccess},
		{"from start", "tail", []string{"-n", "+2"}, core.Window{Count: 2, FromStart: true}, []string{"-"}, core.ExitSuccess},
		{"bytes", "head", []string{"-c5", "a", "b"}, core.Window{Count: 5, Bytes: true}, []string{"a", "b"}, core.ExitSuccess},
		{"head from start", "head", []string{"-n", "+2"}, core.Window{}, nil, core.ExitUsage},
		{"negative head count", "head", []string{"-n", "-2"}, core.Window{}, nil, core.ExitUsage},
		{"bad number", "head", []string{"-n", "x"}, core.Window{}, nil, core.ExitUsage},
		{"missing number", "head", []string{"-n"}, core.Window{}, nil, core.ExitUsage},
		{"unknown flag", "tail", []string{"-z"}, core.Window{}, nil, core.ExitUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := testutil.NewRoot(t, nil)
			c := testutil.CaptureProcess(root, "")
			defer c.Finish()
			var files []string
			var got core.Window
			code := core.RunWindowed(c.Process, tt.applet, tt.args, func(_ *core.Process, name string, w core.Window) error {
				files = append(files, name)
				got = w
				return nil
			})
			require.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantFiles, files)
			if code == core.ExitSuccess {
				assert.Equal(t, tt.wantWindow, got)
			}
		})
	}
}

func TestRunWindowedHeaders(t *testing.T) {
	root := testutil.NewRoot(t, nil)
	c := testutil.CaptureProcess(root, "")
	code := core.RunWindowed(c.Process, "head", []string{"a", "b"}, func(p *core.Process, name string, _ core.Window) error {
		p.Println(name)
		return nil
	})
	assert.Equal(t, core.ExitSuccess, code)
	out, _ := c.Finish()
	assert.Equal(t, "==> a <==\na\n\n==> b <==\nb\n", out)
}

func TestParseBoolFlags(t *testing.T) {
	root := testutil.NewRoot(t, nil)
	c := testutil.CaptureProcess(root, "")
	var a, b bool
	rest, code := core.ParseBoolFlags(c.Process, "x", []string{"-aB", "file", "--", "-a"},
		map[byte]*bool{'a': &a, 'b': &b}, map[byte]byte{'B': 'b'})
	assert.Equal(t, core.ExitSuccess, code)
	assert.True(t, a)
	assert.True(t, b)
	assert.Equal(t, []string{"file", "-a"}, rest)

	_, code = core.ParseBoolFlags(c.Process, "x", []string{"-z"}, map[byte]*bool{}, nil)
	assert.Equal(t, core.ExitUsage, code)
	_, errOut := c.Finish()
	assert.Equal(t, "x: invalid option -- 'z'\n", errOut)
}

func TestParseRanges(t *testing.T) {
	ranges, err := textutil.ParseRanges("1,3-4,6-")
	require.NoError(t, err)
	assert.Equal(t, []textutil.Range{{Start: 1, End: 1}, {Start: 3, End: 4}, {Start: 6, End: 0}}, ranges)

	for _, bad := range []string{"", "0", "4-2", "a", "1,,2"} {
		_, err := textutil.ParseRanges(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseSetClasses(t *testing.T) {
	set, err := textutil.ParseSet("[:digit:]x")
	require.NoError(t, err)
	assert.Equal(t, "0123456789x", string(set))

	set, err = textutil.ParseSet("a-c[:space:]")
	require.NoError(t, err)
	assert.Equal(t, "abc \t\n\v\f\r", string(set))
}

func TestParseDuration(t *testing.T) {
	spec, err := timeutil.ParseDuration("1.5m")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, spec.Duration)

	_, err = timeutil.ParseDuration("3x")
	assert.Error(t, err)
	_, err = timeutil.ParseDuration("")
	assert.Error(t, err)
}

func TestSleepHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	err := timeutil.Sleep(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
	assert.NoError(t, timeutil.Sleep(context.Background(), time.Millisecond))
}
