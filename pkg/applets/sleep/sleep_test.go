package sleep_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcarmo/go-vsh/pkg/applets/sleep"
	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/testutil"
)

func TestSleep(t *testing.T) {
	tests := []testutil.AppletTestCase{
		{
			Name:       "missing",
			WantCode:   core.ExitFailure,
			WantOutSub: "Usage: sleep",
		},
		{
			Name:     "invalid",
			Args:     []string{"1x"},
			WantCode: core.ExitFailure,
			WantErr:  "invalid number",
		},
		{
			Name:     "short",
			Args:     []string{"0.01"},
			WantCode: core.ExitSuccess,
		},
		{
			Name:     "summed",
			Args:     []string{"0.005", "0.005s"},
			WantCode: core.ExitSuccess,
		},
	}
	testutil.RunAppletTests(t, "sleep", sleep.Run, tests)
}

func TestSleepInterrupted(t *testing.T) {
	root := testutil.NewRoot(t, nil)
	c := testutil.CaptureProcess(root, "", "sleep", "1h")
	defer c.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	restore := c.Process.Bind(ctx)
	defer restore()

	done := make(chan error, 1)
	go func() {
		_, err := sleep.Run(c.Process)
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("sleep ignored cancellation")
	}
}
