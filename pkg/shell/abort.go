package shell

import (
	"context"

	"github.com/rcarmo/go-vsh/pkg/core"
)

type outcome struct {
	code core.ExitCode
	err  error
}

// abortable runs fn on its own goroutine and returns its outcome, or
// aborted once ctx is done first. When both are ready the finished result
// wins. settled is closed when fn has returned, so a caller sharing state
// with fn can wait for it after an abort.
func abortable(ctx context.Context, fn func() (core.ExitCode, error)) (res outcome, aborted bool, settled <-chan struct{}) {
	result := make(chan outcome, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		c, e := fn()
		result <- outcome{code: c, err: e}
	}()
	select {
	case r := <-result:
		return r, false, done
	case <-ctx.Done():
		select {
		case r := <-result:
			return r, false, done
		default:
		}
		return outcome{code: core.ExitFailure}, true, done
	}
}
