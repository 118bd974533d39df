// Package sleep implements the sleep command.
package sleep

import (
	"time"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/core/timeutil"
)

// Run pauses for the sum of its arguments. An interrupt cuts the pause
// short and surfaces as the context's error.
func Run(p *core.Process) (core.ExitCode, error) {
	args := p.Args[1:]
	if len(args) == 0 {
		p.Println("Usage: sleep [N]...")
		p.Println()
		p.Println("Pause for a time equal to the total of the args given, where each arg can")
		p.Println("have an optional suffix of (s)econds, (m)inutes, (h)ours, or (d)ays")
		return core.ExitFailure, nil
	}
	total := time.Duration(0)
	for _, arg := range args {
		if arg == "" {
			continue
		}
		spec, err := timeutil.ParseDuration(arg)
		if err != nil || spec.Duration < 0 {
			p.Errorf("sleep: invalid number '%s'\n", arg)
			return core.ExitFailure, nil
		}
		total += spec.Duration
	}
	if err := timeutil.Sleep(p.Context(), total); err != nil {
		return core.ExitFailure, err
	}
	return core.ExitSuccess, nil
}
