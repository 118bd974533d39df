// Package clear implements the clear command.
package clear

import (
	"github.com/rcarmo/go-vsh/pkg/core"
)

// clearScreen homes the cursor and erases the display.
const clearScreen = "\x1b[H\x1b[2J"

// Run clears the terminal.
func Run(p *core.Process) (core.ExitCode, error) {
	if len(p.Args) > 1 {
		return core.UsageError(p, "clear", "invalid option -- '"+p.Args[1]+"'"), nil
	}
	if _, err := p.Stdout.WriteString(clearScreen); err != nil {
		return core.ExitFailure, err
	}
	return core.ExitSuccess, nil
}
