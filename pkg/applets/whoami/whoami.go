// Package whoami implements the whoami command.
package whoami

import (
	"github.com/rcarmo/go-vsh/pkg/core"
)

// Run prints $USER. No flags are supported.
func Run(p *core.Process) (core.ExitCode, error) {
	if len(p.Args) > 1 {
		return core.UsageError(p, "whoami", "invalid option -- '"+p.Args[1]+"'"), nil
	}
	user := p.Getenv("USER")
	if user == "" {
		p.Errorf("whoami: cannot find name for user\n")
		return core.ExitFailure, nil
	}
	p.Println(user)
	return core.ExitSuccess, nil
}
