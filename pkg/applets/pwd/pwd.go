// Package pwd implements the pwd command.
package pwd

import (
	"github.com/rcarmo/go-vsh/pkg/core"
)

// Run prints the working directory. -L prefers $PWD when it names the same
// directory; the VFS has no symlinks, so both modes agree otherwise.
func Run(p *core.Process) (core.ExitCode, error) {
	logical := false
	for _, arg := range p.Args[1:] {
		switch {
		case arg == "-L":
			logical = true
		case arg == "-P":
			logical = false
		case len(arg) > 1 && arg[0] == '-':
			return core.UsageError(p, "pwd", "invalid option -- '"+arg[1:]+"'"), nil
		}
	}

	dir := p.Cwd.String()
	if logical {
		if env := p.Getenv("PWD"); env != "" && p.Path(env).String() == dir {
			dir = env
		}
	}
	p.Println(dir)
	return core.ExitSuccess, nil
}
