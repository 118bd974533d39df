// Package which implements the which command.
package which

import (
	"strings"

	"github.com/rcarmo/go-vsh/pkg/core"
)

// Run prints the first file on $PATH matching each COMMAND.
//
//	-a    Print every match
func Run(p *core.Process) (core.ExitCode, error) {
	all := false
	names, code := core.ParseBoolFlags(p, "which", p.Args[1:], map[byte]*bool{'a': &all}, nil)
	if code != core.ExitSuccess {
		return code, nil
	}
	if len(names) == 0 {
		return core.UsageError(p, "which", "missing command operand"), nil
	}

	exitCode := core.ExitSuccess
	for _, name := range names {
		if !lookup(p, name, all) {
			exitCode = core.ExitFailure
		}
	}
	return exitCode, nil
}

func lookup(p *core.Process, name string, all bool) bool {
	if strings.Contains(name, "/") {
		path := p.Path(name)
		if ok, _ := path.IsFile(); ok {
			p.Println(name)
			return true
		}
		return false
	}
	found := false
	for _, dir := range strings.Split(p.Getenv("PATH"), ":") {
		if dir == "" {
			continue
		}
		candidate := p.Path(dir).Join(name)
		if ok, _ := candidate.IsFile(); !ok {
			continue
		}
		p.Println(candidate.String())
		found = true
		if !all {
			break
		}
	}
	return found
}
