// Package rmdir implements the rmdir command.
package rmdir

import (
	"strings"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/core/fs"
)

// Run removes empty directories.
func Run(p *core.Process) (core.ExitCode, error) {
	parents := false
	verbose := false

	flagMap := map[byte]*bool{
		'p': &parents,
		'v': &verbose,
	}

	dirs, code := core.ParseBoolFlags(p, "rmdir", p.Args[1:], flagMap, nil)
	if code != core.ExitSuccess {
		return code, nil
	}
	if len(dirs) == 0 {
		return core.UsageError(p, "rmdir", "missing operand"), nil
	}

	exitCode := core.ExitSuccess
	for _, dir := range dirs {
		if err := removeDir(p, strings.TrimRight(dir, "/"), parents, verbose); err != nil {
			exitCode = core.ExitFailure
		}
	}
	return exitCode, nil
}

func removeDir(p *core.Process, dir string, parents, verbose bool) error {
	if err := fs.Rmdir(p, dir); err != nil {
		p.Errorf("rmdir: failed to remove '%s': %v\n", dir, core.Cause(err))
		return err
	}
	if verbose {
		p.Printf("rmdir: removing directory, '%s'\n", dir)
	}
	if parents {
		if i := strings.LastIndex(dir, "/"); i > 0 {
			return removeDir(p, dir[:i], parents, verbose)
		}
	}
	return nil
}
