// Package touch implements the touch command.
package touch

import (
	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/core/fs"
)

// Run creates each FILE that does not exist. Existing files are left
// untouched; -c skips creation altogether.
func Run(p *core.Process) (core.ExitCode, error) {
	noCreate := false
	files, code := core.ParseBoolFlags(p, "touch", p.Args[1:], map[byte]*bool{'c': &noCreate}, nil)
	if code != core.ExitSuccess {
		return code, nil
	}
	if len(files) == 0 {
		return core.UsageError(p, "touch", "missing file operand"), nil
	}

	exitCode := core.ExitSuccess
	for _, name := range files {
		if noCreate || fs.Exists(p, name) {
			continue
		}
		w, err := fs.Create(p, name)
		if err == nil {
			err = w.Close()
		}
		if err != nil {
			exitCode = core.FileError(p, "touch", name, err)
		}
	}
	return exitCode, nil
}
