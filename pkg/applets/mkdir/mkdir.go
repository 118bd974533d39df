// Package mkdir implements the mkdir command.
package mkdir

import (
	"strconv"
	"strings"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/core/fs"
)

// Run creates directories. -m is accepted for compatibility; the VFS keeps
// no permission bits.
func Run(p *core.Process) (core.ExitCode, error) {
	args := p.Args[1:]
	parents := false
	verbose := false
	var dirs []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			dirs = append(dirs, args[i+1:]...)
			break
		}
		if len(arg) > 1 && arg[0] == '-' {
			for j := 1; j < len(arg); j++ {
				switch arg[j] {
				case 'p':
					parents = true
				case 'v':
					verbose = true
				case 'm':
					var modeStr string
					if j+1 < len(arg) {
						modeStr = arg[j+1:]
						j = len(arg)
					} else if i+1 < len(args) {
						i++
						modeStr = args[i]
					} else {
						return core.UsageError(p, "mkdir", "option requires an argument -- 'm'"), nil
					}
					if _, err := strconv.ParseUint(modeStr, 8, 32); err != nil {
						return core.UsageError(p, "mkdir", "invalid mode: "+modeStr), nil
					}
				default:
					return core.UsageError(p, "mkdir", "invalid option -- '"+string(arg[j])+"'"), nil
				}
			}
		} else {
			dirs = append(dirs, arg)
		}
	}

	if len(dirs) == 0 {
		return core.UsageError(p, "mkdir", "missing operand"), nil
	}

	exitCode := core.ExitSuccess
	for _, dir := range dirs {
		if !parents {
			if err := fs.Mkdir(p, dir); err != nil {
				p.Errorf("mkdir: cannot create directory '%s': %v\n", dir, core.Cause(err))
				exitCode = core.ExitFailure
				continue
			}
			if verbose {
				p.Printf("created directory: '%s'\n", dir)
			}
			continue
		}
		if err := mkdirParents(p, dir, verbose); err != nil {
			p.Errorf("mkdir: cannot create directory '%s': %v\n", dir, core.Cause(err))
			exitCode = core.ExitFailure
		}
	}

	return exitCode, nil
}

// mkdirParents creates each missing component of dir in turn.
func mkdirParents(p *core.Process, dir string, verbose bool) error {
	prefix := ""
	if strings.HasPrefix(dir, "/") {
		prefix = "/"
	}
	for _, part := range strings.Split(dir, "/") {
		if part == "" {
			continue
		}
		if prefix != "" && prefix != "/" {
			prefix += "/"
		}
		prefix += part
		if fs.IsDir(p, prefix) {
			continue
		}
		if err := fs.Mkdir(p, prefix); err != nil {
			return err
		}
		if verbose {
			p.Printf("created directory: '%s'\n", prefix)
		}
	}
	return nil
}
