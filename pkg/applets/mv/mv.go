// Package mv implements the mv command.
package mv

import (
	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/core/fs"
)

// Options holds mv command options.
type Options struct {
	Force     bool // -f: force overwrite
	NoClobber bool // -n: do not overwrite existing files
	Verbose   bool // -v: verbose output
}

// Run executes the mv command.
func Run(p *core.Process) (core.ExitCode, error) {
	opts := Options{}
	interactive := false

	flagMap := map[byte]*bool{
		'f': &opts.Force,
		'i': &interactive,
		'n': &opts.NoClobber,
		'v': &opts.Verbose,
	}

	paths, code := core.ParseBoolFlags(p, "mv", p.Args[1:], flagMap, nil)
	if code != core.ExitSuccess {
		return code, nil
	}
	if len(paths) < 2 {
		return core.UsageError(p, "mv", "missing file operand"), nil
	}

	dest := paths[len(paths)-1]
	sources := paths[:len(paths)-1]
	destIsDir := fs.IsDir(p, dest)

	if len(sources) > 1 && !destIsDir {
		return core.UsageError(p, "mv", "target '"+dest+"' is not a directory"), nil
	}

	exitCode := core.ExitSuccess
	for _, src := range sources {
		target := dest
		if destIsDir {
			target = fs.TargetPath(p, src, dest)
		}
		if err := movePath(p, src, target, &opts); err != nil {
			exitCode = core.ExitFailure
		}
	}
	return exitCode, nil
}

func movePath(p *core.Process, src, dest string, opts *Options) error {
	if _, err := fs.Stat(p, src); err != nil {
		p.Errorf("mv: cannot stat '%s': %v\n", src, core.Cause(err))
		return err
	}
	if p.Path(src).String() == p.Path(dest).String() {
		return nil
	}

	if fs.Exists(p, dest) {
		if opts.NoClobber {
			return nil
		}
		if !fs.IsDir(p, dest) {
			if err := fs.Remove(p, dest); err != nil {
				p.Errorf("mv: cannot remove '%s': %v\n", dest, core.Cause(err))
				return err
			}
		}
	}

	if err := fs.Rename(p, src, dest); err != nil {
		p.Errorf("mv: cannot move '%s' to '%s': %v\n", src, dest, core.Cause(err))
		return err
	}
	if opts.Verbose {
		p.Printf("renamed '%s' -> '%s'\n", src, dest)
	}
	return nil
}
