// Package rm implements the rm command.
package rm

import (
	"errors"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/core/fs"
	"github.com/rcarmo/go-vsh/pkg/vfs"
)

// Options holds rm command options.
type Options struct {
	Recursive bool // -r, -R: remove directories and their contents
	Force     bool // -f: ignore nonexistent files
	Verbose   bool // -v: verbose output
}

var errIsDir = errors.New("Is a directory")

// Run executes the rm command.
//
// Supported flags:
//
//	-r, -R    Remove directories and their contents recursively
//	-f        Force: ignore nonexistent files
//	-i        Accepted; there is no prompting
//	-v        Verbose: print each file as it is removed
func Run(p *core.Process) (core.ExitCode, error) {
	var opts Options
	paths, code := core.ParseBoolFlags(p, "rm", p.Args[1:], map[byte]*bool{
		'r': &opts.Recursive,
		'f': &opts.Force,
		'i': nil,
		'v': &opts.Verbose,
	}, map[byte]byte{'R': 'r'})
	if code != core.ExitSuccess {
		return code, nil
	}

	if len(paths) == 0 {
		if opts.Force {
			return core.ExitSuccess, nil
		}
		return core.UsageError(p, "rm", "missing operand"), nil
	}

	exitCode := core.ExitSuccess
	for _, path := range paths {
		if p.Path(path).IsRoot() {
			p.Errorf("rm: refusing to remove '/'\n")
			exitCode = core.ExitFailure
			continue
		}
		if err := removePath(p, p.Path(path), path, &opts); err != nil {
			exitCode = core.ExitFailure
		}
	}
	return exitCode, nil
}

// removePath removes path, reporting it as name.
func removePath(p *core.Process, path vfs.Path, name string, opts *Options) error {
	md, err := path.Metadata()
	if err != nil {
		if errors.Is(err, vfs.ErrNotFound) && opts.Force {
			return nil
		}
		p.Errorf("rm: cannot remove '%s': %v\n", name, core.Cause(err))
		return err
	}

	if md.IsDir() {
		if !opts.Recursive {
			p.Errorf("rm: cannot remove '%s': %v\n", name, errIsDir)
			return errIsDir
		}
		return removeDir(p, path, name, opts)
	}

	if err := path.RemoveFile(); err != nil {
		p.Errorf("rm: cannot remove '%s': %v\n", name, core.Cause(err))
		return err
	}
	if opts.Verbose {
		p.Printf("removed '%s'\n", name)
	}
	return nil
}

func removeDir(p *core.Process, path vfs.Path, name string, opts *Options) error {
	entries, err := path.ReadDir()
	if err != nil {
		p.Errorf("rm: cannot read directory '%s': %v\n", name, core.Cause(err))
		return err
	}

	for _, entry := range entries {
		if err := removePath(p, entry, name+"/"+entry.Name(), opts); err != nil {
			return err
		}
	}

	if err := fs.Rmdir(p, path.String()); err != nil {
		p.Errorf("rm: cannot remove '%s': %v\n", name, core.Cause(err))
		return err
	}
	if opts.Verbose {
		p.Printf("removed directory: '%s'\n", name)
	}
	return nil
}
