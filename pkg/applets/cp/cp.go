// Package cp implements the cp command.
package cp

import (
	"errors"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/core/fs"
)

// Options holds cp command options.
type Options struct {
	Recursive   bool // -r, -R: copy directories recursively
	NoClobber   bool // -n: do not overwrite existing files
	Verbose     bool // -v: verbose output
	CopyToDir   string
	NoTargetDir bool
}

var errOmitDir = errors.New("-r not specified")

// Run executes the cp command. -f, -i and -p are accepted for compatibility.
func Run(p *core.Process) (core.ExitCode, error) {
	var opts Options
	args, ok := takeTargetDir(p.Args[1:], &opts)
	if !ok {
		return core.UsageError(p, "cp", "missing operand"), nil
	}
	paths, code := core.ParseBoolFlags(p, "cp", args, map[byte]*bool{
		'r': &opts.Recursive,
		'n': &opts.NoClobber,
		'v': &opts.Verbose,
		'T': &opts.NoTargetDir,
		'f': nil,
		'i': nil,
		'p': nil,
	}, map[byte]byte{'R': 'r', 'a': 'r'})
	if code != core.ExitSuccess {
		return code, nil
	}

	dest := ""
	sources := paths
	if opts.CopyToDir != "" {
		dest = opts.CopyToDir
	} else if len(paths) >= 2 {
		dest = paths[len(paths)-1]
		sources = paths[:len(paths)-1]
	}
	if dest == "" || len(sources) == 0 {
		return core.UsageError(p, "cp", "missing file operand"), nil
	}

	destIsDir := fs.IsDir(p, dest)
	if (len(sources) > 1 || opts.CopyToDir != "") && !destIsDir {
		return core.UsageError(p, "cp", "target '"+dest+"' is not a directory"), nil
	}
	if opts.NoTargetDir && destIsDir {
		return core.UsageError(p, "cp", "target '"+dest+"' is a directory"), nil
	}

	exitCode := core.ExitSuccess
	for _, src := range sources {
		target := dest
		if destIsDir && !opts.NoTargetDir {
			target = fs.TargetPath(p, src, dest)
		}
		if err := copyPath(p, src, target, &opts); err != nil {
			exitCode = core.ExitFailure
		}
	}
	return exitCode, nil
}

func copyPath(p *core.Process, src, dest string, opts *Options) error {
	md, err := fs.Stat(p, src)
	if err != nil {
		p.Errorf("cp: cannot stat '%s': %v\n", src, core.Cause(err))
		return err
	}

	if md.IsDir() {
		if !opts.Recursive {
			p.Errorf("cp: -r not specified; omitting directory '%s'\n", src)
			return errOmitDir
		}
		if err := fs.CopyDir(p, src, dest); err != nil {
			p.Errorf("cp: cannot copy '%s' to '%s': %v\n", src, dest, core.Cause(err))
			return err
		}
	} else {
		if opts.NoClobber && fs.Exists(p, dest) {
			return nil
		}
		if err := fs.CopyFile(p, src, dest); err != nil {
			p.Errorf("cp: cannot create '%s': %v\n", dest, core.Cause(err))
			return err
		}
	}

	if opts.Verbose {
		p.Printf("'%s' -> '%s'\n", src, dest)
	}
	return nil
}

// takeTargetDir removes "-t DIR" from args ahead of flag parsing.
func takeTargetDir(args []string, opts *Options) ([]string, bool) {
	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--":
			return append(rest, args[i:]...), true
		case "-t":
			if i+1 >= len(args) {
				return nil, false
			}
			i++
			opts.CopyToDir = args[i]
		default:
			rest = append(rest, args[i])
		}
	}
	return rest, true
}
