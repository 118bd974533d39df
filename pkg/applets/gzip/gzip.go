// Package gzip implements the gzip command.
package gzip

import (
	"errors"
	"strings"

	kgzip "github.com/klauspost/compress/gzip"

	"github.com/rcarmo/go-vsh/pkg/applets/gunzip"
	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/core/archiveutil"
	"github.com/rcarmo/go-vsh/pkg/core/fs"
)

var errHasSuffix = errors.New("already has .gz suffix -- unchanged")

// Options holds gzip command options.
type Options struct {
	ToStdout bool // -c: write to standard output
	Keep     bool // -k: keep the input file
	Force    bool // -f: overwrite an existing output file
	Level    int  // -1 .. -9
}

// Run compresses each FILE into FILE.gz. With no files, or "-", it filters
// standard input to standard output. -d hands the same arguments to gunzip.
func Run(p *core.Process) (core.ExitCode, error) {
	args := p.Args[1:]
	opts := Options{Level: kgzip.DefaultCompression}
	var files []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			files = append(files, args[i+1:]...)
			break
		}
		if len(arg) > 1 && arg[0] == '-' {
			for _, c := range arg[1:] {
				switch {
				case c == 'c':
					opts.ToStdout = true
				case c == 'd':
					return decompress(p)
				case c == 'f':
					opts.Force = true
				case c == 'k':
					opts.Keep = true
				case c == 'n', c == 'q', c == 'v':
				case c >= '1' && c <= '9':
					opts.Level = int(c - '0')
				default:
					return core.UsageError(p, "gzip", "invalid option -- '"+string(c)+"'"), nil
				}
			}
		} else {
			files = append(files, arg)
		}
	}
	if len(files) == 0 {
		files = []string{"-"}
	}

	exitCode := core.ExitSuccess
	for _, name := range files {
		if name == "-" || opts.ToStdout {
			if err := toStdout(p, name, opts.Level); err != nil {
				exitCode = core.FileError(p, "gzip", name, err)
			}
			continue
		}
		if err := gzipFile(p, name, &opts); err != nil {
			exitCode = core.FileError(p, "gzip", name, err)
		}
	}
	return exitCode, nil
}

func toStdout(p *core.Process, name string, level int) error {
	in, err := fs.OpenInput(p, name)
	if err != nil {
		return err
	}
	defer in.Close()
	return archiveutil.GzipToWriter(in, p.Stdout, level)
}

func gzipFile(p *core.Process, name string, opts *Options) error {
	if strings.HasSuffix(name, ".gz") {
		return errHasSuffix
	}
	outName := name + ".gz"
	if !opts.Force && fs.Exists(p, outName) {
		return errors.New(outName + " already exists")
	}

	in, err := fs.Open(p, name)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := fs.Create(p, outName)
	if err != nil {
		return err
	}
	if err := archiveutil.GzipToWriter(in, out, opts.Level); err != nil {
		_ = out.Close()
		_ = fs.Remove(p, outName)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if opts.Keep {
		return nil
	}
	return fs.Remove(p, name)
}

// decompress reruns the command as gunzip without the -d flag.
func decompress(p *core.Process) (core.ExitCode, error) {
	child := p.Clone()
	child.Args = []string{"gunzip"}
	for _, arg := range p.Args[1:] {
		if len(arg) > 1 && arg[0] == '-' && arg != "--" {
			arg = "-" + strings.Map(func(r rune) rune {
				if strings.ContainsRune("ckfq", r) {
					return r
				}
				return -1
			}, arg[1:])
			if arg == "-" {
				continue
			}
		}
		child.Args = append(child.Args, arg)
	}
	return gunzip.Run(child)
}
