// Package gunzip implements the gunzip command.
package gunzip

import (
	"errors"
	"strings"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/core/archiveutil"
	"github.com/rcarmo/go-vsh/pkg/core/fs"
)

var errUnknownSuffix = errors.New("unknown suffix -- ignored")

// Options holds gunzip command options.
type Options struct {
	ToStdout bool // -c: write to standard output
	Keep     bool // -k: keep the compressed file
	Force    bool // -f: overwrite an existing output file
}

// Run decompresses each FILE.gz into FILE. With no files, or "-", it
// filters standard input to standard output.
func Run(p *core.Process) (core.ExitCode, error) {
	opts := Options{}
	quiet := false
	flagMap := map[byte]*bool{
		'c': &opts.ToStdout,
		'k': &opts.Keep,
		'f': &opts.Force,
		'q': &quiet,
	}
	files, code := core.ParseBoolFlags(p, "gunzip", p.Args[1:], flagMap, nil)
	if code != core.ExitSuccess {
		return code, nil
	}
	if len(files) == 0 {
		files = []string{"-"}
	}

	exitCode := core.ExitSuccess
	for _, name := range files {
		if name == "-" || opts.ToStdout {
			if err := toStdout(p, name); err != nil {
				exitCode = core.FileError(p, "gunzip", name, err)
			}
			continue
		}
		if err := gunzipFile(p, name, &opts); err != nil {
			exitCode = core.FileError(p, "gunzip", name, err)
		}
	}
	return exitCode, nil
}

func toStdout(p *core.Process, name string) error {
	in, err := fs.OpenInput(p, name)
	if err != nil {
		return err
	}
	defer in.Close()
	return archiveutil.GunzipToWriter(in, p.Stdout)
}

func gunzipFile(p *core.Process, name string, opts *Options) error {
	outName, ok := strings.CutSuffix(name, ".gz")
	if !ok {
		if outName, ok = strings.CutSuffix(name, ".tgz"); ok {
			outName += ".tar"
		}
	}
	if !ok || outName == "" {
		return errUnknownSuffix
	}
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
	if err := archiveutil.GunzipToWriter(in, out); err != nil {
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
