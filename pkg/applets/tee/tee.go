// Package tee implements the tee command.
package tee

import (
	"io"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/core/fs"
)

// Run copies standard input to standard output and to each FILE.
//
//	-a    Append to the files instead of truncating them
func Run(p *core.Process) (core.ExitCode, error) {
	appendMode := false
	files, code := core.ParseBoolFlags(p, "tee", p.Args[1:], map[byte]*bool{'a': &appendMode}, nil)
	if code != core.ExitSuccess {
		return code, nil
	}

	exitCode := core.ExitSuccess
	writers := []io.Writer{p.Stdout}
	var closers []io.Closer
	for _, name := range files {
		var w io.WriteCloser
		var err error
		if appendMode && fs.Exists(p, name) {
			w, err = fs.Append(p, name)
		} else {
			w, err = fs.Create(p, name)
		}
		if err != nil {
			exitCode = core.FileError(p, "tee", name, err)
			continue
		}
		writers = append(writers, w)
		closers = append(closers, w)
	}

	_, copyErr := io.Copy(io.MultiWriter(writers...), p.Stdin)
	for _, c := range closers {
		if err := c.Close(); err != nil && copyErr == nil {
			copyErr = err
		}
	}
	if copyErr != nil {
		return core.ExitFailure, copyErr
	}
	return exitCode, nil
}
