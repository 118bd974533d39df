// Package sponge implements the sponge command.
package sponge

import (
	"io"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/core/fs"
)

// Run reads all of standard input before writing it to FILE, so a pipeline
// may read and rewrite the same file. Without FILE the input goes to
// standard output.
//
//	-a    Append to FILE instead of replacing it
func Run(p *core.Process) (core.ExitCode, error) {
	appendMode := false
	args, code := core.ParseBoolFlags(p, "sponge", p.Args[1:], map[byte]*bool{'a': &appendMode}, nil)
	if code != core.ExitSuccess {
		return code, nil
	}
	if len(args) > 1 {
		return core.UsageError(p, "sponge", "extra operand '"+args[1]+"'"), nil
	}

	data, err := io.ReadAll(p.Stdin)
	if err != nil {
		return core.ExitFailure, err
	}
	if len(args) == 0 {
		_, err := p.Stdout.Write(data)
		return core.ExitSuccess, err
	}

	name := args[0]
	var w io.WriteCloser
	if appendMode && fs.Exists(p, name) {
		w, err = fs.Append(p, name)
	} else {
		w, err = fs.Create(p, name)
	}
	if err != nil {
		return core.FileError(p, "sponge", name, err), nil
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return core.FileError(p, "sponge", name, err), nil
	}
	if err := w.Close(); err != nil {
		return core.FileError(p, "sponge", name, err), nil
	}
	return core.ExitSuccess, nil
}
