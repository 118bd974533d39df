// Package rev implements the rev command.
package rev

import (
	"bufio"
	"io"
	"strings"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/core/fs"
)

// Run prints each line of the files with its characters reversed.
func Run(p *core.Process) (core.ExitCode, error) {
	files, code := core.ParseBoolFlags(p, "rev", p.Args[1:], map[byte]*bool{}, nil)
	if code != core.ExitSuccess {
		return code, nil
	}
	if len(files) == 0 {
		files = []string{"-"}
	}

	status := core.ExitSuccess
	w := bufio.NewWriter(p.Stdout)
	for _, name := range files {
		f, err := fs.OpenInput(p, name)
		if err != nil {
			w.Flush()
			status = core.FileError(p, "rev", name, err)
			continue
		}
		err = reverseLines(w, f)
		f.Close()
		if err != nil {
			return core.ExitFailure, err
		}
	}
	return status, w.Flush()
}

func reverseLines(w *bufio.Writer, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		runes := []rune(strings.TrimSuffix(scanner.Text(), "\r"))
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		w.WriteString(string(runes))
		w.WriteByte('\n')
	}
	return scanner.Err()
}
