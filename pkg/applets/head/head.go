// Package head implements the head command.
package head

import (
	"bufio"
	"io"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/core/fs"
)

// Run prints the first lines, or bytes, of each file.
func Run(p *core.Process) (core.ExitCode, error) {
	return core.RunWindowed(p, "head", p.Args[1:], headFile), nil
}

func headFile(p *core.Process, path string, w core.Window) error {
	f, err := fs.OpenInput(p, path)
	if err != nil {
		core.FileError(p, "head", path, err)
		return err
	}
	defer f.Close()

	if w.Bytes {
		_, err := io.CopyN(p.Stdout, f, int64(w.Count))
		if err == io.EOF {
			return nil
		}
		return err
	}

	out := bufio.NewWriter(p.Stdout)
	r := bufio.NewReader(f)
	for i := 0; i < w.Count; i++ {
		line, err := r.ReadString('\n')
		out.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}
	return out.Flush()
}
