// Package tail implements the tail command.
package tail

import (
	"bufio"
	"io"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/core/fs"
)

// Run prints the last lines, or bytes, of each file. A count written as +N
// starts at the N-th line or byte instead.
func Run(p *core.Process) (core.ExitCode, error) {
	return core.RunWindowed(p, "tail", p.Args[1:], tailFile), nil
}

func tailFile(p *core.Process, path string, w core.Window) error {
	f, err := fs.OpenInput(p, path)
	if err != nil {
		core.FileError(p, "tail", path, err)
		return err
	}
	defer f.Close()

	switch {
	case w.Bytes:
		return tailBytes(p, f, w.Count, w.FromStart)
	case w.FromStart:
		return linesFrom(p, f, w.Count)
	}
	return tailLines(p, f, w.Count)
}

func tailLines(p *core.Process, reader io.Reader, n int) error {
	if n <= 0 {
		_, err := io.Copy(io.Discard, reader)
		return err
	}
	r := bufio.NewReader(reader)
	ring := make([]string, n)
	idx := 0
	count := 0

	for {
		line, err := r.ReadString('\n')
		if line != "" {
			ring[idx] = line
			idx = (idx + 1) % n
			count++
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}

	start, total := 0, count
	if count >= n {
		start, total = idx, n
	}

	w := bufio.NewWriter(p.Stdout)
	for i := 0; i < total; i++ {
		w.WriteString(ring[(start+i)%n])
	}
	return w.Flush()
}

// linesFrom copies everything from the n-th line on.
func linesFrom(p *core.Process, reader io.Reader, n int) error {
	r := bufio.NewReader(reader)
	for i := 1; i < n; i++ {
		if _, err := r.ReadString('\n'); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
	_, err := io.Copy(p.Stdout, r)
	return err
}

func tailBytes(p *core.Process, reader io.Reader, n int, fromStart bool) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	start := 0
	switch {
	case fromStart && n > 0:
		start = min(n-1, len(data))
	case !fromStart && len(data) > n:
		start = len(data) - n
	}

	_, err = p.Stdout.Write(data[start:])
	return err
}
