// Package cat implements the cat command.
package cat

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/core/fs"
)

type options struct {
	number, numberNonBlank bool
	ends, tabs, nonprint   bool
}

func (o options) plain() bool {
	return !o.number && !o.numberNonBlank && !o.ends && !o.tabs && !o.nonprint
}

// Run concatenates files, or stdin, to stdout.
func Run(p *core.Process) (core.ExitCode, error) {
	var o options
	var all bool
	files, code := core.ParseBoolFlags(p, "cat", p.Args[1:], map[byte]*bool{
		'n': &o.number,
		'b': &o.numberNonBlank,
		'e': &o.ends,
		't': &o.tabs,
		'v': &o.nonprint,
		'A': &all,
	}, nil)
	if code != core.ExitSuccess {
		return code, nil
	}
	if all {
		o.ends, o.tabs, o.nonprint = true, true, true
	}
	if o.numberNonBlank {
		o.number = false
	}
	if len(files) == 0 {
		files = []string{"-"}
	}

	status := core.ExitSuccess
	line := 0
	for _, name := range files {
		f, err := fs.OpenInput(p, name)
		if err != nil {
			status = core.FileError(p, "cat", name, err)
			continue
		}
		err = copyFile(p, f, o, &line)
		f.Close()
		if err != nil {
			return core.ExitFailure, err
		}
	}
	return status, nil
}

// copyFile writes r to stdout; numbering continues from *line.
func copyFile(p *core.Process, r io.Reader, o options, line *int) error {
	if o.plain() {
		_, err := io.Copy(p.Stdout, r)
		return err
	}
	w := bufio.NewWriter(p.Stdout)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		text := sc.Text()
		if o.number || (o.numberNonBlank && text != "") {
			*line++
			fmt.Fprintf(w, "%6d\t", *line)
		}
		w.WriteString(render(text, o))
		if o.ends {
			w.WriteByte('$')
		}
		w.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return w.Flush()
}

// render applies -t and -v: tabs as ^I, control bytes as ^X, DEL as ^?.
func render(text string, o options) string {
	if !o.tabs && !o.nonprint {
		return text
	}
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '\t' && o.tabs:
			b.WriteString("^I")
		case c == '\t' || !o.nonprint || (c >= 0x20 && c != 0x7f):
			b.WriteByte(c)
		case c == 0x7f:
			b.WriteString("^?")
		default:
			b.WriteByte('^')
			b.WriteByte(c + 0x40)
		}
	}
	return b.String()
}
