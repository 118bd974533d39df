// Package wc implements the wc command.
package wc

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/core/fs"
)

// Counts are the totals for one input.
type Counts struct {
	Lines, Words, Chars, Bytes int64
}

func (c *Counts) add(o Counts) {
	c.Lines += o.Lines
	c.Words += o.Words
	c.Chars += o.Chars
	c.Bytes += o.Bytes
}

// columns selects which counts are printed, in output order.
type columns struct {
	lines, words, chars, bytes bool
}

func (sel columns) values(c Counts) []int64 {
	var out []int64
	for _, col := range []struct {
		on bool
		n  int64
	}{{sel.lines, c.Lines}, {sel.words, c.Words}, {sel.chars, c.Chars}, {sel.bytes, c.Bytes}} {
		if col.on {
			out = append(out, col.n)
		}
	}
	return out
}

// Run counts lines, words and bytes of each file, with a total row when
// there is more than one.
func Run(p *core.Process) (core.ExitCode, error) {
	var sel columns
	files, code := core.ParseBoolFlags(p, "wc", p.Args[1:], map[byte]*bool{
		'l': &sel.lines,
		'w': &sel.words,
		'm': &sel.chars,
		'c': &sel.bytes,
	}, nil)
	if code != core.ExitSuccess {
		return code, nil
	}
	if sel == (columns{}) {
		sel = columns{lines: true, words: true, bytes: true}
	}

	labelled := len(files) > 0
	if !labelled {
		files = []string{"-"}
	}

	status := core.ExitSuccess
	var total Counts
	for _, name := range files {
		f, err := fs.OpenInput(p, name)
		if err != nil {
			status = core.FileError(p, "wc", name, err)
			continue
		}
		c, err := count(f)
		f.Close()
		if err != nil {
			return core.ExitFailure, err
		}
		label := ""
		if labelled {
			label = name
		}
		p.Print(row(sel.values(c), label))
		total.add(c)
	}
	if len(files) > 1 {
		p.Print(row(sel.values(total), "total"))
	}
	return status, nil
}

func count(r io.Reader) (Counts, error) {
	var c Counts
	br := bufio.NewReader(r)
	inWord := false
	for {
		ch, size, err := br.ReadRune()
		if err == io.EOF {
			return c, nil
		}
		if err != nil {
			return c, err
		}
		c.Bytes += int64(size)
		c.Chars++
		if ch == '\n' {
			c.Lines++
		}
		space := unicode.IsSpace(ch)
		if !space && !inWord {
			c.Words++
		}
		inWord = !space
	}
}

// row formats one output line. A lone column is unpadded; several columns
// are right-aligned in nine-character fields.
func row(values []int64, label string) string {
	var b strings.Builder
	for i, n := range values {
		if i > 0 {
			b.WriteByte(' ')
		}
		if len(values) == 1 {
			fmt.Fprintf(&b, "%d", n)
		} else {
			fmt.Fprintf(&b, "%9d", n)
		}
	}
	if label != "" {
		b.WriteByte(' ')
		b.WriteString(label)
	}
	b.WriteByte('\n')
	return b.String()
}
