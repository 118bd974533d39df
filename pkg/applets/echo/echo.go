// Package echo implements the echo command.
package echo

import (
	"strconv"
	"strings"

	"github.com/rcarmo/go-vsh/pkg/core"
)

var simpleEscapes = map[byte]byte{
	'n': '\n', 't': '\t', 'r': '\r', 'a': '\a',
	'b': '\b', 'f': '\f', 'v': '\v', '\\': '\\',
}

// Run prints its arguments separated by spaces. Leading words made only of
// n, e and E are flags; "--" ends them and is not printed.
func Run(p *core.Process) (core.ExitCode, error) {
	words := p.Args[1:]
	newline, escapes := true, false
	for len(words) > 0 && isFlagWord(words[0]) {
		for _, c := range words[0][1:] {
			switch c {
			case 'n':
				newline = false
			case 'e':
				escapes = true
			case 'E':
				escapes = false
			}
		}
		words = words[1:]
	}
	if len(words) > 0 && words[0] == "--" {
		words = words[1:]
	}

	text := strings.Join(words, " ")
	if escapes {
		var stop bool
		text, stop = expand(text)
		if stop {
			newline = false
		}
	}
	if newline {
		text += "\n"
	}
	if _, err := p.Stdout.WriteString(text); err != nil {
		return core.ExitFailure, err
	}
	return core.ExitSuccess, nil
}

func isFlagWord(w string) bool {
	return len(w) > 1 && w[0] == '-' && strings.Trim(w[1:], "neE") == ""
}

// expand interprets backslash escapes. \c ends the output and reports stop.
func expand(s string) (out string, stop bool) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		c := s[i+1]
		if r, ok := simpleEscapes[c]; ok {
			b.WriteByte(r)
			i++
			continue
		}
		switch {
		case c == 'c':
			return b.String(), true
		case c == '0':
			v, n := number(s[i+2:], 8, 3)
			b.WriteByte(v)
			i += 1 + n
		case c >= '1' && c <= '7':
			v, n := number(s[i+1:], 8, 3)
			b.WriteByte(v)
			i += n
		case c == 'x':
			v, n := number(s[i+2:], 16, 2)
			b.WriteByte(v)
			i += 1 + n
		default:
			b.WriteByte('\\')
		}
	}
	return b.String(), false
}

// number parses up to width leading digits of s in base and returns the
// byte value and the digit count.
func number(s string, base, width int) (byte, int) {
	n := 0
	for n < width && n < len(s) && isDigit(s[n], base) {
		n++
	}
	if n == 0 {
		return 0, 0
	}
	v, _ := strconv.ParseUint(s[:n], base, 16)
	return byte(v), n
}

func isDigit(c byte, base int) bool {
	if base == 8 {
		return c >= '0' && c <= '7'
	}
	return strings.IndexByte("0123456789abcdefABCDEF", c) >= 0
}
