// Package tr implements the tr command.
package tr

import (
	"bufio"
	"io"
	"strings"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/core/textutil"
)

// Run translates, deletes or squeezes characters from stdin to stdout.
func Run(p *core.Process) (core.ExitCode, error) {
	var complement, deleteSet, squeeze bool
	sets, code := core.ParseBoolFlags(p, "tr", p.Args[1:], map[byte]*bool{
		'c': &complement,
		'C': &complement,
		'd': &deleteSet,
		's': &squeeze,
	}, nil)
	if code != core.ExitSuccess {
		return code, nil
	}
	switch {
	case len(sets) == 0, len(sets) == 1 && !deleteSet && !squeeze:
		return core.UsageError(p, "tr", "missing operand"), nil
	case len(sets) > 2:
		return core.UsageError(p, "tr", "extra operand '"+sets[2]+"'"), nil
	}

	fromRunes, err := textutil.ParseSet(unescape(sets[0]))
	if err != nil {
		return core.UsageError(p, "tr", "invalid set"), nil
	}
	fromSet := runeSet(fromRunes)
	if complement {
		fromRunes = textutil.ComplementSet(fromSet)
		fromSet = runeSet(fromRunes)
	}

	var toRunes []rune
	translate := !deleteSet && len(sets) == 2
	if len(sets) == 2 {
		toRunes, err = textutil.ParseSet(unescape(sets[1]))
		if err != nil || len(toRunes) == 0 {
			return core.UsageError(p, "tr", "invalid set"), nil
		}
	}

	// Squeezing applies to the last set given.
	squeezeSet := fromSet
	if len(sets) == 2 {
		squeezeSet = runeSet(toRunes)
	}

	r := bufio.NewReader(p.Stdin)
	w := bufio.NewWriter(p.Stdout)
	var prev rune
	hasPrev := false
	for {
		c, _, err := r.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return core.ExitFailure, err
		}
		if deleteSet && fromSet[c] {
			continue
		}
		if translate && fromSet[c] {
			idx := indexRune(fromRunes, c)
			if idx >= len(toRunes) {
				idx = len(toRunes) - 1
			}
			c = toRunes[idx]
		}
		if squeeze && hasPrev && c == prev && squeezeSet[c] {
			continue
		}
		w.WriteRune(c)
		prev = c
		hasPrev = true
	}
	if err := w.Flush(); err != nil {
		return core.ExitFailure, err
	}
	return core.ExitSuccess, nil
}

func runeSet(runes []rune) map[rune]bool {
	set := make(map[rune]bool, len(runes))
	for _, r := range runes {
		set[r] = true
	}
	return set
}

var escapes = strings.NewReplacer(`\n`, "\n", `\t`, "\t", `\r`, "\r", `\\`, `\`)

func unescape(spec string) string {
	return escapes.Replace(spec)
}

func indexRune(list []rune, r rune) int {
	for i, item := range list {
		if item == r {
			return i
		}
	}
	return len(list)
}
