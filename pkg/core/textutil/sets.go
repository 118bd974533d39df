package textutil

import "strings"

// classSpans lists each [:name:] class as inclusive rune spans.
var classSpans = map[string][][2]rune{
	"alnum":  {{'0', '9'}, {'A', 'Z'}, {'a', 'z'}},
	"alpha":  {{'A', 'Z'}, {'a', 'z'}},
	"digit":  {{'0', '9'}},
	"lower":  {{'a', 'z'}},
	"upper":  {{'A', 'Z'}},
	"space":  {{' ', ' '}, {'\t', '\r'}},
	"blank":  {{' ', ' '}, {'\t', '\t'}},
	"print":  {{32, 126}},
	"graph":  {{33, 126}},
	"cntrl":  {{0, 31}, {127, 127}},
	"punct":  {{33, 47}, {58, 64}, {91, 96}, {123, 126}},
	"xdigit": {{'0', '9'}, {'A', 'F'}, {'a', 'f'}},
}

func appendSpan(out []rune, lo, hi rune) []rune {
	for r := lo; r <= hi; r++ {
		out = append(out, r)
	}
	return out
}

// ParseSet expands a tr set: a-z ranges and [:class:] names.
func ParseSet(spec string) ([]rune, error) {
	var out []rune
	for spec != "" {
		if strings.HasPrefix(spec, "[:") {
			if name, rest, ok := strings.Cut(spec[2:], ":]"); ok {
				if spans, known := classSpans[name]; known {
					for _, s := range spans {
						out = appendSpan(out, s[0], s[1])
					}
					spec = rest
					continue
				}
			}
		}
		runes := []rune(spec)
		if len(runes) >= 3 && runes[1] == '-' {
			if runes[2] < runes[0] {
				return nil, errInvalidRange
			}
			out = appendSpan(out, runes[0], runes[2])
			spec = string(runes[3:])
			continue
		}
		out = append(out, runes[0])
		spec = string(runes[1:])
	}
	return out, nil
}

// ComplementSet returns the bytes 0-255 not in set.
func ComplementSet(set map[rune]bool) []rune {
	out := make([]rune, 0, 256)
	for r := rune(0); r < 256; r++ {
		if !set[r] {
			out = append(out, r)
		}
	}
	return out
}
