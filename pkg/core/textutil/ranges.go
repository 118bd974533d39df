// Package textutil holds the list, key and set parsers shared by the text
// programs.
package textutil

import (
	"errors"
	"strconv"
	"strings"
)

var (
	errInvalidRange = errors.New("invalid range")
	errMissingRange = errors.New("missing range")
)

// Range is a 1-based inclusive span; End 0 means open-ended.
type Range struct {
	Start int
	End   int
}

// clamp bounds r to n items and reports whether anything is left.
func (r Range) clamp(n int) (int, int, bool) {
	lo, hi := max(r.Start, 1), r.End
	if hi == 0 || hi > n {
		hi = n
	}
	return lo, hi, lo <= hi
}

// ParseRanges parses a comma-separated list of N, N-, -M and N-M items.
func ParseRanges(spec string) ([]Range, error) {
	if spec == "" {
		return nil, errMissingRange
	}
	var ranges []Range
	for _, item := range strings.Split(spec, ",") {
		r, err := parseRange(item)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

func parseRange(item string) (Range, error) {
	lo, hi, isSpan := strings.Cut(item, "-")
	if !isSpan {
		n, err := position(item)
		return Range{Start: n, End: n}, err
	}
	r := Range{Start: 1}
	var err error
	switch {
	case lo == "" && hi == "":
		return r, errInvalidRange
	case lo == "":
		r.End, err = position(hi)
	case hi == "":
		r.Start, err = position(lo)
	default:
		if r.Start, err = position(lo); err == nil {
			r.End, err = position(hi)
		}
		if err == nil && r.End < r.Start {
			err = errInvalidRange
		}
	}
	return r, err
}

func position(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errInvalidRange
	}
	return n, nil
}

// BuildFieldFunc returns a projection onto the delimited fields in ranges.
// Lines without the delimiter pass through unless suppress is set, in which
// case the projection reports false.
func BuildFieldFunc(ranges []Range, delimiter rune, outputDelimiter string, suppress bool) func(line string) (string, bool) {
	sep := string(delimiter)
	if outputDelimiter == "" {
		outputDelimiter = sep
	}
	return func(line string) (string, bool) {
		fields := strings.Split(line, sep)
		if len(fields) == 1 {
			return line, !suppress
		}
		var picked []string
		for _, r := range ranges {
			if lo, hi, ok := r.clamp(len(fields)); ok {
				picked = append(picked, fields[lo-1:hi]...)
			}
		}
		return strings.Join(picked, outputDelimiter), true
	}
}

// BuildCharFunc returns a projection onto the characters in ranges, each
// character printed at most once.
func BuildCharFunc(ranges []Range) func(line string) string {
	return func(line string) string {
		runes := []rune(line)
		taken := make([]bool, len(runes))
		var b strings.Builder
		for _, r := range ranges {
			lo, hi, ok := r.clamp(len(runes))
			if !ok {
				continue
			}
			for i := lo - 1; i < hi; i++ {
				if !taken[i] {
					taken[i] = true
					b.WriteRune(runes[i])
				}
			}
		}
		return b.String()
	}
}
