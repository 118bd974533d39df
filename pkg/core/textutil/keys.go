package textutil

import (
	"errors"
	"strconv"
	"strings"
)

var (
	errInvalidKey = errors.New("invalid key")
	errMissingKey = errors.New("missing key")
)

// NormalizeLine drops the first skipFields blank-separated fields and then
// skipChars characters, as uniq -f and -s compare.
func NormalizeLine(line string, skipFields, skipChars int) string {
	for k := 0; k < skipFields; k++ {
		line = strings.TrimLeft(line, " \t")
		if line == "" {
			return ""
		}
		end := strings.IndexFunc(line, func(r rune) bool { return r == ' ' || r == '\t' })
		if end < 0 {
			return ""
		}
		line = line[end:]
	}
	if skipChars > 0 {
		runes := []rune(line)
		if skipChars >= len(runes) {
			return ""
		}
		line = string(runes[skipChars:])
	}
	return line
}

// ParseKeySpec parses a sort -k FIELD[,CHAR] spec.
func ParseKeySpec(spec string) (field, char int, err error) {
	if spec == "" {
		return 0, 0, errMissingKey
	}
	f, c, hasChar := strings.Cut(spec, ",")
	if field, err = strconv.Atoi(f); err != nil || field <= 0 {
		return 0, 0, errInvalidKey
	}
	if hasChar {
		if char, err = strconv.Atoi(c); err != nil || char <= 0 {
			return 0, 0, errInvalidKey
		}
	}
	return field, char, nil
}

// ExtractKey returns line from field (and char within it) on. An empty sep
// splits on runs of blanks.
func ExtractKey(line string, field, char int, sep string) string {
	if field <= 0 {
		return line
	}
	var fields []string
	if sep == "" {
		fields = strings.Fields(line)
	} else {
		fields = strings.Split(line, sep)
	}
	if field > len(fields) {
		return ""
	}
	key := fields[field-1]
	if char > 1 {
		runes := []rune(key)
		if char > len(runes) {
			return ""
		}
		key = string(runes[char-1:])
	}
	return key
}
