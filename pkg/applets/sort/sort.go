// Package sort implements the sort command.
package sort

import (
	"bufio"
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/core/fs"
	"github.com/rcarmo/go-vsh/pkg/core/textutil"
)

type options struct {
	reverse, numeric, unique, fold bool

	sep      string
	hasKey   bool
	keyField int
	keyChar  int
	outFile  string
}

// record is an input line with its precomputed sort key.
type record struct {
	line  string
	key   string
	num   float64
	isNum bool
}

// Run sorts the lines of all input files together.
func Run(p *core.Process) (core.ExitCode, error) {
	opts, files, msg := parseArgs(p.Args[1:])
	if msg != "" {
		return core.UsageError(p, "sort", msg), nil
	}
	if len(files) == 0 {
		files = []string{"-"}
	}

	var records []record
	for _, name := range files {
		f, err := fs.OpenInput(p, name)
		if err != nil {
			return core.FileError(p, "sort", name, err), nil
		}
		sc := bufio.NewScanner(f)
		sc.Buffer(make([]byte, 64*1024), 1024*1024)
		for sc.Scan() {
			records = append(records, opts.record(sc.Text()))
		}
		err = sc.Err()
		f.Close()
		if err != nil {
			return core.ExitFailure, err
		}
	}

	slices.SortStableFunc(records, func(a, b record) int {
		c := opts.compare(a, b)
		if opts.reverse {
			return -c
		}
		return c
	})
	if opts.unique {
		records = slices.CompactFunc(records, func(a, b record) bool { return a.key == b.key })
	}

	var b strings.Builder
	for _, r := range records {
		b.WriteString(r.line)
		b.WriteByte('\n')
	}
	if opts.outFile != "" {
		if err := fs.WriteFile(p, opts.outFile, []byte(b.String())); err != nil {
			return core.FileError(p, "sort", opts.outFile, err), nil
		}
		return core.ExitSuccess, nil
	}
	if _, err := p.Stdout.WriteString(b.String()); err != nil {
		return core.ExitFailure, err
	}
	return core.ExitSuccess, nil
}

func parseArgs(args []string) (options, []string, string) {
	var opts options
	var files []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			files = append(files, args[i+1:]...)
			break
		}
		if arg == "-" || !strings.HasPrefix(arg, "-") {
			files = append(files, arg)
			continue
		}
		switch arg {
		case "-t", "-k", "-o":
			if i+1 >= len(args) {
				return opts, nil, "missing argument"
			}
			i++
			switch arg {
			case "-t":
				if len([]rune(args[i])) != 1 {
					return opts, nil, "invalid separator"
				}
				opts.sep = args[i]
			case "-k":
				field, char, err := textutil.ParseKeySpec(args[i])
				if err != nil {
					return opts, nil, "invalid key"
				}
				opts.hasKey, opts.keyField, opts.keyChar = true, field, char
			case "-o":
				opts.outFile = args[i]
			}
			continue
		}
		for _, c := range arg[1:] {
			switch c {
			case 'r':
				opts.reverse = true
			case 'n':
				opts.numeric = true
			case 'u':
				opts.unique = true
			case 'f':
				opts.fold = true
			default:
				return opts, nil, "invalid option -- '" + string(c) + "'"
			}
		}
	}
	return opts, files, ""
}

func (o options) record(line string) record {
	r := record{line: line, key: line}
	if o.hasKey {
		r.key = textutil.ExtractKey(line, o.keyField, o.keyChar, o.sep)
	}
	if o.fold {
		r.key = strings.ToLower(r.key)
	}
	if o.numeric {
		n, err := strconv.ParseFloat(strings.TrimSpace(r.key), 64)
		r.num, r.isNum = n, err == nil
	}
	return r
}

// compare orders by key. Under -n, keys that are not numbers sort before
// numbers and equal numbers fall back to the key text.
func (o options) compare(a, b record) int {
	if o.numeric && a.isNum != b.isNum {
		if a.isNum {
			return 1
		}
		return -1
	}
	if o.numeric && a.isNum {
		if c := cmp.Compare(a.num, b.num); c != 0 {
			return c
		}
	}
	return strings.Compare(a.key, b.key)
}
