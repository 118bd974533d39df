// Package uniq implements the uniq command.
package uniq

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/core/fs"
	"github.com/rcarmo/go-vsh/pkg/core/textutil"
)

type options struct {
	count      bool // -c
	duplicates bool // -d
	unique     bool // -u
	ignoreCase bool // -i
	skipFields int  // -f N
	skipChars  int  // -s N
}

// Run collapses adjacent identical lines of INPUT, writing to OUTPUT or
// stdout.
func Run(p *core.Process) (core.ExitCode, error) {
	args := p.Args[1:]
	var opts options
	var files []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			files = append(files, args[i+1:]...)
			break
		}
		if len(arg) < 2 || arg[0] != '-' {
			files = append(files, arg)
			continue
		}
		for j := 1; j < len(arg); j++ {
			switch arg[j] {
			case 'c':
				opts.count = true
			case 'd':
				opts.duplicates = true
			case 'u':
				opts.unique = true
			case 'i':
				opts.ignoreCase = true
			case 'f', 's':
				value := arg[j+1:]
				if value == "" {
					if i+1 >= len(args) {
						return core.UsageError(p, "uniq", "option requires an argument -- '"+string(arg[j])+"'"), nil
					}
					i++
					value = args[i]
				}
				n, err := strconv.Atoi(value)
				if err != nil || n < 0 {
					return core.UsageError(p, "uniq", "invalid number: "+value), nil
				}
				if arg[j] == 'f' {
					opts.skipFields = n
				} else {
					opts.skipChars = n
				}
				j = len(arg)
			default:
				return core.UsageError(p, "uniq", "invalid option -- '"+string(arg[j])+"'"), nil
			}
		}
	}
	if len(files) > 2 {
		return core.UsageError(p, "uniq", "extra operand '"+files[2]+"'"), nil
	}

	input := "-"
	if len(files) > 0 {
		input = files[0]
	}
	in, err := fs.OpenInput(p, input)
	if err != nil {
		return core.FileError(p, "uniq", input, err), nil
	}
	defer in.Close()

	var out io.Writer = p.Stdout
	if len(files) == 2 && files[1] != "-" {
		f, err := fs.Create(p, files[1])
		if err != nil {
			return core.FileError(p, "uniq", files[1], err), nil
		}
		defer f.Close()
		out = f
	}

	if err := uniq(in, out, opts); err != nil {
		return core.ExitFailure, err
	}
	return core.ExitSuccess, nil
}

func uniq(r io.Reader, out io.Writer, opts options) error {
	w := bufio.NewWriter(out)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	key := func(line string) string {
		k := textutil.NormalizeLine(line, opts.skipFields, opts.skipChars)
		if opts.ignoreCase {
			k = strings.ToLower(k)
		}
		return k
	}
	emit := func(line string, n int) {
		if opts.duplicates && n < 2 || opts.unique && n > 1 {
			return
		}
		if opts.count {
			fmt.Fprintf(w, "%7d %s\n", n, line)
			return
		}
		fmt.Fprintln(w, line)
	}

	var group string
	var groupKey string
	n := 0
	for scanner.Scan() {
		line := scanner.Text()
		k := key(line)
		if n > 0 && k == groupKey {
			n++
			continue
		}
		if n > 0 {
			emit(group, n)
		}
		group, groupKey, n = line, k, 1
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if n > 0 {
		emit(group, n)
	}
	return w.Flush()
}
