// Package cut implements the cut command.
package cut

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/core/fs"
	"github.com/rcarmo/go-vsh/pkg/core/textutil"
)

// selection is what a cut invocation keeps from each line.
type selection struct {
	mode      byte
	list      string
	delimiter rune
	outDelim  string
	suppress  bool
}

// Run prints selected fields, characters or bytes of each line.
func Run(p *core.Process) (core.ExitCode, error) {
	sel := selection{delimiter: '\t'}
	files, msg := parseArgs(p.Args[1:], &sel)
	if msg != "" {
		return core.UsageError(p, "cut", msg), nil
	}
	if len(files) == 0 {
		files = []string{"-"}
	}
	ranges, err := textutil.ParseRanges(sel.list)
	if err != nil {
		return core.UsageError(p, "cut", "invalid list"), nil
	}
	var fieldFunc func(line string) (string, bool)
	var charFunc func(line string) string
	if sel.mode == 'f' {
		fieldFunc = textutil.BuildFieldFunc(ranges, sel.delimiter, sel.outDelim, sel.suppress)
	} else {
		charFunc = textutil.BuildCharFunc(ranges)
	}

	exitCode := core.ExitSuccess
	for _, file := range files {
		f, err := fs.OpenInput(p, file)
		if err != nil {
			exitCode = core.FileError(p, "cut", file, err)
			continue
		}
		err = cutLines(p, f, fieldFunc, charFunc)
		f.Close()
		if err != nil {
			return core.ExitFailure, err
		}
	}
	return exitCode, nil
}

func cutLines(p *core.Process, r io.Reader, fieldFunc func(string) (string, bool), charFunc func(string) string) error {
	w := bufio.NewWriter(p.Stdout)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if fieldFunc != nil {
			if out, ok := fieldFunc(line); ok {
				fmt.Fprintln(w, out)
			}
			continue
		}
		fmt.Fprintln(w, charFunc(line))
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return w.Flush()
}

// parseArgs fills sel and returns the file operands, or a usage message.
func parseArgs(args []string, sel *selection) ([]string, string) {
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
		if arg == "-s" {
			sel.suppress = true
			continue
		}
		if i+1 >= len(args) {
			switch arg {
			case "-d":
				return nil, "missing delimiter"
			case "--output-delimiter":
				return nil, "missing output delimiter"
			case "-f", "-c", "-b":
				return nil, "missing list"
			}
			return nil, "invalid option"
		}
		i++
		switch arg {
		case "-d":
			runes := []rune(args[i])
			if len(runes) != 1 {
				return nil, "invalid delimiter"
			}
			sel.delimiter = runes[0]
		case "--output-delimiter":
			sel.outDelim = args[i]
		case "-f", "-c", "-b":
			if sel.mode != 0 && sel.mode != arg[1] {
				return nil, "only one type of list allowed"
			}
			sel.mode, sel.list = arg[1], args[i]
		default:
			return nil, "invalid option"
		}
	}
	if sel.mode == 0 {
		return nil, "missing list"
	}
	return files, ""
}
