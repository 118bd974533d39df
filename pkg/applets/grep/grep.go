// Package grep implements the grep command.
package grep

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/core/fs"
)

type options struct {
	lineNumbers bool // -n
	ignoreCase  bool // -i
	invert      bool // -v
	count       bool // -c
	listFiles   bool // -l
	quiet       bool // -q
	fixed       bool // -F
	noFilenames bool // -h
}

// Run prints lines matching a regular expression. Exit status is 0 when a
// line matched, 1 when none did and 2 on error.
func Run(p *core.Process) (core.ExitCode, error) {
	var opts options
	flags := map[byte]*bool{
		'n': &opts.lineNumbers,
		'i': &opts.ignoreCase,
		'v': &opts.invert,
		'c': &opts.count,
		'l': &opts.listFiles,
		'q': &opts.quiet,
		'F': &opts.fixed,
		'h': &opts.noFilenames,
	}
	var extended bool
	flags['E'] = &extended
	args, code := core.ParseBoolFlags(p, "grep", p.Args[1:], flags, nil)
	if code != core.ExitSuccess {
		return code, nil
	}
	if len(args) == 0 {
		return core.UsageError(p, "grep", "missing pattern"), nil
	}

	match, err := compile(args[0], opts)
	if err != nil {
		return core.UsageError(p, "grep", err.Error()), nil
	}
	files := args[1:]
	if len(files) == 0 {
		files = []string{"-"}
	}
	prefix := len(files) > 1 && !opts.noFilenames

	matched := false
	failed := false
	for _, file := range files {
		f, err := fs.OpenInput(p, file)
		if err != nil {
			core.FileError(p, "grep", file, err)
			failed = true
			continue
		}
		name := file
		if file == "-" {
			name = "(standard input)"
		}
		n, err := grepFile(p, f, name, prefix, match, opts)
		f.Close()
		if err != nil {
			return core.ExitUsage, err
		}
		if n > 0 {
			matched = true
			if opts.quiet {
				return core.ExitSuccess, nil
			}
		}
	}
	switch {
	case failed && !(opts.quiet && matched):
		return core.ExitUsage, nil
	case matched:
		return core.ExitSuccess, nil
	}
	return core.ExitFailure, nil
}

func compile(pattern string, opts options) (func(string) bool, error) {
	if opts.fixed {
		if opts.ignoreCase {
			lower := strings.ToLower(pattern)
			return func(line string) bool { return strings.Contains(strings.ToLower(line), lower) }, nil
		}
		return func(line string) bool { return strings.Contains(line, pattern) }, nil
	}
	if opts.ignoreCase {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return re.MatchString, nil
}

// grepFile reports matches in r and returns how many lines were selected.
func grepFile(p *core.Process, r io.Reader, name string, prefix bool, match func(string) bool, opts options) (int, error) {
	w := bufio.NewWriter(p.Stdout)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	selected := 0
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if match(line) == opts.invert {
			continue
		}
		selected++
		if opts.quiet {
			return selected, nil
		}
		if opts.listFiles {
			fmt.Fprintln(w, name)
			return selected, w.Flush()
		}
		if opts.count {
			continue
		}
		if prefix {
			fmt.Fprintf(w, "%s:", name)
		}
		if opts.lineNumbers {
			fmt.Fprintf(w, "%d:", lineNum)
		}
		fmt.Fprintln(w, line)
	}
	if err := scanner.Err(); err != nil {
		return selected, err
	}
	if opts.count && !opts.listFiles {
		if prefix {
			fmt.Fprintf(w, "%s:", name)
		}
		fmt.Fprintln(w, selected)
	}
	return selected, w.Flush()
}
