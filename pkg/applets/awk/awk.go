// Package awk implements the awk command on top of GoAWK.
package awk

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"unicode"

	"github.com/benhoyt/goawk/interp"
	"github.com/benhoyt/goawk/parser"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/core/fs"
)

// Run executes the awk command.
//
// Supported flags:
//
//	-F SEP      Set field separator (default whitespace)
//	-v VAR=VAL  Assign variable before execution
//	-f FILE     Read program from FILE
//	-e PROG     Add PROG text to the program (allows multiple)
//	-W OPT      GNU-compat extension options (ignored)
//
// The first non-flag argument is the program text (unless -f or -e is
// used). Remaining arguments are VAR=VAL assignments or input files read
// from the VFS, concatenated in order; stdin is read if none are given.
// The program cannot open files, write files or run commands itself.
func Run(p *core.Process) (core.ExitCode, error) {
	opts, err := parseArgs(p, p.Args[1:])
	if err != nil {
		return core.UsageError(p, "awk", err.Error()), nil
	}
	if opts.warnW {
		p.Errorf("warning: option -W is ignored\n")
	}
	if opts.program == "" {
		return core.UsageError(p, "awk", "missing program"), nil
	}

	prog, err := parser.ParseProgram([]byte(normalizeProgramSyntax(opts.program)), nil)
	if err != nil {
		reportParseError(p, err)
		return core.ExitUsage, nil
	}

	input, closeInput, code := openInputs(p, opts.files)
	if code != core.ExitSuccess {
		return code, nil
	}
	defer closeInput()

	config := &interp.Config{
		Argv0:        "awk",
		Stdin:        input,
		Output:       p.Stdout,
		Error:        p.Stderr,
		Environ:      environ(p),
		NoFileReads:  true,
		NoFileWrites: true,
		NoExec:       true,
	}
	if opts.fieldSep != "" {
		config.Vars = append(config.Vars, "FS", opts.fieldSep)
	}
	for _, name := range opts.varOrder {
		config.Vars = append(config.Vars, name, opts.vars[name])
	}

	interpreter, err := interp.New(prog)
	if err != nil {
		p.Errorf("awk: %v\n", err)
		return core.ExitFailure, nil
	}
	status, err := interpreter.ExecuteContext(p.Context(), config)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return core.ExitFailure, err
		}
		p.Errorf("awk: %v\n", err)
		return core.ExitUsage, nil
	}
	return core.ExitCode(status), nil
}

type options struct {
	program  string
	files    []string
	vars     map[string]string
	varOrder []string
	fieldSep string
	warnW    bool
}

func (o *options) setVar(name, value string) {
	if _, ok := o.vars[name]; !ok {
		o.varOrder = append(o.varOrder, name)
	}
	o.vars[name] = value
}

// parseArgs reads options up to the first operand; the first operand is the
// program unless -f or -e supplied one.
func parseArgs(p *core.Process, args []string) (*options, error) {
	opts := &options{vars: map[string]string{}}
	haveProgram := false

	stopOpts := false
	operand := func(arg string) {
		stopOpts = true
		if !haveProgram {
			opts.program = arg
			haveProgram = true
			return
		}
		if key, val, ok := parseAssignment(arg); ok {
			opts.setVar(key, unescapeString(val))
			return
		}
		opts.files = append(opts.files, arg)
	}

	for pos := 0; pos < len(args); pos++ {
		arg := args[pos]
		if stopOpts || arg == "-" || !strings.HasPrefix(arg, "-") {
			operand(arg)
			continue
		}
		if arg == "--" {
			stopOpts = true
			continue
		}
		if len(arg) < 2 {
			return nil, errInvalid(arg)
		}
		switch arg[1] {
		case 'f', 'e', 'F', 'v', 'W':
		default:
			return nil, errInvalid(arg)
		}
		val, usedNext, err := optValue(arg, pos, args)
		if err != nil {
			return nil, err
		}
		if usedNext {
			pos++
		}
		switch arg[1] {
		case 'f':
			content, err := readProgramFile(p, val)
			if err != nil {
				return nil, err
			}
			opts.program += "\n" + content
		case 'e':
			opts.program += "\n" + val
		case 'F':
			opts.fieldSep = unescapeString(val)
		case 'v':
			key, value, ok := strings.Cut(val, "=")
			if !ok || !isName(key) {
				return nil, &argError{msg: "invalid variable assignment: " + val}
			}
			opts.setVar(key, unescapeString(value))
		case 'W':
			opts.warnW = true
		}
		if arg[1] == 'f' || arg[1] == 'e' {
			haveProgram = true
		}
	}
	opts.program = strings.TrimSpace(opts.program)
	return opts, nil
}

func readProgramFile(p *core.Process, name string) (string, error) {
	r, err := fs.OpenInput(p, name)
	if err != nil {
		return "", &argError{msg: "can't open file " + name}
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// openInputs opens every input file up front so a missing file is reported
// before the program starts.
func openInputs(p *core.Process, files []string) (io.Reader, func(), core.ExitCode) {
	if len(files) == 0 {
		return p.Stdin, func() {}, core.ExitSuccess
	}
	var readers []io.Reader
	var closers []io.Closer
	closeAll := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}
	for _, name := range files {
		r, err := fs.OpenInput(p, name)
		if err != nil {
			closeAll()
			return nil, nil, core.FileError(p, "awk", name, err)
		}
		readers = append(readers, r)
		closers = append(closers, r)
	}
	return io.MultiReader(readers...), closeAll, core.ExitSuccess
}

// environ flattens the process environment into ENVIRON pairs.
func environ(p *core.Process) []string {
	names := make([]string, 0, len(p.Env))
	for name := range p.Env {
		names = append(names, name)
	}
	sort.Strings(names)
	pairs := make([]string, 0, 2*len(names))
	for _, name := range names {
		pairs = append(pairs, name, p.Env[name])
	}
	return pairs
}

type argError struct {
	msg string
}

func (e *argError) Error() string {
	return e.msg
}

func errInvalid(arg string) error {
	return &argError{msg: "invalid option -- '" + strings.TrimPrefix(arg, "-") + "'"}
}

func optValue(arg string, pos int, args []string) (string, bool, error) {
	if len(arg) > 2 {
		return arg[2:], false, nil
	}
	if pos+1 >= len(args) {
		return "", false, &argError{msg: "option requires an argument -- '" + arg[1:] + "'"}
	}
	return args[pos+1], true, nil
}

func parseAssignment(expr string) (string, string, bool) {
	eq := strings.IndexByte(expr, '=')
	if eq <= 0 {
		return "", "", false
	}
	name := expr[:eq]
	if !isName(name) {
		return "", "", false
	}
	return name, expr[eq+1:], true
}

func reportParseError(p *core.Process, err error) {
	var pe *parser.ParseError
	if errors.As(err, &pe) {
		p.Errorf("awk: cmd. line:%d: %s\n", pe.Position.Line, pe.Message)
		return
	}
	p.Errorf("awk: %v\n", err)
}

// normalizeProgramSyntax accepts the short "func" keyword.
func normalizeProgramSyntax(program string) string {
	var b strings.Builder
	for i := 0; i < len(program); i++ {
		if strings.HasPrefix(program[i:], "func ") && (i == 0 || !isNameByte(program[i-1])) {
			b.WriteString("function ")
			i += len("func ") - 1
			continue
		}
		b.WriteByte(program[i])
	}
	return b.String()
}

func isNameByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func isName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 {
			if r != '_' && !unicode.IsLetter(r) {
				return false
			}
		} else if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// unescapeString expands C-style escapes in -v and -F values.
func unescapeString(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			val := s[i] - '0'
			for count := 1; count < 3 && i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '7'; count++ {
				val = val*8 + s[i+1] - '0'
				i++
			}
			b.WriteByte(val)
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
