package shell

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/streams"
)

// builtin enumerates the commands that run inside the shell's own process
// because they change state the caller observes.
type builtin int

const (
	builtinCd builtin = iota
	builtinEnv
	builtinExport
	builtinRead
	builtinExit
	builtinExec
	builtinSource
	builtinTrue
	builtinFalse
	numBuiltins
)

var builtinNames = map[string]builtin{
	"cd":     builtinCd,
	"env":    builtinEnv,
	"export": builtinExport,
	"read":   builtinRead,
	"exit":   builtinExit,
	"exec":   builtinExec,
	"source": builtinSource,
	".":      builtinSource,
	"true":   builtinTrue,
	"false":  builtinFalse,
}

type builtinFunc func(sh *Shell, ctx *Context, p *core.Process, args []string) (core.ExitCode, error)

// builtinTable is filled in init because its handlers reach back into the
// dispatcher.
var builtinTable [numBuiltins]builtinFunc

func init() {
	builtinTable = [numBuiltins]builtinFunc{
		builtinCd:     (*Shell).cd,
		builtinEnv:    (*Shell).env,
		builtinExport: (*Shell).export,
		builtinRead:   (*Shell).read,
		builtinExit:   (*Shell).exit,
		builtinExec:   (*Shell).exec,
		builtinSource: (*Shell).source,
		builtinTrue:   (*Shell).trueCmd,
		builtinFalse:  (*Shell).falseCmd,
	}
}

func lookupBuiltin(name string) (builtin, bool) {
	b, ok := builtinNames[name]
	return b, ok
}

// IsBuiltin reports whether name is handled by the shell itself.
func IsBuiltin(name string) bool {
	_, ok := lookupBuiltin(name)
	return ok
}

func (sh *Shell) cd(_ *Context, p *core.Process, args []string) (core.ExitCode, error) {
	target := p.Env["HOME"]
	if len(args) > 1 {
		target = args[1]
	}
	if target == "-" {
		target = p.Env["OLDPWD"]
	}
	if target == "" {
		target = "/"
	}
	dir := p.Path(target)
	if ok, _ := dir.IsDir(); !ok {
		p.Errorf("cd: %s: No such directory\n", target)
		return core.ExitFailure, nil
	}
	p.Env["OLDPWD"] = p.Cwd.String()
	p.Cwd = dir
	p.Env["PWD"] = dir.String()
	return core.ExitSuccess, nil
}

func (sh *Shell) env(_ *Context, p *core.Process, _ []string) (core.ExitCode, error) {
	for _, name := range sortedKeys(p.Env) {
		p.Printf("%s=%s\n", name, p.Env[name])
	}
	return core.ExitSuccess, nil
}

func (sh *Shell) export(ctx *Context, p *core.Process, args []string) (core.ExitCode, error) {
	if len(args) == 1 {
		for _, name := range sortedKeys(p.Env) {
			p.Printf("export %s=%s\n", name, p.Env[name])
		}
		return core.ExitSuccess, nil
	}
	code := core.ExitSuccess
	for _, arg := range args[1:] {
		name, value, hasValue := strings.Cut(arg, "=")
		if !isName(name) {
			p.Errorf("export: %s: bad variable name\n", arg)
			code = core.ExitFailure
			continue
		}
		if !hasValue {
			value = ctx.Variables[name]
		}
		ctx.Variables[name] = value
		p.Env[name] = value
	}
	return code, nil
}

func (sh *Shell) read(ctx *Context, p *core.Process, args []string) (core.ExitCode, error) {
	var names []string
	for i := 1; i < len(args); i++ {
		if args[i] == "-p" {
			if i+1 >= len(args) {
				return core.UsageError(p, "read", "-p: option requires an argument"), nil
			}
			i++
			p.Print(args[i])
			_ = p.Stdout.Flush()
			continue
		}
		if !isName(args[i]) {
			p.Errorf("read: %s: bad variable name\n", args[i])
			return core.ExitFailure, nil
		}
		names = append(names, args[i])
	}
	if len(names) == 0 {
		names = []string{"REPLY"}
	}

	line, err := p.Stdin.GetLine()
	if errors.Is(err, streams.ErrEmptyRead) {
		return core.ExitFailure, nil
	}
	if err != nil {
		return core.ExitFailure, err
	}

	rest := strings.TrimLeft(line, " \t")
	for i, name := range names {
		if i == len(names)-1 {
			ctx.Assign(p, name, strings.TrimRight(rest, " \t"))
			break
		}
		field := rest
		if j := strings.IndexAny(rest, " \t"); j >= 0 {
			field, rest = rest[:j], strings.TrimLeft(rest[j:], " \t")
		} else {
			rest = ""
		}
		ctx.Assign(p, name, field)
	}
	return core.ExitSuccess, nil
}

func (sh *Shell) exit(ctx *Context, p *core.Process, args []string) (core.ExitCode, error) {
	code := core.ExitSuccess
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 || n > 255 {
			p.Errorf("exit: Illegal number: %s\n", args[1])
			code = core.ExitUsage
		} else {
			code = core.ExitCode(n)
		}
	}
	ctx.Exit(code)
	return code, nil
}

func (sh *Shell) exec(ctx *Context, p *core.Process, args []string) (core.ExitCode, error) {
	args = args[1:]
	argv0 := ""
	if len(args) >= 2 && args[0] == "-a" {
		argv0, args = args[1], args[2:]
	}
	if len(args) == 0 {
		return core.ExitSuccess, nil
	}
	var code core.ExitCode
	var err error
	if IsBuiltin(args[0]) {
		code, err = sh.runCommand(ctx, p, args)
	} else {
		child := p.Clone()
		child.Args = append([]string(nil), args...)
		if argv0 != "" {
			child.Args[0] = argv0
		}
		code, err = sh.runProgram(child, args[0])
	}
	ctx.Exit(code)
	return code, err
}

func (sh *Shell) source(ctx *Context, p *core.Process, args []string) (core.ExitCode, error) {
	if len(args) < 2 {
		return core.UsageError(p, args[0], "filename argument required"), nil
	}
	data, err := p.Path(args[1]).ReadFile()
	if err != nil {
		return core.FileError(p, args[0], args[1], err), nil
	}
	if len(args) > 2 {
		saved := p.Args
		p.Args = append([]string(nil), args[1:]...)
		defer func() { p.Args = saved }()
	}
	return sh.RunScript(ctx, p, string(data))
}

func (sh *Shell) trueCmd(*Context, *core.Process, []string) (core.ExitCode, error) {
	return core.ExitSuccess, nil
}

func (sh *Shell) falseCmd(*Context, *core.Process, []string) (core.ExitCode, error) {
	return core.ExitFailure, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
