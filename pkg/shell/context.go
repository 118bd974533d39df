package shell

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/rcarmo/go-vsh/pkg/core"
)

// Context is the shell-local state of one script invocation: unexported
// variables and a pending exit request.
type Context struct {
	Variables   map[string]string
	PendingExit *core.ExitCode
}

// NewContext returns an empty context.
func NewContext() *Context {
	return &Context{Variables: map[string]string{}}
}

// Copy returns an independent context with the same variables and no
// pending exit. Subshells and pipeline stages run on copies.
func (c *Context) Copy() *Context {
	vars := make(map[string]string, len(c.Variables))
	for k, v := range c.Variables {
		vars[k] = v
	}
	return &Context{Variables: vars}
}

// Exit records a pending exit.
func (c *Context) Exit(code core.ExitCode) {
	c.PendingExit = &code
}

// Assign sets a shell variable. A name already present in the environment
// is updated there too.
func (c *Context) Assign(p *core.Process, name, value string) {
	c.Variables[name] = value
	if _, ok := p.Env[name]; ok {
		p.Env[name] = value
	}
}

// Lookup resolves name: environment first, then shell variables, then "@"
// (all arguments after the command name) and finally a positional index.
// Unknown names resolve to "".
func (c *Context) Lookup(p *core.Process, name string) string {
	if v, ok := p.Env[name]; ok {
		return v
	}
	if v, ok := c.Variables[name]; ok {
		return v
	}
	if name == "@" {
		if len(p.Args) < 2 {
			return ""
		}
		return strings.Join(p.Args[1:], " ")
	}
	if n, err := strconv.Atoi(name); err == nil {
		return p.Arg(n)
	}
	return ""
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
