package shell

import (
	"fmt"
	"strings"
)

// Node is a parsed statement tree.
type Node interface {
	fmt.Stringer
	node()
}

// Command runs a builtin or program with Args.
type Command struct {
	Args []string
}

// Pipe connects LHS's stdout to RHS's stdin.
type Pipe struct {
	LHS, RHS Node
}

// And runs RHS only when LHS succeeds.
type And struct {
	LHS, RHS Node
}

// Or runs RHS only when LHS fails.
type Or struct {
	LHS, RHS Node
}

// RedirectOut sends Inner's stdout to a file.
type RedirectOut struct {
	Inner  Node
	Append bool
	Path   string
}

// RedirectIn feeds a file to Inner's stdin.
type RedirectIn struct {
	Inner Node
	Path  string
}

func (*Command) node()     {}
func (*Pipe) node()        {}
func (*And) node()         {}
func (*Or) node()          {}
func (*RedirectOut) node() {}
func (*RedirectIn) node()  {}

func (n *Command) String() string { return "Command(" + strings.Join(n.Args, " ") + ")" }
func (n *Pipe) String() string    { return "Pipe(" + n.LHS.String() + ", " + n.RHS.String() + ")" }
func (n *And) String() string     { return "And(" + n.LHS.String() + ", " + n.RHS.String() + ")" }
func (n *Or) String() string      { return "Or(" + n.LHS.String() + ", " + n.RHS.String() + ")" }

func (n *RedirectOut) String() string {
	op := ">"
	if n.Append {
		op = ">>"
	}
	return "RedirectOut(" + n.Inner.String() + " " + op + " " + n.Path + ")"
}

func (n *RedirectIn) String() string {
	return "RedirectIn(" + n.Inner.String() + " < " + n.Path + ")"
}

// parse folds a statement's tokens into a tree. Pipes associate to the
// left; && and || take everything parsed so far as their left side and the
// parse of the remaining tokens as their right side. Redirections wrap the
// current pipeline stage.
func parse(tokens []Token) (Node, error) {
	cmd := &Command{}
	var root, stage Node = cmd, cmd
	// pipe is the pipe whose right side is the current stage, if any.
	var pipe *Pipe

	setStage := func(n Node) {
		stage = n
		if pipe != nil {
			pipe.RHS = n
		} else {
			root = n
		}
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.Kind {
		case TokenValue:
			cmd.Args = append(cmd.Args, tok.Value)
		case TokenPipe:
			if len(cmd.Args) == 0 {
				return nil, syntaxErrorf("empty command before %q", tok.String())
			}
			cmd = &Command{}
			pipe = &Pipe{LHS: root, RHS: cmd}
			root, stage = pipe, cmd
		case TokenAnd, TokenOr:
			if len(cmd.Args) == 0 {
				return nil, syntaxErrorf("empty command before %q", tok.String())
			}
			rhs, err := parse(tokens[i+1:])
			if err != nil {
				return nil, err
			}
			if empty(rhs) {
				return nil, syntaxErrorf("empty command after %q", tok.String())
			}
			if tok.Kind == TokenAnd {
				return &And{LHS: root, RHS: rhs}, nil
			}
			return &Or{LHS: root, RHS: rhs}, nil
		case TokenRedirectOut, TokenRedirectIn:
			if i+1 >= len(tokens) {
				return nil, syntaxErrorf("missing file after %q", tok.String())
			}
			target := tokens[i+1]
			if target.Kind != TokenValue {
				return nil, syntaxErrorf("unexpected %q after %q", target.String(), tok.String())
			}
			i++
			if tok.Kind == TokenRedirectOut {
				setStage(&RedirectOut{Inner: stage, Append: tok.Append, Path: target.Value})
			} else {
				setStage(&RedirectIn{Inner: stage, Path: target.Value})
			}
		}
	}
	if pipe != nil && len(cmd.Args) == 0 {
		return nil, syntaxErrorf("empty command after \"|\"")
	}
	return root, nil
}

func empty(n Node) bool {
	cmd, ok := n.(*Command)
	return ok && len(cmd.Args) == 0
}
