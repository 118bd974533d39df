// Package test implements the test and [ commands.
package test

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/rcarmo/go-vsh/pkg/core"
)

var errMissingBracket = errors.New("missing ]")

// Run evaluates a conditional expression and exits 0 when it holds, 1 when
// it does not and 2 on a malformed expression. Invoked as [, the last
// argument must be ].
//
// Supported expressions:
//
//	STRING              STRING is not empty
//	! EXPR              EXPR is false
//	-n STRING, -z STRING
//	-e FILE, -f FILE, -d FILE, -s FILE
//	S1 = S2, S1 == S2, S1 != S2
//	STRING =~ REGEX     REGEX matches somewhere in STRING
//	N1 -eq N2 (and -ne, -lt, -le, -gt, -ge)
//	EXPR -a EXPR, EXPR -o EXPR
func Run(p *core.Process) (core.ExitCode, error) {
	name := p.Args[0]
	args := p.Args[1:]
	if name == "[" {
		if len(args) == 0 || args[len(args)-1] != "]" {
			p.Errorf("[: %v\n", errMissingBracket)
			return core.ExitUsage, nil
		}
		args = args[:len(args)-1]
	}

	ok, err := evalTest(p, args)
	if err != nil {
		p.Errorf("%s: %v\n", name, err)
		return core.ExitUsage, nil
	}
	return core.FromBool(ok), nil
}

// evalTest splits on -o, then -a, before evaluating primaries.
func evalTest(p *core.Process, args []string) (bool, error) {
	for i := len(args) - 1; i > 0; i-- {
		if args[i] == "-o" && i < len(args)-1 {
			lhs, err := evalTest(p, args[:i])
			if err != nil {
				return false, err
			}
			rhs, err := evalTest(p, args[i+1:])
			return lhs || rhs, err
		}
	}
	for i := len(args) - 1; i > 0; i-- {
		if args[i] == "-a" && i < len(args)-1 {
			lhs, err := evalTest(p, args[:i])
			if err != nil {
				return false, err
			}
			rhs, err := evalTest(p, args[i+1:])
			return lhs && rhs, err
		}
	}
	return evalPrimary(p, args)
}

func evalPrimary(p *core.Process, args []string) (bool, error) {
	switch len(args) {
	case 0:
		return false, nil
	case 1:
		return args[0] != "", nil
	case 2:
		if args[0] == "!" {
			ok, err := evalPrimary(p, args[1:])
			return !ok, err
		}
		return evalUnary(p, args[0], args[1])
	case 3:
		if args[0] == "!" {
			ok, err := evalPrimary(p, args[1:])
			return !ok, err
		}
		return evalBinary(args[0], args[1], args[2])
	default:
		if args[0] == "!" {
			ok, err := evalPrimary(p, args[1:])
			return !ok, err
		}
		return false, fmt.Errorf("%s: unexpected operator", args[3])
	}
}

func evalUnary(p *core.Process, op, operand string) (bool, error) {
	switch op {
	case "-z":
		return operand == "", nil
	case "-n":
		return operand != "", nil
	case "-e":
		ok, _ := p.Path(operand).Exists()
		return ok, nil
	case "-f":
		ok, _ := p.Path(operand).IsFile()
		return ok, nil
	case "-d":
		ok, _ := p.Path(operand).IsDir()
		return ok, nil
	case "-s":
		md, err := p.Path(operand).Metadata()
		return err == nil && !md.IsDir() && md.Len > 0, nil
	}
	return false, fmt.Errorf("%s: unary operator expected", op)
}

func evalBinary(left, op, right string) (bool, error) {
	switch op {
	case "=", "==":
		return left == right, nil
	case "!=":
		return left != right, nil
	case "=~":
		re, err := regexp.Compile(right)
		if err != nil {
			return false, fmt.Errorf("%s: invalid regex: %v", right, err)
		}
		return re.MatchString(left), nil
	case "-eq", "-ne", "-lt", "-le", "-gt", "-ge":
		li, lerr := strconv.Atoi(left)
		if lerr != nil {
			return false, fmt.Errorf("%s: integer expected", left)
		}
		ri, rerr := strconv.Atoi(right)
		if rerr != nil {
			return false, fmt.Errorf("%s: integer expected", right)
		}
		switch op {
		case "-eq":
			return li == ri, nil
		case "-ne":
			return li != ri, nil
		case "-lt":
			return li < ri, nil
		case "-le":
			return li <= ri, nil
		case "-gt":
			return li > ri, nil
		default:
			return li >= ri, nil
		}
	}
	return false, fmt.Errorf("%s: binary operator expected", op)
}
