package core

import (
	"strconv"
	"strings"
)

// Window selects part of an input for head and tail: Count lines, or bytes
// when Bytes is set. FromStart means the count was written +N.
type Window struct {
	Count     int
	Bytes     bool
	FromStart bool
}

// WindowFunc prints the window of the named input.
type WindowFunc func(p *Process, name string, w Window) error

type windowArgs struct {
	window  Window
	quiet   bool
	verbose bool
	files   []string
}

// RunWindowed parses head/tail arguments and calls fn for every input,
// printing "==> name <==" headers when there is more than one.
func RunWindowed(p *Process, applet string, args []string, fn WindowFunc) ExitCode {
	wa, code := parseWindowArgs(p, applet, args)
	if code != ExitSuccess {
		return code
	}
	if applet == "head" && wa.window.FromStart {
		return UsageError(p, applet, "invalid number '+"+strconv.Itoa(wa.window.Count)+"'")
	}

	headers := wa.verbose || (len(wa.files) > 1 && !wa.quiet)
	status := ExitSuccess
	for i, name := range wa.files {
		if headers {
			if i > 0 {
				p.Println()
			}
			p.Printf("==> %s <==\n", name)
		}
		if err := fn(p, name, wa.window); err != nil {
			status = ExitFailure
		}
	}
	return status
}

func parseWindowArgs(p *Process, applet string, args []string) (windowArgs, ExitCode) {
	wa := windowArgs{window: Window{Count: 10}}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			wa.files = append(wa.files, args[i+1:]...)
			break
		}
		if len(arg) < 2 || arg[0] != '-' {
			wa.files = append(wa.files, arg)
			continue
		}
		if arg[1] >= '0' && arg[1] <= '9' {
			n, err := strconv.Atoi(arg[1:])
			if err != nil {
				return wa, UsageError(p, applet, "invalid number: "+arg[1:])
			}
			wa.window.Count = n
			continue
		}
	flags:
		for j := 1; j < len(arg); j++ {
			switch c := arg[j]; c {
			case 'q':
				wa.quiet = true
			case 'v':
				wa.verbose = true
			case 'n', 'c':
				value := arg[j+1:]
				if value == "" {
					if i+1 >= len(args) {
						return wa, UsageError(p, applet, "missing number")
					}
					i++
					value = args[i]
				}
				w, ok := parseCount(value)
				if !ok || (w.Count < 0 && applet == "head") {
					return wa, UsageError(p, applet, "invalid number: "+value)
				}
				if w.Count < 0 {
					w.Count = -w.Count
				}
				w.Bytes = c == 'c'
				wa.window = w
				break flags
			default:
				return wa, UsageError(p, applet, "invalid option -- '"+string(c)+"'")
			}
		}
	}
	if len(wa.files) == 0 {
		wa.files = []string{"-"}
	}
	return wa, ExitSuccess
}

// parseCount reads N, +N or -N.
func parseCount(s string) (Window, bool) {
	from := strings.HasPrefix(s, "+")
	n, err := strconv.Atoi(strings.TrimPrefix(s, "+"))
	if err != nil {
		return Window{}, false
	}
	return Window{Count: n, FromStart: from}, true
}
