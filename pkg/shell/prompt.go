package shell

import (
	"strings"

	"github.com/rcarmo/go-vsh/pkg/core"
)

// RenderPrompt expands $PS1, or "$ " when unset. Supported escapes: \w
// (cwd, with $HOME shown as ~), \W (cwd basename), \u ($USER), \h (host
// name), \$, \\, \n, \r and \e.
func RenderPrompt(p *core.Process) string {
	ps1, ok := p.Env["PS1"]
	if !ok {
		return "$ "
	}
	var b strings.Builder
	runes := []rune(ps1)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '\\' || i+1 >= len(runes) {
			b.WriteRune(runes[i])
			continue
		}
		i++
		switch runes[i] {
		case 'w':
			b.WriteString(tildePath(p))
		case 'W':
			if p.Cwd.IsRoot() {
				b.WriteString("/")
			} else {
				b.WriteString(p.Cwd.Name())
			}
		case 'u':
			b.WriteString(p.Env["USER"])
		case 'h':
			b.WriteString(Hostname)
		case '$':
			b.WriteByte('$')
		case '\\':
			b.WriteByte('\\')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 'e':
			b.WriteByte(0x1b)
		default:
			b.WriteByte('\\')
			b.WriteRune(runes[i])
		}
	}
	return b.String()
}

func tildePath(p *core.Process) string {
	cwd := p.Cwd.String()
	home := p.Env["HOME"]
	if home == "" || home == "/" {
		return cwd
	}
	if cwd == home {
		return "~"
	}
	if strings.HasPrefix(cwd, home+"/") {
		return "~" + cwd[len(home):]
	}
	return cwd
}
