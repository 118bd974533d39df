// Package programs assembles the default multi-call program table.
package programs

import (
	"github.com/rcarmo/go-vsh/pkg/applets/awk"
	"github.com/rcarmo/go-vsh/pkg/applets/cat"
	"github.com/rcarmo/go-vsh/pkg/applets/clear"
	"github.com/rcarmo/go-vsh/pkg/applets/cp"
	"github.com/rcarmo/go-vsh/pkg/applets/cut"
	"github.com/rcarmo/go-vsh/pkg/applets/echo"
	"github.com/rcarmo/go-vsh/pkg/applets/grep"
	"github.com/rcarmo/go-vsh/pkg/applets/gunzip"
	"github.com/rcarmo/go-vsh/pkg/applets/gzip"
	"github.com/rcarmo/go-vsh/pkg/applets/head"
	"github.com/rcarmo/go-vsh/pkg/applets/ls"
	"github.com/rcarmo/go-vsh/pkg/applets/mkdir"
	"github.com/rcarmo/go-vsh/pkg/applets/mv"
	"github.com/rcarmo/go-vsh/pkg/applets/pwd"
	"github.com/rcarmo/go-vsh/pkg/applets/rev"
	"github.com/rcarmo/go-vsh/pkg/applets/rm"
	"github.com/rcarmo/go-vsh/pkg/applets/rmdir"
	"github.com/rcarmo/go-vsh/pkg/applets/sleep"
	"github.com/rcarmo/go-vsh/pkg/applets/sort"
	"github.com/rcarmo/go-vsh/pkg/applets/sponge"
	"github.com/rcarmo/go-vsh/pkg/applets/tail"
	"github.com/rcarmo/go-vsh/pkg/applets/tee"
	"github.com/rcarmo/go-vsh/pkg/applets/test"
	"github.com/rcarmo/go-vsh/pkg/applets/touch"
	"github.com/rcarmo/go-vsh/pkg/applets/tr"
	"github.com/rcarmo/go-vsh/pkg/applets/uniq"
	"github.com/rcarmo/go-vsh/pkg/applets/wc"
	"github.com/rcarmo/go-vsh/pkg/applets/which"
	"github.com/rcarmo/go-vsh/pkg/applets/whoami"
	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/shell"
)

var applets = map[string]core.Program{
	"awk":    awk.Run,
	"cat":    cat.Run,
	"clear":  clear.Run,
	"cp":     cp.Run,
	"cut":    cut.Run,
	"echo":   echo.Run,
	"grep":   grep.Run,
	"gunzip": gunzip.Run,
	"gzip":   gzip.Run,
	"head":   head.Run,
	"ls":     ls.Run,
	"mkdir":  mkdir.Run,
	"mv":     mv.Run,
	"pwd":    pwd.Run,
	"rev":    rev.Run,
	"rm":     rm.Run,
	"rmdir":  rmdir.Run,
	"sleep":  sleep.Run,
	"sort":   sort.Run,
	"sponge": sponge.Run,
	"tail":   tail.Run,
	"tee":    tee.Run,
	"test":   test.Run,
	"[":      test.Run,
	"touch":  touch.Run,
	"tr":     tr.Run,
	"uniq":   uniq.Run,
	"wc":     wc.Run,
	"which":  which.Run,
	"whoami": whoami.Run,
}

// New returns a registry holding every applet plus sh, which runs on a
// shell built with opts over the same registry.
func New(opts ...shell.Option) (core.Registry, *shell.Shell) {
	reg := make(core.Registry, len(applets)+1)
	for name, run := range applets {
		reg[name] = run
	}
	sh := shell.New(reg, opts...)
	reg["sh"] = sh.Main
	return reg, sh
}
