// Command vsh runs an interactive shell over an in-memory filesystem on the
// host terminal.
package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rcarmo/go-vsh/pkg/config"
	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/logging"
	"github.com/rcarmo/go-vsh/pkg/metrics"
	"github.com/rcarmo/go-vsh/pkg/programs"
	"github.com/rcarmo/go-vsh/pkg/rootfs"
	"github.com/rcarmo/go-vsh/pkg/shell"
	"github.com/rcarmo/go-vsh/pkg/vfs"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to a TOML configuration file")
	command := flag.String("c", "", "run COMMAND and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vsh: %v\n", err)
		return int(core.ExitUsage)
	}
	if err := logging.Init(cfg.Logging()); err != nil {
		fmt.Fprintf(os.Stderr, "vsh: logging: %v\n", err)
		return int(core.ExitFailure)
	}
	defer func() { _ = logging.Sync() }()
	log := logging.Named("vsh")

	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)
	if cfg.Metrics.Addr != "" {
		serveMetrics(cfg.Metrics.Addr, promReg, log)
	}

	reg, _ := programs.New(
		shell.WithMetrics(m),
		shell.WithLogger(logging.Named("shell")),
		shell.WithHistoryFile(cfg.Shell.HistoryFile),
	)
	root, err := buildRoot(cfg, reg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vsh: rootfs: %v\n", err)
		return int(core.ExitFailure)
	}

	args := []string{"sh", "-s", "/etc/profile"}
	if *command != "" {
		args = []string{"sh", "-c", *command}
	}

	interrupts := core.NewInterrupts(func(n int) {
		log.Debug("interrupt", zap.Int("statements", n))
	})
	host := openHost(interrupts, log)
	defer host.restore()

	env := cfg.Environ()
	host.exportSize(env)
	p := &core.Process{
		Stdin:      host.in,
		Stdout:     host.out,
		Stderr:     host.out,
		Env:        env,
		Cwd:        root.Path.Join(cfg.Shell.Home),
		Args:       args,
		Interrupts: interrupts,
	}

	var g errgroup.Group
	g.Go(host.run)
	code, runErr := reg["sh"](p)
	if runErr != nil {
		log.Error("session ended with error", zap.Error(runErr))
	}
	_ = host.in.Shutdown()
	_ = host.out.Shutdown()
	if err := g.Wait(); err != nil {
		log.Error("terminal backend", zap.Error(err))
	}
	return int(code)
}

func buildRoot(cfg *config.Config, reg core.Registry) (*vfs.Root, error) {
	if cfg.Rootfs.Archive == "" {
		return rootfs.New(nil, reg)
	}
	f, err := os.Open(cfg.Rootfs.Archive)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return rootfs.New(f, reg)
}

func serveMetrics(addr string, gatherer prometheus.Gatherer, log *zap.Logger) {
	srv := &http.Server{Addr: addr, Handler: metrics.Handler(gatherer)}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("metrics endpoint stopped", zap.String("addr", addr), zap.Error(err))
		}
	}()
}
