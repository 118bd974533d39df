// Package config loads session configuration from an optional TOML file and
// VSH_* environment overrides.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/rcarmo/go-vsh/pkg/logging"
)

// Config holds everything cmd/vsh needs to start a session.
type Config struct {
	Shell   Shell   `toml:"shell"`
	Rootfs  Rootfs  `toml:"rootfs"`
	Log     Log     `toml:"log"`
	Metrics Metrics `toml:"metrics"`
}

// Shell seeds the session environment.
type Shell struct {
	Path        string `toml:"path"`
	Home        string `toml:"home"`
	User        string `toml:"user"`
	PS1         string `toml:"ps1"`
	HistoryFile string `toml:"history_file"`
}

// Rootfs names an optional gzipped tar image on the host, unpacked over the
// built-in skeleton.
type Rootfs struct {
	Archive string `toml:"archive"`
}

// Log mirrors logging.Config.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

// Metrics configures the optional Prometheus endpoint; an empty address
// disables it.
type Metrics struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Shell: Shell{
			Path:        "/bin",
			Home:        "/home/user",
			User:        "user",
			PS1:         `\w $ `,
			HistoryFile: "/etc/.sh_history",
		},
		Log: Log{Level: "info", Format: "json"},
	}
}

// Load reads path (skipped when empty) over the defaults, then applies
// environment overrides from getenv. A nil getenv means os.Getenv.
func Load(path string, getenv func(string) string) (*Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("config %s: unknown key %s", path, undecoded[0])
		}
	}

	envOverride(getenv, "VSH_PATH", &cfg.Shell.Path)
	envOverride(getenv, "VSH_HOME", &cfg.Shell.Home)
	envOverride(getenv, "VSH_USER", &cfg.Shell.User)
	envOverride(getenv, "VSH_PS1", &cfg.Shell.PS1)
	envOverride(getenv, "VSH_HISTORY_FILE", &cfg.Shell.HistoryFile)
	envOverride(getenv, "VSH_ROOTFS_ARCHIVE", &cfg.Rootfs.Archive)
	envOverride(getenv, "VSH_LOG_LEVEL", &cfg.Log.Level)
	envOverride(getenv, "VSH_LOG_FORMAT", &cfg.Log.Format)
	envOverride(getenv, "VSH_LOG_OUTPUT", &cfg.Log.Output)
	envOverride(getenv, "VSH_METRICS_ADDR", &cfg.Metrics.Addr)
	return cfg, nil
}

// Logging returns the logging configuration.
func (c *Config) Logging() logging.Config {
	return logging.Config{Level: c.Log.Level, Format: c.Log.Format, OutputPath: c.Log.Output}
}

// Environ returns the initial process environment.
func (c *Config) Environ() map[string]string {
	return map[string]string{
		"PATH": c.Shell.Path,
		"HOME": c.Shell.Home,
		"USER": c.Shell.User,
		"PS1":  c.Shell.PS1,
		"PWD":  c.Shell.Home,
	}
}

func envOverride(getenv func(string) string, key string, dst *string) {
	if v := getenv(key); v != "" {
		*dst = v
	}
}
