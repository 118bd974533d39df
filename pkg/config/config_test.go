package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcarmo/go-vsh/pkg/config"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vsh.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := config.Load("", env(nil))
	require.NoError(t, err)
	assert.Equal(t, "/bin", cfg.Shell.Path)
	assert.Equal(t, "/home/user", cfg.Shell.Home)
	assert.Equal(t, "user", cfg.Shell.User)
	assert.Equal(t, `\w $ `, cfg.Shell.PS1)
	assert.Equal(t, "/etc/.sh_history", cfg.Shell.HistoryFile)
	assert.Empty(t, cfg.Log.Output)
	assert.Empty(t, cfg.Metrics.Addr)
	assert.Empty(t, cfg.Rootfs.Archive)
}

func TestFileThenEnvironment(t *testing.T) {
	path := writeConfig(t, `
[shell]
user = "alice"
ps1 = "> "

[log]
level = "debug"
output = "stderr"

[metrics]
addr = "127.0.0.1:9100"
`)
	cfg, err := config.Load(path, env(map[string]string{
		"VSH_USER":           "bob",
		"VSH_ROOTFS_ARCHIVE": "/srv/image.tar.gz",
	}))
	require.NoError(t, err)

	assert.Equal(t, "bob", cfg.Shell.User)
	assert.Equal(t, "> ", cfg.Shell.PS1)
	assert.Equal(t, "/bin", cfg.Shell.Path)
	assert.Equal(t, "/srv/image.tar.gz", cfg.Rootfs.Archive)
	assert.Equal(t, "127.0.0.1:9100", cfg.Metrics.Addr)

	lc := cfg.Logging()
	assert.Equal(t, "debug", lc.Level)
	assert.Equal(t, "stderr", lc.OutputPath)
}

func TestUnknownKey(t *testing.T) {
	path := writeConfig(t, "[shell]\nshell = \"zsh\"\n")
	_, err := config.Load(path, env(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown key")
}

func TestMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"), env(nil))
	assert.Error(t, err)
}

func TestEnviron(t *testing.T) {
	cfg := config.Default()
	got := cfg.Environ()
	assert.Equal(t, map[string]string{
		"PATH": "/bin",
		"HOME": "/home/user",
		"USER": "user",
		"PS1":  `\w $ `,
		"PWD":  "/home/user",
	}, got)
}
