package programs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/programs"
	"github.com/rcarmo/go-vsh/pkg/testutil"
)

func TestRegistryNames(t *testing.T) {
	reg, sh := programs.New()
	require.NotNil(t, sh)
	for _, name := range []string{
		"echo", "cat", "tee", "test", "[", "grep", "head", "tail", "wc", "sort",
		"uniq", "tr", "cut", "ls", "mkdir", "rmdir", "rm", "touch", "cp", "mv",
		"pwd", "whoami", "which", "sleep", "awk", "gzip", "gunzip", "clear", "rev", "sponge", "sh",
	} {
		assert.Contains(t, reg, name)
	}
	assert.NotContains(t, reg.Names(), "")
}

func TestShellUsesRegistry(t *testing.T) {
	reg, _ := programs.New()
	root := testutil.NewRoot(t, nil)
	for _, name := range reg.Names() {
		require.NoError(t, root.Path.Join("/bin").Join(name).WriteFile(nil))
	}

	c := testutil.CaptureProcess(root, "", "sh", "-c", "echo a b | wc -w")
	code, err := reg["sh"](c.Process)
	out, _ := c.Finish()
	require.NoError(t, err)
	assert.Equal(t, core.ExitSuccess, code)
	assert.Equal(t, "2\n", out)
}
