package which_test

import (
	"testing"

	"github.com/rcarmo/go-vsh/pkg/applets/which"
	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/testutil"
	"github.com/rcarmo/go-vsh/pkg/vfs"
)

func installBins(t *testing.T, dir vfs.Path) {
	for _, name := range []string{"/bin/ls", "/bin/cat"} {
		if err := dir.Join(name).WriteFile(nil); err != nil {
			t.Fatal(err)
		}
	}
}

func TestWhich(t *testing.T) {
	tests := []testutil.AppletTestCase{
		{
			Name:     "found",
			Args:     []string{"ls"},
			Setup:    installBins,
			WantCode: core.ExitSuccess,
			WantOut:  "/bin/ls\n",
		},
		{
			Name:     "several",
			Args:     []string{"cat", "ls"},
			Setup:    installBins,
			WantCode: core.ExitSuccess,
			WantOut:  "/bin/cat\n/bin/ls\n",
		},
		{
			Name:     "missing",
			Args:     []string{"nope", "ls"},
			Setup:    installBins,
			WantCode: core.ExitFailure,
			WantOut:  "/bin/ls\n",
		},
		{
			Name:     "explicit_path",
			Args:     []string{"./script"},
			Files:    map[string]string{"script": "echo hi\n"},
			WantCode: core.ExitSuccess,
			WantOut:  "./script\n",
		},
		{
			Name:     "directory_is_not_a_command",
			Args:     []string{"sub"},
			Setup: func(t *testing.T, dir vfs.Path) {
				if err := dir.Join("/bin/sub").CreateDir(); err != nil {
					t.Fatal(err)
				}
			},
			WantCode: core.ExitFailure,
		},
		{
			Name:     "missing_operand",
			WantCode: core.ExitUsage,
			WantErr:  "which: missing command operand",
		},
	}

	testutil.RunAppletTests(t, "which", which.Run, tests)
}
