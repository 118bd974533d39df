package rmdir_test

import (
	"testing"

	"github.com/rcarmo/go-vsh/pkg/applets/rmdir"
	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/testutil"
	"github.com/rcarmo/go-vsh/pkg/vfs"
)

func mkdirs(names ...string) func(t *testing.T, dir vfs.Path) {
	return func(t *testing.T, dir vfs.Path) {
		for _, name := range names {
			if err := dir.Join(name).CreateDirAll(); err != nil {
				t.Fatal(err)
			}
		}
	}
}

func TestRmdir(t *testing.T) {
	tests := []testutil.AppletTestCase{
		{
			Name:     "remove_empty",
			Args:     []string{"empty"},
			WantCode: core.ExitSuccess,
			Setup:    mkdirs("empty"),
			Check: func(t *testing.T, dir vfs.Path) {
				testutil.AssertFileNotExists(t, dir.Join("empty"))
			},
		},
		{
			Name:     "remove_missing",
			Args:     []string{"missing"},
			WantCode: core.ExitFailure,
			WantErr:  "rmdir: failed to remove 'missing': No such file or directory",
		},
		{
			Name:     "verbose",
			Args:     []string{"-v", "empty"},
			WantCode: core.ExitSuccess,
			WantOut:  "rmdir: removing directory, 'empty'\n",
			Setup:    mkdirs("empty"),
		},
		{
			Name:     "parents",
			Args:     []string{"-p", "a/b/c"},
			WantCode: core.ExitSuccess,
			Setup:    mkdirs("a/b/c"),
			Check: func(t *testing.T, dir vfs.Path) {
				testutil.AssertFileNotExists(t, dir.Join("a"))
			},
		},
		{
			Name:     "not_empty",
			Args:     []string{"full"},
			WantCode: core.ExitFailure,
			Files:    map[string]string{"full/file": "x"},
			WantErr:  "Directory not empty",
			Check: func(t *testing.T, dir vfs.Path) {
				testutil.AssertFileExists(t, dir.Join("full/file"))
			},
		},
		{
			Name:     "not_a_directory",
			Args:     []string{"file"},
			WantCode: core.ExitFailure,
			Files:    map[string]string{"file": "x"},
			WantErr:  "Not a directory",
		},
		{
			Name:     "missing_operand",
			WantCode: core.ExitUsage,
			WantErr:  "rmdir: missing operand",
		},
	}

	testutil.RunAppletTests(t, "rmdir", rmdir.Run, tests)
}
