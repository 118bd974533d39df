package ls_test

import (
	"testing"

	"github.com/rcarmo/go-vsh/pkg/applets/ls"
	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/testutil"
)

func TestLs(t *testing.T) {
	tests := []testutil.AppletTestCase{
		{
			Name:     "basic_listing",
			WantCode: core.ExitSuccess,
			Files:    map[string]string{"file2.txt": "b", "file1.txt": "a"},
			WantOut:  "file1.txt\nfile2.txt\n",
		},
		{
			Name:     "hidden_excluded",
			Args:     []string{"."},
			WantCode: core.ExitSuccess,
			Files:    map[string]string{".hidden": "", "visible": ""},
			WantOut:  "visible\n",
		},
		{
			Name:     "hidden_included",
			Args:     []string{"-a"},
			WantCode: core.ExitSuccess,
			Files:    map[string]string{".hidden": "", "visible": ""},
			WantOut:  ".\n..\n.hidden\nvisible\n",
		},
		{
			Name:     "almost_all",
			Args:     []string{"-A"},
			WantCode: core.ExitSuccess,
			Files:    map[string]string{".hidden": "", "visible": ""},
			WantOut:  ".hidden\nvisible\n",
		},
		{
			Name:       "long_format",
			Args:       []string{"-l"},
			WantCode:   core.ExitSuccess,
			Files:      map[string]string{"test.txt": "content"},
			WantOutSub: "-rw-r--r--  1 user     user            7 ",
		},
		{
			Name:       "long_format_dir",
			Args:       []string{"-l"},
			WantCode:   core.ExitSuccess,
			Files:      map[string]string{"sub/x": ""},
			WantOutSub: "drwxr-xr-x  1 user     user ",
		},
		{
			Name:     "reverse_and_classify",
			Args:     []string{"-rF"},
			WantCode: core.ExitSuccess,
			Files:    map[string]string{"a.txt": "", "b/x": ""},
			WantOut:  "b/\na.txt\n",
		},
		{
			Name:     "sort_by_size",
			Args:     []string{"-S"},
			WantCode: core.ExitSuccess,
			Files:    map[string]string{"small": "1", "big": "12345"},
			WantOut:  "big\nsmall\n",
		},
		{
			Name:     "file_operand",
			Args:     []string{"a.txt"},
			WantCode: core.ExitSuccess,
			Files:    map[string]string{"a.txt": ""},
			WantOut:  "a.txt\n",
		},
		{
			Name:     "multiple_dirs",
			Args:     []string{"one", "two"},
			WantCode: core.ExitSuccess,
			Files:    map[string]string{"one/a": "", "two/b": ""},
			WantOut:  "one:\na\n\ntwo:\nb\n",
		},
		{
			Name:     "recursive",
			Args:     []string{"-R", "top"},
			WantCode: core.ExitSuccess,
			Files:    map[string]string{"top/a": "", "top/sub/b": ""},
			WantOut:  "top:\na\nsub\n\ntop/sub:\nb\n",
		},
		{
			Name:     "directory_itself",
			Args:     []string{"-d", "top"},
			WantCode: core.ExitSuccess,
			Files:    map[string]string{"top/a": ""},
			WantOut:  "top\n",
		},
		{
			Name:     "missing_path",
			Args:     []string{"/nonexistent/path"},
			WantCode: core.ExitFailure,
			WantErr:  "ls: cannot access '/nonexistent/path': No such file or directory",
		},
	}

	testutil.RunAppletTests(t, "ls", ls.Run, tests)
}
