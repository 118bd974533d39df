package sort_test

import (
	"testing"

	"github.com/rcarmo/go-vsh/pkg/applets/sort"
	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/testutil"
	"github.com/rcarmo/go-vsh/pkg/vfs"
)

func TestSort(t *testing.T) {
	tests := []testutil.AppletTestCase{
		{
			Name:     "default",
			Args:     []string{"input.txt"},
			WantCode: core.ExitSuccess,
			WantOut:  "10\n2\na\nc\n",
			Files: map[string]string{
				"input.txt": "c\na\n10\n2\n",
			},
		},
		{
			Name:     "numeric",
			Args:     []string{"-n", "input.txt"},
			WantCode: core.ExitSuccess,
			WantOut:  "a\nc\n2\n10\n",
			Files: map[string]string{
				"input.txt": "c\na\n10\n2\n",
			},
		},
		{
			Name:     "reverse",
			Args:     []string{"-r", "input.txt"},
			WantCode: core.ExitSuccess,
			WantOut:  "c\na\n2\n10\n",
			Files: map[string]string{
				"input.txt": "c\na\n10\n2\n",
			},
		},
		{
			Name:     "unique",
			Args:     []string{"-u", "input.txt"},
			WantCode: core.ExitSuccess,
			WantOut:  "10\n2\na\n",
			Files: map[string]string{
				"input.txt": "a\na\n2\n10\n",
			},
		},
		{
			Name:     "ignore_case",
			Args:     []string{"-f", "input.txt"},
			WantCode: core.ExitSuccess,
			WantOut:  "a\nA\n",
			Files: map[string]string{
				"input.txt": "a\nA\n",
			},
		},
		{
			Name:     "key_field",
			Args:     []string{"-k", "2", "input.txt"},
			WantCode: core.ExitSuccess,
			WantOut:  "b 1\na 2\n",
			Files: map[string]string{
				"input.txt": "a 2\nb 1\n",
			},
		},
		{
			Name:     "separator_key",
			Args:     []string{"-t", ":", "-k", "2", "input.txt"},
			WantCode: core.ExitSuccess,
			WantOut:  "b:1\na:2\n",
			Files: map[string]string{
				"input.txt": "a:2\nb:1\n",
			},
		},
		{
			Name:     "stdin_numeric_reverse",
			Args:     []string{"-rn"},
			Input:    "3\n20\n1\n",
			WantCode: core.ExitSuccess,
			WantOut:  "20\n3\n1\n",
		},
		{
			Name:     "output_file",
			Args:     []string{"-o", "out.txt", "input.txt"},
			WantCode: core.ExitSuccess,
			WantOut:  "",
			Files:    map[string]string{"input.txt": "b\na\n"},
			Check: func(t *testing.T, dir vfs.Path) {
				testutil.AssertFileContent(t, dir.Join("out.txt"), "a\nb\n")
			},
		},
		{
			Name:     "missing_file",
			Args:     []string{"nope"},
			WantCode: core.ExitFailure,
			WantErr:  "sort: nope: No such file or directory",
		},
		{
			Name:     "reverse_unique_numeric",
			Args:     []string{"-rnu"},
			Input:    "2\n10\n2\nx\n",
			WantCode: core.ExitSuccess,
			WantOut:  "10\n2\nx\n",
		},
		{
			Name:     "key_with_char_offset",
			Args:     []string{"-k", "1,2"},
			Input:    "xb\nya\n",
			WantCode: core.ExitSuccess,
			WantOut:  "ya\nxb\n",
		},
		{
			Name:     "bad_separator",
			Args:     []string{"-t", "ab"},
			WantCode: core.ExitUsage,
			WantErr:  "invalid separator",
		},
		{
			Name:     "missing_argument",
			Args:     []string{"-k"},
			WantCode: core.ExitUsage,
			WantErr:  "sort: missing argument",
		},
	}

	testutil.RunAppletTests(t, "sort", sort.Run, tests)
}
