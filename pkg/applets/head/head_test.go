package head_test

import (
	"strings"
	"testing"

	"github.com/rcarmo/go-vsh/pkg/applets/head"
	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/testutil"
)

func TestHead(t *testing.T) {
	var lines []string
	for i := 1; i <= 12; i++ {
		lines = append(lines, "line "+string(rune('a'+i-1)))
	}
	input := strings.Join(lines, "\n") + "\n"

	tests := []testutil.AppletTestCase{
		{
			Name:     "default_lines",
			Args:     []string{"head.input"},
			WantCode: core.ExitSuccess,
			WantOut:  strings.Join(lines[:10], "\n") + "\n",
			Files:    map[string]string{"head.input": input},
		},
		{
			Name:     "limit_lines",
			Args:     []string{"-n", "2", "head.input"},
			WantCode: core.ExitSuccess,
			WantOut:  "line a\nline b\n",
			Files:    map[string]string{"head.input": input},
		},
		{
			Name:     "shorthand",
			Args:     []string{"-3"},
			Input:    input,
			WantCode: core.ExitSuccess,
			WantOut:  "line a\nline b\nline c\n",
		},
		{
			Name:     "negative_lines",
			Args:     []string{"-n", "-9", "head.input"},
			WantCode: core.ExitUsage,
			WantErr:  "head:",
			Files:    map[string]string{"head.input": input},
		},
		{
			Name:     "byte_count",
			Args:     []string{"-c", "4", "bytes.txt"},
			WantCode: core.ExitSuccess,
			WantOut:  "abcd",
			Files:    map[string]string{"bytes.txt": "abcdef"},
		},
		{
			Name:     "byte_count_short_file",
			Args:     []string{"-c4"},
			Input:    "ab",
			WantCode: core.ExitSuccess,
			WantOut:  "ab",
		},
		{
			Name:     "unterminated_last_line",
			Args:     []string{"-n", "5"},
			Input:    "a\nb",
			WantCode: core.ExitSuccess,
			WantOut:  "a\nb",
		},
		{
			Name:     "multi_header",
			Args:     []string{"file1.txt", "file2.txt"},
			WantCode: core.ExitSuccess,
			WantOut:  "==> file1.txt <==\na\nb\n\n==> file2.txt <==\nc\n",
			Files:    map[string]string{"file1.txt": "a\nb\n", "file2.txt": "c\n"},
		},
		{
			Name:     "quiet_mode",
			Args:     []string{"-q", "file1.txt", "file2.txt"},
			WantCode: core.ExitSuccess,
			WantOut:  "a\nb\nc\n",
			Files:    map[string]string{"file1.txt": "a\nb\n", "file2.txt": "c\n"},
		},
		{
			Name:     "missing_file",
			Args:     []string{"/missing"},
			WantCode: core.ExitFailure,
			WantErr:  "head: /missing: No such file or directory",
		},
	}

	testutil.RunAppletTests(t, "head", head.Run, tests)
}
