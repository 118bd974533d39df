package wc_test

import (
	"testing"

	"github.com/rcarmo/go-vsh/pkg/applets/wc"
	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/testutil"
)

func TestWc(t *testing.T) {
	ab := map[string]string{"in": "a b\n"}

	tests := []testutil.AppletTestCase{
		{Name: "all_columns_labelled", Args: []string{"in"}, Files: ab, WantOut: "        1         2         4 in\n"},
		{Name: "all_columns_stdin", Input: "a b\n", WantOut: "        1         2         4\n"},
		{Name: "single_column_unpadded", Args: []string{"-c", "in"}, Files: ab, WantOut: "4 in\n"},
		{Name: "grouped_flags", Args: []string{"-lw"}, Input: "one two\nthree\n", WantOut: "        2         3\n"},
		{Name: "chars_differ_from_bytes", Args: []string{"-mc"}, Input: "hé\n", WantOut: "        3         4\n"},
		{Name: "tabs_separate_words", Args: []string{"-w"}, Input: "a\tb  c\n\nd", WantOut: "4\n"},
		{Name: "unterminated_line", Args: []string{"-l"}, Input: "no newline", WantOut: "0\n"},
		{Name: "empty_input", Args: []string{"-l"}, Input: "", WantOut: "0\n"},
		{
			Name:    "total_row",
			Args:    []string{"-l", "a", "b"},
			Files:   map[string]string{"a": "x\n", "b": "y\nz\n"},
			WantOut: "1 a\n2 b\n3 total\n",
		},
		{
			Name:     "missing_file_still_totals",
			Args:     []string{"-l", "a", "nope"},
			Files:    map[string]string{"a": "x\n"},
			WantCode: core.ExitFailure,
			WantOut:  "1 a\n1 total\n",
			WantErr:  "wc: nope: No such file or directory",
		},
		{Name: "bad_option", Args: []string{"-z"}, WantCode: core.ExitUsage, WantErr: "invalid option -- 'z'"},
	}

	testutil.RunAppletTests(t, "wc", wc.Run, tests)
}
