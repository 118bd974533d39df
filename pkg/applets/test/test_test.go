package test_test

import (
	"testing"

	"github.com/rcarmo/go-vsh/pkg/applets/test"
	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/testutil"
)

func TestTest(t *testing.T) {
	files := map[string]string{"file": "data", "empty": "", "dir/inner": "x"}
	tests := []testutil.AppletTestCase{
		{Name: "no_args", WantCode: core.ExitFailure},
		{Name: "non_empty_string", Args: []string{"a"}, WantCode: core.ExitSuccess},
		{Name: "empty_string", Args: []string{""}, WantCode: core.ExitFailure},
		{Name: "equal", Args: []string{"a", "==", "a"}, WantCode: core.ExitSuccess},
		{Name: "single_equal", Args: []string{"a", "=", "b"}, WantCode: core.ExitFailure},
		{Name: "not_equal_fails", Args: []string{"a", "!=", "a"}, WantCode: core.ExitFailure},
		{Name: "negated_comparison", Args: []string{"!", "a", "!=", "a"}, WantCode: core.ExitSuccess},
		{Name: "negated_string", Args: []string{"!", "a"}, WantCode: core.ExitFailure},
		{Name: "zero_length", Args: []string{"-z", ""}, WantCode: core.ExitSuccess},
		{Name: "non_zero_length", Args: []string{"-n", "x"}, WantCode: core.ExitSuccess},
		{Name: "regex_match", Args: []string{"yes", "=~", "y"}, WantCode: core.ExitSuccess},
		{Name: "regex_anchored", Args: []string{"yes", "=~", "^s"}, WantCode: core.ExitFailure},
		{Name: "bad_regex", Args: []string{"a", "=~", "("}, WantCode: core.ExitUsage, WantErr: "test: (: invalid regex"},
		{Name: "integers", Args: []string{"3", "-lt", "10"}, WantCode: core.ExitSuccess},
		{Name: "integers_ge", Args: []string{"3", "-ge", "10"}, WantCode: core.ExitFailure},
		{Name: "bad_integer", Args: []string{"x", "-eq", "1"}, WantCode: core.ExitUsage, WantErr: "test: x: integer expected"},
		{Name: "file_exists", Args: []string{"-e", "file"}, Files: files, WantCode: core.ExitSuccess},
		{Name: "file_missing", Args: []string{"-e", "nope"}, Files: files, WantCode: core.ExitFailure},
		{Name: "regular_file", Args: []string{"-f", "dir"}, Files: files, WantCode: core.ExitFailure},
		{Name: "directory", Args: []string{"-d", "dir"}, Files: files, WantCode: core.ExitSuccess},
		{Name: "size_nonzero", Args: []string{"-s", "file"}, Files: files, WantCode: core.ExitSuccess},
		{Name: "size_zero", Args: []string{"-s", "empty"}, Files: files, WantCode: core.ExitFailure},
		{Name: "and", Args: []string{"a", "-a", ""}, WantCode: core.ExitFailure},
		{Name: "or", Args: []string{"", "-o", "b"}, WantCode: core.ExitSuccess},
		{Name: "bad_operator", Args: []string{"a", "-x", "b"}, WantCode: core.ExitUsage, WantErr: "binary operator expected"},
		{Name: "bad_unary", Args: []string{"-q", "b"}, WantCode: core.ExitUsage, WantErr: "unary operator expected"},
	}

	testutil.RunAppletTests(t, "test", test.Run, tests)
}

func TestBracket(t *testing.T) {
	tests := []testutil.AppletTestCase{
		{Name: "closed", Args: []string{"a", "==", "a", "]"}, WantCode: core.ExitSuccess},
		{Name: "closed_false", Args: []string{"a", "==", "b", "]"}, WantCode: core.ExitFailure},
		{Name: "unclosed", Args: []string{"a", "==", "a"}, WantCode: core.ExitUsage, WantErr: "[: missing ]"},
		{Name: "empty", Args: []string{"]"}, WantCode: core.ExitFailure},
	}

	testutil.RunAppletTests(t, "[", test.Run, tests)
}
