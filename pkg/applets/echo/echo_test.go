package echo_test

import (
	"testing"

	"github.com/rcarmo/go-vsh/pkg/applets/echo"
	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/testutil"
)

func TestEcho(t *testing.T) {
	tests := []testutil.AppletTestCase{
		{Name: "no_args", WantOut: "\n"},
		{Name: "words", Args: []string{"hello", "big", "world"}, WantOut: "hello big world\n"},
		{Name: "empty_word", Args: []string{""}, WantOut: "\n"},
		{Name: "no_newline", Args: []string{"-n", "hello"}, WantOut: "hello"},
		{Name: "grouped_flags", Args: []string{"-ne", `a\tb`}, WantOut: "a\tb"},
		{Name: "separate_flags", Args: []string{"-n", "-e", `x\ny`}, WantOut: "x\ny"},
		{Name: "escapes_off_by_default", Args: []string{`a\nb`}, WantOut: "a\\nb\n"},
		{Name: "last_flag_wins", Args: []string{"-e", "-E", `a\nb`}, WantOut: "a\\nb\n"},
		{Name: "backslash", Args: []string{"-e", `a\\b`}, WantOut: "a\\b\n"},
		{Name: "bell", Args: []string{"-e", `hi\a`}, WantOut: "hi\a\n"},
		{Name: "stop", Args: []string{"-e", `hi\cbye`}, WantOut: "hi"},
		{Name: "octal", Args: []string{"-e", `\0101\102`}, WantOut: "AB\n"},
		{Name: "hex", Args: []string{"-e", `\x41\x4a`}, WantOut: "AJ\n"},
		{Name: "unknown_escape", Args: []string{"-e", `\q`}, WantOut: "\\q\n"},
		{Name: "trailing_backslash", Args: []string{"-e", `end\`}, WantOut: "end\\\n"},
		{Name: "not_a_flag", Args: []string{"-x", "hello"}, WantOut: "-x hello\n"},
		{Name: "double_dash", Args: []string{"--", "-n"}, WantOut: "-n\n"},
		{Name: "double_dash_after_flags", Args: []string{"-n", "--", "--"}, WantOut: "--"},
		{Name: "flags_stop_at_text", Args: []string{"a", "-n"}, WantCode: core.ExitSuccess, WantOut: "a -n\n"},
	}

	testutil.RunAppletTests(t, "echo", echo.Run, tests)
}
