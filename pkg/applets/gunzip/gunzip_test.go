package gunzip_test

import (
	"bytes"
	"testing"

	kgzip "github.com/klauspost/compress/gzip"

	"github.com/rcarmo/go-vsh/pkg/applets/gunzip"
	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/testutil"
	"github.com/rcarmo/go-vsh/pkg/vfs"
)

func TestGunzip(t *testing.T) {
	var buf bytes.Buffer
	zw := kgzip.NewWriter(&buf)
	_, _ = zw.Write([]byte("hello\n"))
	_ = zw.Close()
	archive := buf.String()

	tests := []testutil.AppletTestCase{
		{
			Name:     "basic",
			Args:     []string{"input.txt.gz"},
			WantCode: core.ExitSuccess,
			Files:    map[string]string{"input.txt.gz": archive},
			Check: func(t *testing.T, dir vfs.Path) {
				testutil.AssertFileContent(t, dir.Join("input.txt"), "hello\n")
				testutil.AssertFileNotExists(t, dir.Join("input.txt.gz"))
			},
		},
		{
			Name:     "keep",
			Args:     []string{"-k", "input.txt.gz"},
			WantCode: core.ExitSuccess,
			Files:    map[string]string{"input.txt.gz": archive},
			Check: func(t *testing.T, dir vfs.Path) {
				testutil.AssertFileExists(t, dir.Join("input.txt.gz"))
			},
		},
		{
			Name:     "tgz",
			Args:     []string{"bundle.tgz"},
			WantCode: core.ExitSuccess,
			Files:    map[string]string{"bundle.tgz": archive},
			Check: func(t *testing.T, dir vfs.Path) {
				testutil.AssertFileContent(t, dir.Join("bundle.tar"), "hello\n")
			},
		},
		{
			Name:     "stdout",
			Args:     []string{"-c", "input.txt.gz"},
			WantCode: core.ExitSuccess,
			Files:    map[string]string{"input.txt.gz": archive},
			WantOut:  "hello\n",
		},
		{
			Name:     "stdin",
			Input:    archive,
			WantCode: core.ExitSuccess,
			WantOut:  "hello\n",
		},
		{
			Name:     "unknown_suffix",
			Args:     []string{"plain"},
			WantCode: core.ExitFailure,
			Files:    map[string]string{"plain": archive},
			WantErr:  "gunzip: plain: unknown suffix -- ignored",
		},
		{
			Name:     "corrupt",
			Args:     []string{"bad.gz"},
			WantCode: core.ExitFailure,
			Files:    map[string]string{"bad.gz": "not gzip at all"},
			WantErr:  "gunzip: bad.gz:",
			Check: func(t *testing.T, dir vfs.Path) {
				testutil.AssertFileNotExists(t, dir.Join("bad"))
				testutil.AssertFileExists(t, dir.Join("bad.gz"))
			},
		},
	}
	testutil.RunAppletTests(t, "gunzip", gunzip.Run, tests)
}
