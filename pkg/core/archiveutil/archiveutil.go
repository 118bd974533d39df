// Package archiveutil provides shared helpers for archive applets.
package archiveutil

import (
	"io"

	"github.com/klauspost/compress/gzip"
)

const maxArchiveBytes = int64(64 << 20)

// GzipToWriter compresses data from r and writes the gzip output to w at the
// given level. Input is limited to 64 MiB.
func GzipToWriter(r io.Reader, w io.Writer, level int) error {
	zw, err := gzip.NewWriterLevel(w, level)
	if err != nil {
		return err
	}
	if _, err := io.Copy(zw, io.LimitReader(r, maxArchiveBytes)); err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}

// GunzipToWriter decompresses gzip data from r and writes it to w.
// Output is limited to 64 MiB.
func GunzipToWriter(r io.Reader, w io.Writer) error {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, io.LimitReader(zr, maxArchiveBytes)); err != nil {
		_ = zr.Close()
		return err
	}
	return zr.Close()
}

// NewGunzipReader wraps r in a gzip decompressor.
func NewGunzipReader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}
