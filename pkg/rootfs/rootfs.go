// Package rootfs populates the virtual filesystem a session starts from.
package rootfs

import (
	"archive/tar"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/core/archiveutil"
	"github.com/rcarmo/go-vsh/pkg/vfs"
)

const maxArchiveBytes = int64(64 << 20)

// keepFile marks otherwise empty skeleton directories and is not copied.
const keepFile = ".keep"

var (
	errArchiveTooLarge = errors.New("archive too large")
	errInvalidEntry    = errors.New("invalid entry size")
)

//go:embed all:skel
var skel embed.FS

// Skeleton returns the built-in directory tree.
func Skeleton() fs.FS {
	sub, err := fs.Sub(skel, "skel")
	if err != nil {
		panic(err)
	}
	return sub
}

// New builds a root holding the skeleton, then the optional gzipped tar
// image, then an entry under /bin for every program in reg.
func New(image io.Reader, reg core.Registry) (*vfs.Root, error) {
	root := vfs.NewRoot()
	if err := Populate(root.Path, Skeleton()); err != nil {
		return nil, fmt.Errorf("skeleton: %w", err)
	}
	if image != nil {
		if err := PopulateArchive(root.Path, image); err != nil {
			return nil, fmt.Errorf("image: %w", err)
		}
	}
	if err := InstallPrograms(root.Path, reg); err != nil {
		return nil, fmt.Errorf("install: %w", err)
	}
	return root, nil
}

// Populate copies src into dst, creating directories as needed and
// overwriting files that already exist.
func Populate(dst vfs.Path, src fs.FS) error {
	return fs.WalkDir(src, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := dst.Join(name)
		if d.IsDir() {
			return target.CreateDirAll()
		}
		if d.Name() == keepFile {
			return nil
		}
		data, err := fs.ReadFile(src, name)
		if err != nil {
			return err
		}
		return target.WriteFile(data)
	})
}

// PopulateArchive unpacks a gzipped tar stream into dst. Entry names are
// confined to dst; anything other than files and directories is skipped.
func PopulateArchive(dst vfs.Path, r io.Reader) error {
	zr, err := archiveutil.NewGunzipReader(r)
	if err != nil {
		return err
	}
	defer zr.Close()

	tr := tar.NewReader(zr)
	var totalBytes int64
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if hdr.Size < 0 {
			return errInvalidEntry
		}
		totalBytes += hdr.Size
		if totalBytes > maxArchiveBytes {
			return errArchiveTooLarge
		}

		name := strings.TrimPrefix(path.Clean("/"+hdr.Name), "/")
		if name == "" {
			continue
		}
		target := dst.Join(name)
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := target.CreateDirAll(); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := target.Parent().CreateDirAll(); err != nil {
				return err
			}
			out, err := target.Create()
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, io.LimitReader(tr, hdr.Size)); err != nil {
				_ = out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
		}
	}
}

// InstallPrograms creates an empty /bin/<name> entry for every program so
// PATH lookup finds it.
func InstallPrograms(dst vfs.Path, reg core.Registry) error {
	bin := dst.Join("/bin")
	if err := bin.CreateDirAll(); err != nil {
		return err
	}
	for _, name := range reg.Names() {
		if err := bin.Join(name).WriteFile(nil); err != nil {
			return err
		}
	}
	return nil
}
