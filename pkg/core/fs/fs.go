// Package fs provides filesystem operations relative to a process's working
// directory. Applets should use this package instead of touching vfs paths
// directly.
package fs

import (
	"errors"
	"io"

	"github.com/rcarmo/go-vsh/pkg/core"
	"github.com/rcarmo/go-vsh/pkg/vfs"
)

// Open opens a file for reading.
func Open(p *core.Process, name string) (io.ReadCloser, error) {
	return p.Path(name).Open()
}

// OpenInput opens name for reading, with "-" meaning stdin. Closing the
// result never shuts stdin down.
func OpenInput(p *core.Process, name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(p.Stdin), nil
	}
	return Open(p, name)
}

// Create creates or truncates a file for writing.
func Create(p *core.Process, name string) (io.WriteCloser, error) {
	return p.Path(name).Create()
}

// Append opens a file for appending, creating it when missing.
func Append(p *core.Process, name string) (io.WriteCloser, error) {
	return p.Path(name).Append()
}

// ReadFile reads an entire file.
func ReadFile(p *core.Process, name string) ([]byte, error) {
	return p.Path(name).ReadFile()
}

// WriteFile replaces a file's contents.
func WriteFile(p *core.Process, name string, data []byte) error {
	return p.Path(name).WriteFile(data)
}

// Stat returns file metadata.
func Stat(p *core.Process, name string) (vfs.Metadata, error) {
	return p.Path(name).Metadata()
}

// IsDir reports whether name is an existing directory.
func IsDir(p *core.Process, name string) bool {
	ok, err := p.Path(name).IsDir()
	return err == nil && ok
}

// Exists reports whether anything lives at name.
func Exists(p *core.Process, name string) bool {
	ok, err := p.Path(name).Exists()
	return err == nil && ok
}

// ReadDir lists a directory in name order.
func ReadDir(p *core.Process, name string) ([]vfs.Path, error) {
	return p.Path(name).ReadDir()
}

// Mkdir creates a directory.
func Mkdir(p *core.Process, name string) error {
	return p.Path(name).CreateDir()
}

// MkdirAll creates a directory and parents.
func MkdirAll(p *core.Process, name string) error {
	return p.Path(name).CreateDirAll()
}

// Remove removes a file or empty directory.
func Remove(p *core.Process, name string) error {
	path := p.Path(name)
	md, err := path.Metadata()
	if err != nil {
		return err
	}
	if md.IsDir() {
		return path.RemoveDir()
	}
	return path.RemoveFile()
}

// Rmdir removes an empty directory.
func Rmdir(p *core.Process, name string) error {
	return p.Path(name).RemoveDir()
}

// RemoveAll removes a path recursively.
func RemoveAll(p *core.Process, name string) error {
	return p.Path(name).RemoveAll()
}

// Rename moves a file or directory tree. The VFS has no rename primitive,
// so this copies and then removes the source.
func Rename(p *core.Process, oldname, newname string) error {
	src := p.Path(oldname)
	md, err := src.Metadata()
	if err != nil {
		return err
	}
	if md.IsDir() {
		if err := CopyDir(p, oldname, newname); err != nil {
			return err
		}
		return src.RemoveAll()
	}
	if err := CopyFile(p, oldname, newname); err != nil {
		return err
	}
	return src.RemoveFile()
}

// CopyFile copies a regular file.
func CopyFile(p *core.Process, src, dst string) error {
	in, err := Open(p, src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := Create(p, dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// CopyDir copies a directory recursively.
func CopyDir(p *core.Process, src, dst string) error {
	srcPath, dstPath := p.Path(src), p.Path(dst)
	if isAncestor(srcPath.String(), dstPath.String()) {
		return errCopyIntoSelf
	}
	if err := dstPath.CreateDirAll(); err != nil {
		return err
	}

	entries, err := srcPath.ReadDir()
	if err != nil {
		return err
	}

	for _, entry := range entries {
		target := dstPath.Join(entry.Name()).String()
		dir, err := entry.IsDir()
		if err != nil {
			return err
		}
		if dir {
			if err := CopyDir(p, entry.String(), target); err != nil {
				return err
			}
		} else {
			if err := CopyFile(p, entry.String(), target); err != nil {
				return err
			}
		}
	}

	return nil
}

var errCopyIntoSelf = errors.New("cannot copy a directory into itself")

func isAncestor(dir, path string) bool {
	if dir == path {
		return true
	}
	if dir == "/" {
		return true
	}
	return len(path) > len(dir) && path[:len(dir)] == dir && path[len(dir)] == '/'
}

// TargetPath returns the final target for a source and destination, placing
// the source inside dest when dest is a directory.
func TargetPath(p *core.Process, src, dest string) string {
	if IsDir(p, dest) {
		return p.Path(dest).Join(p.Path(src).Name()).String()
	}
	return dest
}
