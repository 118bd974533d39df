package vfs

import (
	"io"
	"sort"
	"strings"
)

// Path is a normalized absolute location inside a FileSystem. The zero value
// is not usable; start from NewPath or NewRoot.
type Path struct {
	fs   FileSystem
	path string
}

// NewPath returns the root path of fsys.
func NewPath(fsys FileSystem) Path {
	return Path{fs: fsys, path: "/"}
}

// String returns the absolute path.
func (p Path) String() string { return p.path }

// FileSystem returns the filesystem the path belongs to.
func (p Path) FileSystem() FileSystem { return p.fs }

// IsRoot reports whether p is the root of its filesystem.
func (p Path) IsRoot() bool { return p.path == "/" }

// Join resolves name against p. Absolute names restart from the root.
func (p Path) Join(name string) Path {
	if name == "" {
		return p
	}
	if strings.HasPrefix(name, "/") {
		return Path{fs: p.fs, path: clean(name)}
	}
	return Path{fs: p.fs, path: clean(p.path + "/" + name)}
}

// Parent returns the containing directory; the root is its own parent.
func (p Path) Parent() Path {
	return Path{fs: p.fs, path: parent(p.path)}
}

// Name returns the final element, or "" for the root.
func (p Path) Name() string { return base(p.path) }

// Exists reports whether anything lives at p.
func (p Path) Exists() (bool, error) { return p.fs.Exists(p.path) }

// Metadata returns the entry's metadata.
func (p Path) Metadata() (Metadata, error) { return p.fs.Metadata(p.path) }

// IsDir reports whether p exists and is a directory.
func (p Path) IsDir() (bool, error) {
	ok, err := p.Exists()
	if err != nil || !ok {
		return false, err
	}
	md, err := p.Metadata()
	if err != nil {
		return false, err
	}
	return md.IsDir(), nil
}

// IsFile reports whether p exists and is not a directory.
func (p Path) IsFile() (bool, error) {
	ok, err := p.Exists()
	if err != nil || !ok {
		return false, err
	}
	md, err := p.Metadata()
	if err != nil {
		return false, err
	}
	return !md.IsDir(), nil
}

// ReadDir lists the children of p in name order.
func (p Path) ReadDir() ([]Path, error) {
	names, err := p.fs.ReadDir(p.path)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	out := make([]Path, 0, len(names))
	for _, name := range names {
		out = append(out, p.Join(name))
	}
	return out, nil
}

// CreateDir creates a single directory; the parent must exist.
func (p Path) CreateDir() error { return p.fs.CreateDir(p.path) }

// CreateDirAll creates p and any missing ancestors.
func (p Path) CreateDirAll() error {
	if p.IsRoot() {
		return nil
	}
	isDir, err := p.IsDir()
	if err != nil {
		return err
	}
	if isDir {
		return nil
	}
	if err := p.Parent().CreateDirAll(); err != nil {
		return err
	}
	return p.CreateDir()
}

// Open opens p for reading.
func (p Path) Open() (io.ReadCloser, error) { return p.fs.OpenFile(p.path) }

// Create creates or truncates p for writing.
func (p Path) Create() (io.WriteCloser, error) { return p.fs.CreateFile(p.path) }

// Append opens an existing file for appending.
func (p Path) Append() (io.WriteCloser, error) { return p.fs.AppendFile(p.path) }

// RemoveFile removes a non-directory entry.
func (p Path) RemoveFile() error { return p.fs.RemoveFile(p.path) }

// RemoveDir removes an empty directory.
func (p Path) RemoveDir() error { return p.fs.RemoveDir(p.path) }

// RemoveAll removes p and everything below it.
func (p Path) RemoveAll() error {
	isDir, err := p.IsDir()
	if err != nil {
		return err
	}
	if !isDir {
		return p.RemoveFile()
	}
	children, err := p.ReadDir()
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := child.RemoveAll(); err != nil {
			return err
		}
	}
	return p.RemoveDir()
}

// ReadFile returns the full contents of p.
func (p Path) ReadFile() ([]byte, error) {
	r, err := p.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// WriteFile replaces the contents of p.
func (p Path) WriteFile(data []byte) error {
	w, err := p.Create()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
