package vfs

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/afero"
)

// MemoryFS stores files in memory. It is safe for concurrent use.
type MemoryFS struct {
	fs afero.Fs
}

// NewMemoryFS returns an empty in-memory filesystem.
func NewMemoryFS() *MemoryFS {
	m := &MemoryFS{fs: afero.NewMemMapFs()}
	_ = m.fs.MkdirAll("/", 0o755)
	return m
}

func (m *MemoryFS) ReadDir(path string) ([]string, error) {
	if err := m.requireDir("readdir", path); err != nil {
		return nil, err
	}
	infos, err := afero.ReadDir(m.fs, path)
	if err != nil {
		return nil, translate("readdir", path, err)
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names, nil
}

func (m *MemoryFS) CreateDir(path string) error {
	if ok, _ := afero.Exists(m.fs, path); ok {
		return pathError("mkdir", path, ErrExists)
	}
	if err := m.requireDir("mkdir", parent(path)); err != nil {
		return pathError("mkdir", path, ErrParentNotFound)
	}
	return translate("mkdir", path, m.fs.Mkdir(path, 0o755))
}

func (m *MemoryFS) OpenFile(path string) (io.ReadCloser, error) {
	info, err := m.fs.Stat(path)
	if err != nil {
		return nil, translate("open", path, err)
	}
	if info.IsDir() {
		return nil, pathError("open", path, ErrNotAFile)
	}
	f, err := m.fs.Open(path)
	if err != nil {
		return nil, translate("open", path, err)
	}
	return f, nil
}

func (m *MemoryFS) CreateFile(path string) (io.WriteCloser, error) {
	if info, err := m.fs.Stat(path); err == nil && info.IsDir() {
		return nil, pathError("create", path, ErrNotAFile)
	}
	if err := m.requireDir("create", parent(path)); err != nil {
		return nil, pathError("create", path, ErrParentNotFound)
	}
	f, err := m.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, translate("create", path, err)
	}
	return f, nil
}

func (m *MemoryFS) AppendFile(path string) (io.WriteCloser, error) {
	info, err := m.fs.Stat(path)
	if err != nil {
		return nil, translate("append", path, err)
	}
	if info.IsDir() {
		return nil, pathError("append", path, ErrNotAFile)
	}
	f, err := m.fs.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, translate("append", path, err)
	}
	return f, nil
}

func (m *MemoryFS) Metadata(path string) (Metadata, error) {
	info, err := m.fs.Stat(path)
	if err != nil {
		return Metadata{}, translate("stat", path, err)
	}
	md := Metadata{Type: TypeFile, Len: info.Size(), ModTime: info.ModTime()}
	if info.IsDir() {
		md.Type = TypeDir
		md.Len = 0
	}
	return md, nil
}

func (m *MemoryFS) Exists(path string) (bool, error) {
	return afero.Exists(m.fs, path)
}

func (m *MemoryFS) RemoveFile(path string) error {
	info, err := m.fs.Stat(path)
	if err != nil {
		return translate("remove", path, err)
	}
	if info.IsDir() {
		return pathError("remove", path, ErrNotAFile)
	}
	return translate("remove", path, m.fs.Remove(path))
}

func (m *MemoryFS) RemoveDir(path string) error {
	if path == "/" {
		return pathError("rmdir", path, ErrUnsupported)
	}
	if err := m.requireDir("rmdir", path); err != nil {
		return err
	}
	empty, err := afero.IsEmpty(m.fs, path)
	if err != nil {
		return translate("rmdir", path, err)
	}
	if !empty {
		return pathError("rmdir", path, ErrDirNotEmpty)
	}
	return translate("rmdir", path, m.fs.Remove(path))
}

func (m *MemoryFS) requireDir(op, path string) error {
	info, err := m.fs.Stat(path)
	if err != nil {
		return translate(op, path, err)
	}
	if !info.IsDir() {
		return pathError(op, path, ErrNotADirectory)
	}
	return nil
}

// translate maps afero/os errors onto the package sentinels.
func translate(op, path string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return pathError(op, path, ErrNotFound)
	case errors.Is(err, fs.ErrExist):
		return pathError(op, path, ErrExists)
	}
	return pathError(op, path, err)
}
