// Package vfs implements the layered in-memory filesystem the shell and its
// programs resolve paths against.
package vfs

import (
	"errors"
	"io"
	"io/fs"
	"strings"
	"time"
)

var (
	ErrNotFound       = errors.New("No such file or directory")
	ErrExists         = errors.New("File exists")
	ErrNotADirectory  = errors.New("Not a directory")
	ErrNotAFile       = errors.New("Is a directory")
	ErrDirNotEmpty    = errors.New("Directory not empty")
	ErrUnsupported    = errors.New("Operation not supported")
	ErrParentNotFound = errors.New("Parent directory does not exist")
)

// FileType distinguishes regular files from directories.
type FileType int

const (
	TypeFile FileType = iota
	TypeDir
)

// Metadata describes a single filesystem entry.
type Metadata struct {
	Type    FileType
	Len     int64
	ModTime time.Time
}

// IsDir reports whether the entry is a directory.
func (m Metadata) IsDir() bool { return m.Type == TypeDir }

// FileSystem is implemented by every storage layer. Paths are absolute and
// already normalized by Path; "/" is the root of the layer.
type FileSystem interface {
	ReadDir(path string) ([]string, error)
	CreateDir(path string) error
	OpenFile(path string) (io.ReadCloser, error)
	CreateFile(path string) (io.WriteCloser, error)
	AppendFile(path string) (io.WriteCloser, error)
	Metadata(path string) (Metadata, error)
	Exists(path string) (bool, error)
	RemoveFile(path string) error
	RemoveDir(path string) error
}

func pathError(op, path string, err error) error {
	return &fs.PathError{Op: op, Path: path, Err: err}
}

// clean normalizes an absolute slash path, resolving "." and ".." and
// clamping at the root.
func clean(path string) string {
	var parts []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(parts) > 0 {
				parts = parts[:len(parts)-1]
			}
		default:
			parts = append(parts, seg)
		}
	}
	return "/" + strings.Join(parts, "/")
}

func parent(path string) string {
	if path == "/" {
		return "/"
	}
	i := strings.LastIndexByte(path, '/')
	if i <= 0 {
		return "/"
	}
	return path[:i]
}

func base(path string) string {
	if path == "/" {
		return ""
	}
	return path[strings.LastIndexByte(path, '/')+1:]
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
