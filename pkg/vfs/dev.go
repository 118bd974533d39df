package vfs

import (
	"io"
	"math/rand"
	"sort"
)

// Device is the read/write behavior behind a device file.
type Device interface {
	io.Reader
	io.Writer
}

// DeviceFactory returns a fresh Device for each open.
type DeviceFactory func() Device

// DeviceFS is a flat filesystem of devices. Directory creation and removal
// are unsupported.
type DeviceFS struct {
	devices map[string]DeviceFactory
}

// NewDeviceFS returns a DeviceFS serving the given devices by name.
func NewDeviceFS(devices map[string]DeviceFactory) *DeviceFS {
	d := &DeviceFS{devices: make(map[string]DeviceFactory, len(devices))}
	for name, f := range devices {
		d.devices[name] = f
	}
	return d
}

// DefaultDevices returns null, zero and random.
func DefaultDevices() map[string]DeviceFactory {
	return map[string]DeviceFactory{
		"null":   func() Device { return nullDevice{} },
		"zero":   func() Device { return zeroDevice{} },
		"random": func() Device { return randomDevice{} },
	}
}

func (d *DeviceFS) lookup(path string) (DeviceFactory, bool) {
	if parent(path) != "/" {
		return nil, false
	}
	f, ok := d.devices[base(path)]
	return f, ok
}

func (d *DeviceFS) ReadDir(path string) ([]string, error) {
	if path != "/" {
		if _, ok := d.lookup(path); ok {
			return nil, pathError("readdir", path, ErrNotADirectory)
		}
		return nil, pathError("readdir", path, ErrNotFound)
	}
	names := make([]string, 0, len(d.devices))
	for name := range d.devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (d *DeviceFS) CreateDir(path string) error {
	return pathError("mkdir", path, ErrUnsupported)
}

func (d *DeviceFS) OpenFile(path string) (io.ReadCloser, error) {
	f, ok := d.lookup(path)
	if !ok {
		if path == "/" {
			return nil, pathError("open", path, ErrNotAFile)
		}
		return nil, pathError("open", path, ErrNotFound)
	}
	return io.NopCloser(f()), nil
}

func (d *DeviceFS) CreateFile(path string) (io.WriteCloser, error) {
	f, ok := d.lookup(path)
	if !ok {
		return nil, pathError("create", path, ErrUnsupported)
	}
	return nopWriteCloser{f()}, nil
}

func (d *DeviceFS) AppendFile(path string) (io.WriteCloser, error) {
	return d.CreateFile(path)
}

func (d *DeviceFS) Metadata(path string) (Metadata, error) {
	if path == "/" {
		return Metadata{Type: TypeDir}, nil
	}
	if _, ok := d.lookup(path); ok {
		return Metadata{Type: TypeFile}, nil
	}
	return Metadata{}, pathError("stat", path, ErrNotFound)
}

func (d *DeviceFS) Exists(path string) (bool, error) {
	if path == "/" {
		return true, nil
	}
	_, ok := d.lookup(path)
	return ok, nil
}

func (d *DeviceFS) RemoveFile(path string) error {
	return pathError("remove", path, ErrUnsupported)
}

func (d *DeviceFS) RemoveDir(path string) error {
	return pathError("rmdir", path, ErrUnsupported)
}

type nullDevice struct{}

func (nullDevice) Read([]byte) (int, error)    { return 0, io.EOF }
func (nullDevice) Write(p []byte) (int, error) { return len(p), nil }

type zeroDevice struct{}

func (zeroDevice) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}
func (zeroDevice) Write(p []byte) (int, error) { return len(p), nil }

type randomDevice struct{}

func (randomDevice) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(rand.Uint32())
	}
	return len(p), nil
}
func (randomDevice) Write(p []byte) (int, error) { return len(p), nil }
