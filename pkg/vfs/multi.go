package vfs

import (
	"io"
	"sort"
	"sync"
)

type layer struct {
	mount   string
	backing Path
}

// MultiFS overlays backing filesystems at mount points. The root mount always
// maps to the base filesystem and the most specific mount wins.
type MultiFS struct {
	mu     sync.RWMutex
	layers []layer
}

// NewMultiFS returns a MultiFS whose root mount is base.
func NewMultiFS(base FileSystem) *MultiFS {
	return &MultiFS{layers: []layer{{mount: "/", backing: NewPath(base)}}}
}

// Push mounts backing at mount. Mounting over an existing mount point
// replaces it.
func (m *MultiFS) Push(mount string, backing Path) {
	mount = clean(mount)
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.layers {
		if m.layers[i].mount == mount {
			m.layers[i].backing = backing
			return
		}
	}
	m.layers = append(m.layers, layer{mount: mount, backing: backing})
	sort.SliceStable(m.layers, func(i, j int) bool {
		return len(m.layers[i].mount) > len(m.layers[j].mount)
	})
}

// Mounts returns the mount points, most specific first.
func (m *MultiFS) Mounts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.layers))
	for _, l := range m.layers {
		out = append(out, l.mount)
	}
	return out
}

// Resolve maps path onto the backing layer that serves it.
func (m *MultiFS) Resolve(path string) (Path, error) {
	path = clean(path)
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.layers {
		if l.mount == path {
			return l.backing, nil
		}
		if isAncestor(l.mount, path) {
			rest := path[len(l.mount):]
			if l.mount == "/" {
				rest = path
			}
			return l.backing.Join("." + rest), nil
		}
	}
	return Path{}, pathError("resolve", path, ErrNotFound)
}

// isAncestor reports whether dir is a strict ancestor of path.
func isAncestor(dir, path string) bool {
	for cur := path; cur != "/"; {
		cur = parent(cur)
		if cur == dir {
			return true
		}
	}
	return false
}

func (m *MultiFS) ReadDir(path string) ([]string, error) {
	path = clean(path)
	target, err := m.Resolve(path)
	if err != nil {
		return nil, err
	}
	names, err := target.FileSystem().ReadDir(target.String())
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	m.mu.RLock()
	for _, l := range m.layers {
		if l.mount != "/" && parent(l.mount) == path && !seen[base(l.mount)] {
			seen[base(l.mount)] = true
			names = append(names, base(l.mount))
		}
	}
	m.mu.RUnlock()
	sort.Strings(names)
	return names, nil
}

func (m *MultiFS) CreateDir(path string) error {
	target, err := m.Resolve(path)
	if err != nil {
		return err
	}
	return target.CreateDir()
}

func (m *MultiFS) OpenFile(path string) (io.ReadCloser, error) {
	target, err := m.Resolve(path)
	if err != nil {
		return nil, err
	}
	return target.Open()
}

func (m *MultiFS) CreateFile(path string) (io.WriteCloser, error) {
	path = clean(path)
	if err := m.ensureParent(path); err != nil {
		return nil, err
	}
	target, err := m.Resolve(path)
	if err != nil {
		return nil, err
	}
	return target.Create()
}

func (m *MultiFS) AppendFile(path string) (io.WriteCloser, error) {
	path = clean(path)
	ok, err := m.Exists(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return m.CreateFile(path)
	}
	target, err := m.Resolve(path)
	if err != nil {
		return nil, err
	}
	return target.Append()
}

func (m *MultiFS) Metadata(path string) (Metadata, error) {
	target, err := m.Resolve(path)
	if err != nil {
		return Metadata{}, err
	}
	return target.Metadata()
}

func (m *MultiFS) Exists(path string) (bool, error) {
	target, err := m.Resolve(path)
	if err != nil {
		return false, nil
	}
	return target.Exists()
}

func (m *MultiFS) RemoveFile(path string) error {
	target, err := m.Resolve(path)
	if err != nil {
		return err
	}
	return target.RemoveFile()
}

func (m *MultiFS) RemoveDir(path string) error {
	path = clean(path)
	m.mu.RLock()
	for _, l := range m.layers {
		if l.mount == path {
			m.mu.RUnlock()
			return pathError("rmdir", path, ErrUnsupported)
		}
	}
	m.mu.RUnlock()
	target, err := m.Resolve(path)
	if err != nil {
		return err
	}
	return target.RemoveDir()
}

// ensureParent materializes the parent chain of path inside whichever layer
// serves the parent.
func (m *MultiFS) ensureParent(path string) error {
	target, err := m.Resolve(parent(path))
	if err != nil {
		return err
	}
	if err := target.CreateDirAll(); err != nil {
		return pathError("create", path, ErrParentNotFound)
	}
	return nil
}
