package vfs

// Root bundles the mount table with the path everything resolves against.
type Root struct {
	Mounts *MultiFS
	Base   *MemoryFS
	Path   Path
}

// NewRoot builds an empty in-memory root with the default devices mounted
// at /dev.
func NewRoot() *Root {
	base := NewMemoryFS()
	multi := NewMultiFS(base)
	multi.Push("/dev", NewPath(NewDeviceFS(DefaultDevices())))
	return &Root{Mounts: multi, Base: base, Path: NewPath(multi)}
}
