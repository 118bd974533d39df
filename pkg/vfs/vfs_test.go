package vfs

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathJoin(t *testing.T) {
	root := NewPath(NewMemoryFS())
	tests := []struct {
		name string
		from string
		join string
		want string
	}{
		{"relative", "/home", "user", "/home/user"},
		{"absolute", "/home", "/etc", "/etc"},
		{"dotdot", "/home/user", "..", "/home"},
		{"dotdot_clamped", "/", "../../x", "/x"},
		{"dot", "/a", "./b/./c", "/a/b/c"},
		{"trailing_slash", "/a", "b/", "/a/b"},
		{"empty", "/a", "", "/a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := root.Join(tt.from).Join(tt.join)
			assert.Equal(t, tt.want, got.String())
		})
	}
	assert.Equal(t, "/", root.Join("/a").Parent().String())
	assert.Equal(t, "b", root.Join("/a/b").Name())
}

func TestMemoryFSFiles(t *testing.T) {
	root := NewPath(NewMemoryFS())
	file := root.Join("/a.txt")

	require.NoError(t, file.WriteFile([]byte("hi\n")))
	data, err := file.ReadFile()
	require.NoError(t, err)
	assert.Equal(t, "hi\n", string(data))

	w, err := file.Append()
	require.NoError(t, err)
	_, err = w.Write([]byte("there\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err = file.ReadFile()
	require.NoError(t, err)
	assert.Equal(t, "hi\nthere\n", string(data))

	md, err := file.Metadata()
	require.NoError(t, err)
	assert.False(t, md.IsDir())
	assert.EqualValues(t, 9, md.Len)

	require.NoError(t, file.WriteFile([]byte("x")))
	data, err = file.ReadFile()
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestMemoryFSDirectories(t *testing.T) {
	root := NewPath(NewMemoryFS())

	err := root.Join("/a/b").CreateDir()
	assert.True(t, errors.Is(err, ErrParentNotFound), "got %v", err)

	require.NoError(t, root.Join("/a/b/c").CreateDirAll())
	isDir, err := root.Join("/a/b").IsDir()
	require.NoError(t, err)
	assert.True(t, isDir)

	err = root.Join("/a/b").CreateDir()
	assert.True(t, errors.Is(err, ErrExists))

	require.NoError(t, root.Join("/a/b/f").WriteFile([]byte("1")))
	err = root.Join("/a/b").RemoveDir()
	assert.True(t, errors.Is(err, ErrDirNotEmpty))

	_, err = root.Join("/a/b").Open()
	assert.True(t, errors.Is(err, ErrNotAFile))

	err = root.Join("/a/b/f").RemoveDir()
	assert.True(t, errors.Is(err, ErrNotADirectory))

	require.NoError(t, root.Join("/a").RemoveAll())
	ok, err := root.Join("/a").Exists()
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = root.Join("/missing").Open()
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMultiFSResolution(t *testing.T) {
	r := NewRoot()
	require.NoError(t, r.Path.Join("/etc").CreateDir())
	require.NoError(t, r.Path.Join("/etc/motd").WriteFile([]byte("welcome")))

	dev, err := r.Mounts.Resolve("/dev/null")
	require.NoError(t, err)
	_, isDevice := dev.FileSystem().(*DeviceFS)
	assert.True(t, isDevice)
	assert.Equal(t, "/null", dev.String())

	etc, err := r.Mounts.Resolve(r.Path.Join("/dev/../etc").String())
	require.NoError(t, err)
	assert.Equal(t, "/etc", etc.String())
	_, isMemory := etc.FileSystem().(*MemoryFS)
	assert.True(t, isMemory)

	mountRoot, err := r.Mounts.Resolve("/dev/")
	require.NoError(t, err)
	assert.True(t, mountRoot.IsRoot())

	names, err := r.Path.FileSystem().ReadDir("/")
	require.NoError(t, err)
	assert.Equal(t, []string{"dev", "etc"}, names)

	children, err := r.Path.Join("/dev").ReadDir()
	require.NoError(t, err)
	var got []string
	for _, c := range children {
		got = append(got, c.String())
	}
	assert.Equal(t, []string{"/dev/null", "/dev/random", "/dev/zero"}, got)
}

func TestMultiFSMostSpecificMountWins(t *testing.T) {
	r := NewRoot()
	outer := NewMemoryFS()
	inner := NewMemoryFS()
	r.Mounts.Push("/mnt", NewPath(outer))
	r.Mounts.Push("/mnt/inner", NewPath(inner))
	assert.Equal(t, []string{"/mnt/inner", "/dev", "/mnt", "/"}, r.Mounts.Mounts())

	require.NoError(t, r.Path.Join("/mnt/inner/file").WriteFile([]byte("in")))
	require.NoError(t, r.Path.Join("/mnt/file").WriteFile([]byte("out")))

	data, err := NewPath(inner).Join("/file").ReadFile()
	require.NoError(t, err)
	assert.Equal(t, "in", string(data))

	data, err = NewPath(outer).Join("/file").ReadFile()
	require.NoError(t, err)
	assert.Equal(t, "out", string(data))

	names, err := r.Path.Join("/mnt").FileSystem().ReadDir("/mnt")
	require.NoError(t, err)
	assert.Equal(t, []string{"file", "inner"}, names)

	err = r.Path.Join("/mnt/inner").RemoveDir()
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestMultiFSCreateMaterializesParents(t *testing.T) {
	r := NewRoot()
	backing := NewMemoryFS()
	r.Mounts.Push("/srv", NewPath(backing).Join("/data"))

	require.NoError(t, r.Path.Join("/srv/logs/today").WriteFile([]byte("ok")))
	isDir, err := NewPath(backing).Join("/data/logs").IsDir()
	require.NoError(t, err)
	assert.True(t, isDir)

	w, err := r.Path.Join("/srv/logs/today").Append()
	require.NoError(t, err)
	_, _ = w.Write([]byte("!"))
	require.NoError(t, w.Close())
	data, err := NewPath(backing).Join("/data/logs/today").ReadFile()
	require.NoError(t, err)
	assert.Equal(t, "ok!", string(data))

	w, err = r.Path.Join("/srv/new").Append()
	require.NoError(t, err)
	require.NoError(t, w.Close())
	ok, err := NewPath(backing).Join("/data/new").Exists()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDeviceFS(t *testing.T) {
	r := NewRoot()
	null := r.Path.Join("/dev/null")

	isFile, err := null.IsFile()
	require.NoError(t, err)
	assert.True(t, isFile)

	require.NoError(t, null.WriteFile([]byte("discarded")))
	data, err := null.ReadFile()
	require.NoError(t, err)
	assert.Empty(t, data)

	zero, err := r.Path.Join("/dev/zero").Open()
	require.NoError(t, err)
	buf := []byte{1, 2, 3}
	n, err := io.ReadFull(zero, buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte{0, 0, 0}, buf)

	err = r.Path.Join("/dev/sub").CreateDir()
	assert.True(t, errors.Is(err, ErrUnsupported))
	err = null.RemoveFile()
	assert.True(t, errors.Is(err, ErrUnsupported))
	_, err = r.Path.Join("/dev/nope/x").Create()
	assert.Error(t, err)
}
