package filesystem

import (
	"errors"
	"io/fs"
	"syscall"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDryRunBase() *TestFileSystem {
	return NewTestFileSystemFromMap(map[string]*fstest.MapFile{
		"docs":           {Mode: fs.ModeDir | 0755},
		"docs/readme.md": {Data: []byte("base\n"), Mode: 0644},
		"blocker":        {Data: []byte("file"), Mode: 0600},
	})
}

func TestDryRunFS_WritesStayInOverlay(t *testing.T) {
	base := newDryRunBase()
	dry := NewDryRunFS(base)

	require.NoError(t, dry.WriteFile("docs/readme.md", []byte("overlay\n"), 0644))
	require.NoError(t, dry.MkdirAll("src/pkg", 0755))
	require.NoError(t, dry.WriteFile("src/pkg/main.py", []byte("pass\n"), 0644))

	data, err := dry.ReadFile("docs/readme.md")
	require.NoError(t, err)
	assert.Equal(t, "overlay\n", string(data))

	data, err = fs.ReadFile(base, "docs/readme.md")
	require.NoError(t, err)
	assert.Equal(t, "base\n", string(data))

	_, err = base.Stat("src")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	info, err := dry.Stat("src/pkg")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestDryRunFS_ReadsFallBackToBase(t *testing.T) {
	dry := NewDryRunFS(newDryRunBase())

	data, err := dry.ReadFile("docs/readme.md")
	require.NoError(t, err)
	assert.Equal(t, "base\n", string(data))

	_, err = dry.Stat("missing")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestDryRunFS_BaseFileBlocksDirectory(t *testing.T) {
	base := newDryRunBase()
	dry := NewDryRunFS(base)

	err := dry.MkdirAll("blocker/sub", 0755)
	require.Error(t, err)
	assert.True(t, errors.Is(err, syscall.ENOTDIR))

	err = dry.WriteFile("docs", []byte("x"), 0644)
	assert.True(t, errors.Is(err, syscall.EISDIR))
}

func TestDryRunFS_ChmodCopiesBaseFile(t *testing.T) {
	base := newDryRunBase()
	dry := NewDryRunFS(base)

	require.NoError(t, dry.Chmod("blocker", 0755))

	info, err := dry.Stat("blocker")
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0755), info.Mode().Perm())
	data, err := dry.ReadFile("blocker")
	require.NoError(t, err)
	assert.Equal(t, "file", string(data))

	info, err = base.Stat("blocker")
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0600), info.Mode().Perm())

	err = dry.Chmod("missing.sh", 0755)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestDryRunFS_NilBase(t *testing.T) {
	dry := NewDryRunFS(nil)

	require.NoError(t, dry.MkdirAll(".", 0755))
	require.NoError(t, dry.WriteFile("top.txt", []byte("hi\n"), 0644))

	data, err := dry.ReadFile("top.txt")
	require.NoError(t, err)
	assert.Equal(t, "hi\n", string(data))
}
