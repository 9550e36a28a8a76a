package scaffold

import (
	"bytes"
	"errors"
	"io/fs"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/mlskel/pkg/logging"
	"github.com/arthur-debert/mlskel/pkg/manifest"
	"github.com/arthur-debert/mlskel/pkg/scaffold/filesystem"
)

func sampleManifest(t *testing.T) manifest.Manifest {
	t.Helper()
	m, err := manifest.NewBuilder().
		Dir("a/b", "scripts", "a/b").
		File("a/b/c.txt", "  hello  ").
		File("README.md", "\n\n# Title\n\nBody\n\n\n").
		File("empty.txt", "").
		ExecutableFile("scripts/run.sh", "\n#!/bin/bash\necho run\n").
		Build()
	require.NoError(t, err)
	return m
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"":                 "\n",
		"hello":            "hello\n",
		"  hello  ":        "hello\n",
		"hello\n\n\n":      "hello\n",
		"\n\t x \n y \t\n": "x \n y\n",
	}
	for in, want := range tests {
		got := Normalize(in)
		assert.Equal(t, want, got, "Normalize(%q)", in)
		assert.Equal(t, got, Normalize(got), "Normalize is not idempotent for %q", in)
		assert.False(t, strings.HasSuffix(got, "\n\n") && got != "\n", "double newline for %q", in)
	}
}

func TestScaffolder_Run(t *testing.T) {
	th := filesystem.NewTestHelper(t)
	var out bytes.Buffer
	s := New(th.FileSystem(), WithOutput(&out), WithCompletionMessage("done."))

	result, err := s.Run(sampleManifest(t))
	require.NoError(t, err)
	assert.True(t, result.Success)

	th.AssertDir("a")
	th.AssertDir("a/b")
	th.AssertDir("scripts")
	th.AssertFileContent("a/b/c.txt", []byte("hello\n"))
	th.AssertFileContent("README.md", []byte("# Title\n\nBody\n"))
	th.AssertFileContent("empty.txt", []byte("\n"))
	th.AssertFileContent("scripts/run.sh", []byte("#!/bin/bash\necho run\n"))

	th.AssertMode("scripts/run.sh", 0755)
	th.AssertMode("a/b/c.txt", 0644)
	th.AssertMode("README.md", 0644)

	assert.Equal(t, "done.\n", out.String())
	assert.Equal(t, 2, result.Count(StepMkdir))
	assert.Equal(t, 4, result.Count(StepWrite))
	assert.Equal(t, []string{"scripts/run.sh"}, result.Paths(StepChmod))
}

func TestScaffolder_RunIsIdempotent(t *testing.T) {
	th := filesystem.NewTestHelper(t)
	s := New(th.FileSystem())
	m := sampleManifest(t)

	_, err := s.Run(m)
	require.NoError(t, err)
	first := snapshot(th.FileSystem())

	_, err = s.Run(m)
	require.NoError(t, err)
	assert.Equal(t, first, snapshot(th.FileSystem()))
}

func TestScaffolder_OverwritesExistingFiles(t *testing.T) {
	th := filesystem.NewTestHelper(t)
	th.MkdirAll("a/b", 0755)
	th.WriteFile("a/b/c.txt", []byte("old content that is longer"), 0600)

	_, err := New(th.FileSystem()).Run(sampleManifest(t))
	require.NoError(t, err)

	th.AssertFileContent("a/b/c.txt", []byte("hello\n"))
	th.AssertMode("a/b/c.txt", 0600)
}

func TestScaffolder_UndeclaredParentIsCreated(t *testing.T) {
	th := filesystem.NewTestHelper(t)
	m, err := manifest.NewBuilder().File("deep/nested/file.txt", "x").Build()
	require.NoError(t, err)

	_, err = New(th.FileSystem()).Run(m)
	require.NoError(t, err)
	th.AssertDir("deep/nested")
	th.AssertFileContent("deep/nested/file.txt", []byte("x\n"))
}

func TestScaffolder_DirectoryBlockedByFile(t *testing.T) {
	th := filesystem.NewTestHelper(t)
	th.WriteFile("a", []byte("occupied"), 0644)

	var out bytes.Buffer
	result, err := New(th.FileSystem(), WithOutput(&out)).Run(sampleManifest(t))
	require.Error(t, err)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "mkdir", ioErr.Op)
	assert.Equal(t, "a/b", ioErr.Path)
	assert.True(t, errors.Is(err, syscall.ENOTDIR))

	assert.False(t, result.Success)
	require.Len(t, result.Steps, 1)
	assert.Equal(t, StatusFailure, result.Steps[0].Status)

	th.AssertFileContent("a", []byte("occupied"))
	th.AssertFileNotExists("README.md")
	assert.Empty(t, out.String())
}

func TestScaffolder_FailFast(t *testing.T) {
	th := filesystem.NewTestHelper(t)
	th.FileSystem().FailOn("writefile", "README.md", syscall.ENOSPC)

	result, err := New(th.FileSystem()).Run(sampleManifest(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, syscall.ENOSPC))

	th.AssertFileContent("a/b/c.txt", []byte("hello\n"))
	th.AssertFileNotExists("empty.txt")
	th.AssertFileNotExists("scripts/run.sh")
	assert.Equal(t, 1, result.Count(StepWrite))
}

func TestScaffolder_SetExecutableMissingFile(t *testing.T) {
	th := filesystem.NewTestHelper(t)
	err := New(th.FileSystem()).SetExecutable("scripts/missing.sh")

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "chmod", ioErr.Op)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestScaffolder_AllowListedPathOutsideManifest(t *testing.T) {
	th := filesystem.NewTestHelper(t)
	th.WriteFile("tool.sh", []byte("#!/bin/sh\n"), 0644)

	m, err := manifest.NewBuilder().Executable("tool.sh").Build()
	require.NoError(t, err)

	_, err = New(th.FileSystem()).Run(m)
	require.NoError(t, err)
	th.AssertMode("tool.sh", 0755)
}

func TestScaffolder_Logging(t *testing.T) {
	th := filesystem.NewTestHelper(t)
	var logs bytes.Buffer
	logger := logging.NewTestLogger(&logs, 2)

	_, err := New(th.FileSystem(), WithLogger(logger)).Run(sampleManifest(t))
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "scaffold complete")
	assert.Contains(t, logs.String(), "a/b/c.txt")
}

func snapshot(fsys *filesystem.TestFileSystem) map[string]string {
	out := make(map[string]string)
	for name, f := range fsys.MapFS {
		out[name] = f.Mode.String() + "|" + string(f.Data)
	}
	return out
}
