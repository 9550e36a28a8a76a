package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/arthur-debert/mlskel/pkg/scaffold/filesystem"
)

// RealFSTestHelper provides utilities for testing with real filesystem operations.
// Permission checks only make sense on Unix, so tests are skipped on Windows.
type RealFSTestHelper struct {
	t       *testing.T
	tempDir string
	fs      *filesystem.OSFileSystem
}

// NewRealFSTestHelper creates a helper rooted at a fresh temporary directory.
func NewRealFSTestHelper(t *testing.T) *RealFSTestHelper {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not supported on Windows")
	}

	tempDir := t.TempDir()
	return &RealFSTestHelper{
		t:       t,
		tempDir: tempDir,
		fs:      filesystem.NewOSFileSystem(tempDir),
	}
}

// FileSystem returns the real filesystem instance
func (h *RealFSTestHelper) FileSystem() *filesystem.OSFileSystem {
	return h.fs
}

// TempDir returns the temporary directory path
func (h *RealFSTestHelper) TempDir() string {
	return h.tempDir
}

// Path returns the OS path of a slash-separated name inside the temp dir.
func (h *RealFSTestHelper) Path(name string) string {
	return filepath.Join(h.tempDir, filepath.FromSlash(name))
}

// WriteFile writes a file below the temp dir, creating parents.
func (h *RealFSTestHelper) WriteFile(name, content string) {
	h.t.Helper()
	full := h.Path(name)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		h.t.Fatalf("Failed to create parent of %s: %v", name, err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		h.t.Fatalf("Failed to write %s: %v", name, err)
	}
}

// AssertContent verifies a file holds exactly the expected content.
func (h *RealFSTestHelper) AssertContent(name, expected string) {
	h.t.Helper()
	data, err := os.ReadFile(h.Path(name))
	if err != nil {
		h.t.Errorf("Failed to read %s: %v", name, err)
		return
	}
	if string(data) != expected {
		h.t.Errorf("File %s content mismatch:\nExpected: %q\nActual: %q", name, expected, data)
	}
}

// AssertDir verifies name exists and is a directory.
func (h *RealFSTestHelper) AssertDir(name string) {
	h.t.Helper()
	info, err := os.Stat(h.Path(name))
	if err != nil {
		h.t.Errorf("Expected directory %s to exist: %v", name, err)
		return
	}
	if !info.IsDir() {
		h.t.Errorf("Expected %s to be a directory", name)
	}
}

// AssertMode verifies the permission bits of name.
func (h *RealFSTestHelper) AssertMode(name string, expected fs.FileMode) {
	h.t.Helper()
	info, err := os.Stat(h.Path(name))
	if err != nil {
		h.t.Errorf("Failed to stat %s: %v", name, err)
		return
	}
	if info.Mode().Perm() != expected.Perm() {
		h.t.Errorf("File %s mode = %v, want %v", name, info.Mode().Perm(), expected.Perm())
	}
}

// AssertNotExecutable verifies no execute bit is set on name.
func (h *RealFSTestHelper) AssertNotExecutable(name string) {
	h.t.Helper()
	info, err := os.Stat(h.Path(name))
	if err != nil {
		h.t.Errorf("Failed to stat %s: %v", name, err)
		return
	}
	if info.Mode().Perm()&0111 != 0 {
		h.t.Errorf("File %s is executable: %v", name, info.Mode().Perm())
	}
}
