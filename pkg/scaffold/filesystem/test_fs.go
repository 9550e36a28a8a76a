package filesystem

import (
	"io/fs"
	"path"
	"syscall"
	"testing"
	"testing/fstest"
)

// TestFileSystem extends fstest.MapFS to implement our FileSystem interface.
// Directories are explicit entries: WriteFile fails when the parent has not
// been created, the same way the OS filesystem does.
type TestFileSystem struct {
	fstest.MapFS
	failures map[string]error
}

// NewTestFileSystem creates a new test filesystem based on fstest.MapFS
func NewTestFileSystem() *TestFileSystem {
	return &TestFileSystem{
		MapFS:    make(fstest.MapFS),
		failures: make(map[string]error),
	}
}

// NewTestFileSystemFromMap creates a test filesystem from an existing map
func NewTestFileSystemFromMap(files map[string]*fstest.MapFile) *TestFileSystem {
	return &TestFileSystem{
		MapFS:    files,
		failures: make(map[string]error),
	}
}

// FailOn makes the next calls of op ("mkdirall", "writefile", "chmod") on
// name return err.
func (tfs *TestFileSystem) FailOn(op, name string, err error) {
	tfs.failures[op+":"+name] = err
}

func (tfs *TestFileSystem) injected(op, name string) error {
	if err, ok := tfs.failures[op+":"+name]; ok {
		return &fs.PathError{Op: op, Path: name, Err: err}
	}
	return nil
}

// WriteFile implements WriteFS for testing
func (tfs *TestFileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if !fs.ValidPath(name) || name == "." {
		return &fs.PathError{Op: "writefile", Path: name, Err: fs.ErrInvalid}
	}
	if err := tfs.injected("writefile", name); err != nil {
		return err
	}
	if parent := path.Dir(name); parent != "." {
		dir, exists := tfs.MapFS[parent]
		if !exists {
			return &fs.PathError{Op: "writefile", Path: name, Err: fs.ErrNotExist}
		}
		if !dir.Mode.IsDir() {
			return &fs.PathError{Op: "writefile", Path: name, Err: syscall.ENOTDIR}
		}
	}
	if existing, exists := tfs.MapFS[name]; exists {
		if existing.Mode.IsDir() {
			return &fs.PathError{Op: "writefile", Path: name, Err: syscall.EISDIR}
		}
		perm = existing.Mode
	}
	tfs.MapFS[name] = &fstest.MapFile{
		Data: append([]byte(nil), data...),
		Mode: perm,
	}
	return nil
}

// MkdirAll implements WriteFS for testing
func (tfs *TestFileSystem) MkdirAll(p string, perm fs.FileMode) error {
	if !fs.ValidPath(p) {
		return &fs.PathError{Op: "mkdirall", Path: p, Err: fs.ErrInvalid}
	}
	if err := tfs.injected("mkdirall", p); err != nil {
		return err
	}
	if p == "." {
		return nil
	}
	current := ""
	for _, part := range splitPath(p) {
		current = path.Join(current, part)
		if existing, exists := tfs.MapFS[current]; exists {
			if !existing.Mode.IsDir() {
				return &fs.PathError{Op: "mkdir", Path: current, Err: syscall.ENOTDIR}
			}
			continue
		}
		tfs.MapFS[current] = &fstest.MapFile{
			Mode: perm | fs.ModeDir,
		}
	}
	return nil
}

// Chmod implements WriteFS for testing
func (tfs *TestFileSystem) Chmod(name string, mode fs.FileMode) error {
	if !fs.ValidPath(name) {
		return &fs.PathError{Op: "chmod", Path: name, Err: fs.ErrInvalid}
	}
	if err := tfs.injected("chmod", name); err != nil {
		return err
	}
	file, exists := tfs.MapFS[name]
	if !exists {
		return &fs.PathError{Op: "chmod", Path: name, Err: fs.ErrNotExist}
	}
	file.Mode = file.Mode&fs.ModeType | mode&fs.ModePerm
	return nil
}

// Stat implements StatFS for testing
func (tfs *TestFileSystem) Stat(name string) (fs.FileInfo, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
	}
	return tfs.MapFS.Stat(name)
}

func splitPath(p string) []string {
	var parts []string
	for p != "." && p != "" {
		parts = append([]string{path.Base(p)}, parts...)
		p = path.Dir(p)
	}
	return parts
}

// TestHelper provides utilities for testing scaffold operations
type TestHelper struct {
	t  *testing.T
	fs *TestFileSystem
}

// NewTestHelper creates a new test helper with a fresh filesystem
func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{
		t:  t,
		fs: NewTestFileSystem(),
	}
}

// FileSystem returns the test filesystem
func (th *TestHelper) FileSystem() *TestFileSystem {
	return th.fs
}

// WriteFile is a helper that writes a file and fails the test on error
func (th *TestHelper) WriteFile(name string, data []byte, perm fs.FileMode) {
	th.t.Helper()
	if err := th.fs.WriteFile(name, data, perm); err != nil {
		th.t.Fatalf("Failed to write file %s: %v", name, err)
	}
}

// MkdirAll is a helper that creates directories and fails the test on error
func (th *TestHelper) MkdirAll(path string, perm fs.FileMode) {
	th.t.Helper()
	if err := th.fs.MkdirAll(path, perm); err != nil {
		th.t.Fatalf("Failed to create directory %s: %v", path, err)
	}
}

// ReadFile is a helper that reads a file and fails the test on error
func (th *TestHelper) ReadFile(name string) []byte {
	th.t.Helper()
	data, err := th.fs.ReadFile(name)
	if err != nil {
		th.t.Fatalf("Failed to read file %s: %v", name, err)
	}
	return data
}

// FileExists checks if a file exists
func (th *TestHelper) FileExists(name string) bool {
	_, err := th.fs.Stat(name)
	return err == nil
}

// AssertDir checks that name exists and is a directory
func (th *TestHelper) AssertDir(name string) {
	th.t.Helper()
	info, err := th.fs.Stat(name)
	if err != nil {
		th.t.Errorf("Expected directory %s to exist: %v", name, err)
		return
	}
	if !info.IsDir() {
		th.t.Errorf("Expected %s to be a directory, mode %v", name, info.Mode())
	}
}

// AssertFileContent checks that a file has the expected content
func (th *TestHelper) AssertFileContent(name string, expected []byte) {
	th.t.Helper()
	actual := th.ReadFile(name)
	if string(actual) != string(expected) {
		th.t.Errorf("File %s content mismatch:\nExpected: %q\nActual: %q", name, expected, actual)
	}
}

// AssertMode checks the permission bits of a file
func (th *TestHelper) AssertMode(name string, expected fs.FileMode) {
	th.t.Helper()
	info, err := th.fs.Stat(name)
	if err != nil {
		th.t.Errorf("Failed to stat %s: %v", name, err)
		return
	}
	if info.Mode().Perm() != expected.Perm() {
		th.t.Errorf("File %s mode = %v, want %v", name, info.Mode().Perm(), expected.Perm())
	}
}

// AssertFileNotExists checks that a file does not exist
func (th *TestHelper) AssertFileNotExists(name string) {
	th.t.Helper()
	if th.FileExists(name) {
		th.t.Errorf("Expected file %s to not exist, but it does", name)
	}
}
