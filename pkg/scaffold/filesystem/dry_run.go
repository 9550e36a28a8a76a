package filesystem

import (
	"errors"
	"io/fs"
	"path"
	"syscall"
	"testing/fstest"
)

// DryRunFS is a filesystem wrapper that simulates writes in memory on top
// of a read-only base. Reads see simulated writes first and fall back to
// the base, so a dry run reports the same collisions a real run would hit.
type DryRunFS struct {
	base  StatFS
	memFS *TestFileSystem
}

// NewDryRunFS creates a DryRunFS over base. A nil base behaves like an
// empty filesystem.
func NewDryRunFS(base StatFS) *DryRunFS {
	return &DryRunFS{
		base:  base,
		memFS: NewTestFileSystem(),
	}
}

// Open opens the named file for reading.
func (d *DryRunFS) Open(name string) (fs.File, error) {
	if _, ok := d.memFS.MapFS[name]; ok || d.base == nil {
		return d.memFS.Open(name)
	}
	return d.base.Open(name)
}

// Stat returns a FileInfo describing the named file.
func (d *DryRunFS) Stat(name string) (fs.FileInfo, error) {
	if _, ok := d.memFS.MapFS[name]; ok || d.base == nil {
		return d.memFS.Stat(name)
	}
	return d.base.Stat(name)
}

// ReadFile reads a file, preferring simulated content.
func (d *DryRunFS) ReadFile(name string) ([]byte, error) {
	if _, ok := d.memFS.MapFS[name]; ok || d.base == nil {
		return d.memFS.ReadFile(name)
	}
	return fs.ReadFile(d.base, name)
}

// WriteFile records a write of name.
func (d *DryRunFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err := d.adoptParents(name); err != nil {
		return err
	}
	if info, err := d.baseStat(name); err == nil {
		if info.IsDir() {
			return &fs.PathError{Op: "writefile", Path: name, Err: syscall.EISDIR}
		}
		if _, ok := d.memFS.MapFS[name]; !ok {
			perm = info.Mode().Perm()
		}
	}
	return d.memFS.WriteFile(name, data, perm)
}

// MkdirAll records the creation of p and its parents.
func (d *DryRunFS) MkdirAll(p string, perm fs.FileMode) error {
	if !fs.ValidPath(p) {
		return &fs.PathError{Op: "mkdirall", Path: p, Err: fs.ErrInvalid}
	}
	if err := d.adoptParents(path.Join(p, "_")); err != nil {
		return err
	}
	return d.memFS.MkdirAll(p, perm)
}

// Chmod records a permission change. Files only present in the base are
// copied into the overlay first.
func (d *DryRunFS) Chmod(name string, mode fs.FileMode) error {
	if _, ok := d.memFS.MapFS[name]; !ok {
		info, err := d.baseStat(name)
		if err != nil {
			return &fs.PathError{Op: "chmod", Path: name, Err: fs.ErrNotExist}
		}
		entry := &fstest.MapFile{Mode: info.Mode()}
		if !info.IsDir() {
			data, err := fs.ReadFile(d.base, name)
			if err != nil {
				return err
			}
			entry.Data = data
		}
		d.memFS.MapFS[name] = entry
	}
	return d.memFS.Chmod(name, mode)
}

func (d *DryRunFS) baseStat(name string) (fs.FileInfo, error) {
	if d.base == nil {
		return nil, fs.ErrNotExist
	}
	return d.base.Stat(name)
}

// adoptParents mirrors the base's view of every ancestor of name into the
// overlay so collisions with existing files surface during a dry run.
func (d *DryRunFS) adoptParents(name string) error {
	current := ""
	parts := splitPath(path.Dir(name))
	for _, part := range parts {
		current = path.Join(current, part)
		if _, ok := d.memFS.MapFS[current]; ok {
			continue
		}
		info, err := d.baseStat(current)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		if info.IsDir() {
			d.memFS.MapFS[current] = &fstest.MapFile{Mode: info.Mode()}
			continue
		}
		d.memFS.MapFS[current] = &fstest.MapFile{Mode: info.Mode().Perm()}
		return nil
	}
	return nil
}
