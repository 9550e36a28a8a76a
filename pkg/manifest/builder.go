package manifest

import (
	"io/fs"
	"path"
	"strings"
)

// Builder accumulates directories and files and produces a validated
// Manifest. Errors are reported by Build.
type Builder struct {
	dirs        []Directory
	files       []File
	executables []string
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Dir declares one or more directories.
func (b *Builder) Dir(paths ...string) *Builder {
	for _, p := range paths {
		b.dirs = append(b.dirs, Directory{Path: p})
	}
	return b
}

// File declares a regular file.
func (b *Builder) File(path, content string) *Builder {
	b.files = append(b.files, File{Path: path, Content: content})
	return b
}

// ExecutableFile declares a file that is made executable after writing.
func (b *Builder) ExecutableFile(path, content string) *Builder {
	b.files = append(b.files, File{Path: path, Content: content, Executable: true})
	return b
}

// Add declares files as given.
func (b *Builder) Add(files ...File) *Builder {
	b.files = append(b.files, files...)
	return b
}

// Executable adds paths to the executable allow-list. The paths do not have
// to be declared files; a missing path fails at run time.
func (b *Builder) Executable(paths ...string) *Builder {
	b.executables = append(b.executables, paths...)
	return b
}

// Build validates the accumulated entries and returns the Manifest.
func (b *Builder) Build() (Manifest, error) {
	return New(b.dirs, b.files, b.executables)
}

// New validates and copies the given entries into a Manifest. Duplicate
// directories are collapsed keeping their first position.
func New(dirs []Directory, files []File, executables []string) (Manifest, error) {
	var m Manifest

	seenDirs := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		p, err := cleanPath(d.Path)
		if err != nil {
			return Manifest{}, err
		}
		if seenDirs[p] {
			continue
		}
		seenDirs[p] = true
		m.dirs = append(m.dirs, Directory{Path: p})
	}

	seenFiles := make(map[string]bool, len(files))
	seenExec := make(map[string]bool)
	for _, f := range files {
		p, err := cleanPath(f.Path)
		if err != nil {
			return Manifest{}, err
		}
		if seenFiles[p] {
			return Manifest{}, &PathError{Path: p, Err: ErrDuplicatePath}
		}
		if seenDirs[p] {
			return Manifest{}, &PathError{Path: p, Err: ErrPathConflict}
		}
		seenFiles[p] = true
		f.Path = p
		m.files = append(m.files, f)
		if f.Executable && !seenExec[p] {
			seenExec[p] = true
			m.executables = append(m.executables, p)
		}
	}

	for _, e := range executables {
		p, err := cleanPath(e)
		if err != nil {
			return Manifest{}, err
		}
		if seenDirs[p] {
			return Manifest{}, &PathError{Path: p, Err: ErrPathConflict}
		}
		if seenExec[p] {
			continue
		}
		seenExec[p] = true
		m.executables = append(m.executables, p)
		for i := range m.files {
			if m.files[i].Path == p {
				m.files[i].Executable = true
			}
		}
	}

	return m, nil
}

// cleanPath normalizes a slash-separated relative path and rejects anything
// that would escape the scaffold root.
func cleanPath(p string) (string, error) {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" || strings.Contains(trimmed, "\\") {
		return "", &PathError{Path: p, Err: ErrInvalidPath}
	}
	cleaned := path.Clean(trimmed)
	if cleaned == "." || !fs.ValidPath(cleaned) {
		return "", &PathError{Path: p, Err: ErrInvalidPath}
	}
	return cleaned, nil
}
