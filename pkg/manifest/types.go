// Package manifest describes the directories and files a scaffold run
// materializes. A Manifest is immutable once built: constructors copy their
// inputs and accessors hand out copies.
package manifest

// Directory is a directory to create, relative to the scaffold root.
// Missing ancestors are created implicitly.
type Directory struct {
	Path string
}

// File is a file to write, relative to the scaffold root. Content may be a
// text/template until the manifest is rendered.
type File struct {
	Path       string
	Content    string
	Executable bool
}

// Manifest is the complete declarative description of a project skeleton.
type Manifest struct {
	dirs        []Directory
	files       []File
	executables []string
}

// Directories returns the declared directories in declaration order.
func (m Manifest) Directories() []Directory {
	out := make([]Directory, len(m.dirs))
	copy(out, m.dirs)
	return out
}

// Files returns the declared files in declaration order.
func (m Manifest) Files() []File {
	out := make([]File, len(m.files))
	copy(out, m.files)
	return out
}

// Executables returns the allow-list of paths that receive mode 0755 after
// all files are written. It holds every file flagged Executable plus any
// path added explicitly, in declaration order.
func (m Manifest) Executables() []string {
	out := make([]string, len(m.executables))
	copy(out, m.executables)
	return out
}

// File looks up a declared file by path.
func (m Manifest) File(path string) (File, bool) {
	for _, f := range m.files {
		if f.Path == path {
			return f, true
		}
	}
	return File{}, false
}

// IsExecutable reports whether path is on the executable allow-list.
func (m Manifest) IsExecutable(path string) bool {
	for _, p := range m.executables {
		if p == path {
			return true
		}
	}
	return false
}

// Len returns the number of directories and files in the manifest.
func (m Manifest) Len() int {
	return len(m.dirs) + len(m.files)
}
