package filesystem

import (
	"io/fs"
)

// WriteFS defines the write operations the scaffolder needs.
type WriteFS interface {
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	Chmod(name string, mode fs.FileMode) error
}

// StatFS is a read-only filesystem that can also stat entries.
type StatFS interface {
	fs.FS
	Stat(name string) (fs.FileInfo, error)
}

// FileSystem combines read, stat and write operations.
type FileSystem interface {
	StatFS
	WriteFS
}
