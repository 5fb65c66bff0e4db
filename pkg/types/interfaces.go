package types

import (
	"io/fs"
)

// FS is the slice of the filesystem the engines touch. Tests swap in a
// failing implementation to drive error paths.
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	// Lstat reports a symlink itself, so discovery can refuse to follow
	// linked directories.
	Lstat(name string) (fs.FileInfo, error)
	ReadDir(name string) ([]fs.DirEntry, error)
	ReadFile(name string) ([]byte, error)

	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	Rename(oldpath, newpath string) error
	Remove(name string) error
	RemoveAll(path string) error
}
