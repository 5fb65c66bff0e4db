package filesystem

import (
	"io/fs"
	"os"

	"github.com/arthur-debert/iconfolio/pkg/types"
)

// OS is types.FS on the real disk. Paths are used as given; callers join
// them onto the operating root.
type OS struct{}

var _ types.FS = OS{}

// NewOS returns the disk filesystem
func NewOS() types.FS {
	return OS{}
}

func (OS) Stat(name string) (fs.FileInfo, error)  { return os.Stat(name) }
func (OS) Lstat(name string) (fs.FileInfo, error) { return os.Lstat(name) }

func (OS) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

func (OS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (OS) MkdirAll(path string, perm fs.FileMode) error { return os.MkdirAll(path, perm) }
func (OS) ReadDir(name string) ([]fs.DirEntry, error)   { return os.ReadDir(name) }

func (OS) Remove(name string) error    { return os.Remove(name) }
func (OS) RemoveAll(path string) error { return os.RemoveAll(path) }

// Rename moves a file; on Windows the target must not exist
func (OS) Rename(oldpath, newpath string) error { return os.Rename(oldpath, newpath) }
