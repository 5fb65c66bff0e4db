package testutil

import (
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/iconfolio/pkg/types"
)

// FailingFS wraps a types.FS and returns an injected error for chosen
// operation and path pairs. Operations are named after the FS method,
// e.g. "WriteFile" or "Remove".
type FailingFS struct {
	types.FS

	mu     sync.Mutex
	errors map[string]error
}

// NewFailingFS wraps inner
func NewFailingFS(inner types.FS) *FailingFS {
	return &FailingFS{FS: inner, errors: make(map[string]error)}
}

// WithError makes op on path fail with err
func (f *FailingFS) WithError(op, path string, err error) *FailingFS {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors[op+"|"+filepath.Clean(path)] = err
	return f
}

func (f *FailingFS) injected(op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors[op+"|"+filepath.Clean(path)]
}

func (f *FailingFS) Stat(name string) (fs.FileInfo, error) {
	if err := f.injected("Stat", name); err != nil {
		return nil, err
	}
	return f.FS.Stat(name)
}

func (f *FailingFS) ReadFile(name string) ([]byte, error) {
	if err := f.injected("ReadFile", name); err != nil {
		return nil, err
	}
	return f.FS.ReadFile(name)
}

func (f *FailingFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err := f.injected("WriteFile", name); err != nil {
		return err
	}
	return f.FS.WriteFile(name, data, perm)
}

func (f *FailingFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if err := f.injected("ReadDir", name); err != nil {
		return nil, err
	}
	return f.FS.ReadDir(name)
}

func (f *FailingFS) Remove(name string) error {
	if err := f.injected("Remove", name); err != nil {
		return err
	}
	return f.FS.Remove(name)
}

func (f *FailingFS) Rename(oldpath, newpath string) error {
	if err := f.injected("Rename", oldpath); err != nil {
		return err
	}
	return f.FS.Rename(oldpath, newpath)
}
