package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateBytes writes raw bytes below dir, creating parents. Use it for
// content already in a legacy encoding.
func CreateBytes(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755), "parents of %s", path)
	require.NoError(t, os.WriteFile(path, content, 0644), "write %s", path)
	return path
}

// CreateFile writes content below dir, creating parents
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	return CreateBytes(t, dir, name, []byte(content))
}

// CreateDir creates parent/name and returns its path
func CreateDir(t *testing.T, parent, name string) string {
	t.Helper()
	path := filepath.Join(parent, name)
	require.NoError(t, os.MkdirAll(path, 0755), "mkdir %s", path)
	return path
}

// CreateSymlink links link to target, skipping the test where the process
// may not create symlinks (unprivileged Windows)
func CreateSymlink(t *testing.T, target, link string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(link), 0755))
	if err := os.Symlink(target, link); err != nil {
		if os.PathSeparator == '\\' {
			t.Skipf("symlinks unavailable: %v", err)
		}
		require.NoError(t, err, "symlink %s -> %s", link, target)
	}
}

// FileExists reports whether path is an existing regular file
func FileExists(t *testing.T, path string) bool {
	t.Helper()
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// DirExists reports whether path is an existing directory
func DirExists(t *testing.T, path string) bool {
	t.Helper()
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ReadBytes returns the raw content of path
func ReadBytes(t *testing.T, path string) []byte {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err, "read %s", path)
	return content
}

// ReadFile returns the content of path as a string
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	return string(ReadBytes(t, path))
}

// AssertFileContent fails unless path holds exactly expected
func AssertFileContent(t *testing.T, path, expected string) {
	t.Helper()
	require.True(t, FileExists(t, path), "%s does not exist", path)
	require.Equal(t, expected, ReadFile(t, path), "content of %s", path)
}

// AssertNoFile fails if anything exists at path
func AssertNoFile(t *testing.T, path string) {
	t.Helper()
	_, err := os.Lstat(path)
	require.True(t, os.IsNotExist(err), "%s exists but should not", path)
}

// AssertCRLF fails if content has a bare LF line ending; the shell reads
// markers and folders.txt written with CRLF only
func AssertCRLF(t *testing.T, content string) {
	t.Helper()
	bare := strings.Count(content, "\n") - strings.Count(content, "\r\n")
	require.Zero(t, bare, "%d bare LF line endings in %q", bare, content)
}

// Chmod changes the mode of path
func Chmod(t *testing.T, path string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.Chmod(path, mode), "chmod %s", path)
}
