package backup

import (
	stderrors "errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/iconfolio/pkg/errors"
	"github.com/arthur-debert/iconfolio/pkg/filesystem"
	"github.com/arthur-debert/iconfolio/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stamp = time.Date(2024, 3, 5, 14, 30, 15, 0, time.Local)

func TestNames(t *testing.T) {
	b := New(filesystem.NewOS(), testutil.FixedClock(stamp))

	assert.Equal(t, filepath.Join("root", "folders-20240305_143015.txt"),
		b.ConfigName(filepath.Join("root", "folders.txt")))
	assert.Equal(t, filepath.Join("root", "A", "desktop.ini.bak.20240305143015"),
		b.MarkerName(filepath.Join("root", "A", "desktop.ini")))
}

func TestConfigBackup(t *testing.T) {
	dir := t.TempDir()
	b := New(filesystem.NewOS(), testutil.FixedClock(stamp))

	t.Run("missing source is not an error", func(t *testing.T) {
		dst, err := b.Config(filepath.Join(dir, "folders.txt"))
		require.NoError(t, err)
		assert.Empty(t, dst)
	})

	t.Run("copies bytes unchanged", func(t *testing.T) {
		src := testutil.CreateBytes(t, dir, "folders.txt", []byte{'[', 0xD6, 0xD0, ']'})

		dst, err := b.Config(src)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "folders-20240305_143015.txt"), dst)
		assert.Equal(t, []byte{'[', 0xD6, 0xD0, ']'}, testutil.ReadBytes(t, dst))
	})

	t.Run("same second does not clobber", func(t *testing.T) {
		dst, err := b.Config(filepath.Join(dir, "folders.txt"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "folders-20240305_143015-2.txt"), dst)
	})
}

func TestMarkerBackup(t *testing.T) {
	dir := t.TempDir()
	src := testutil.CreateFile(t, dir, "desktop.ini", "[.ShellClassInfo]\r\n")
	b := New(filesystem.NewOS(), testutil.FixedClock(stamp))

	dst, err := b.Marker(src)
	require.NoError(t, err)
	assert.Equal(t, src+".bak.20240305143015", dst)
	testutil.AssertFileContent(t, dst, "[.ShellClassInfo]\r\n")

	dst, err = b.Marker(src)
	require.NoError(t, err)
	assert.Equal(t, src+".bak.20240305143015-2", dst)
}

func TestSuccessiveBackupsFollowTheClock(t *testing.T) {
	dir := t.TempDir()
	src := testutil.CreateFile(t, dir, "desktop.ini", "[.ShellClassInfo]\r\n")
	b := New(filesystem.NewOS(), testutil.TickingClock(stamp, time.Second))

	first, err := b.Marker(src)
	require.NoError(t, err)
	second, err := b.Marker(src)
	require.NoError(t, err)

	assert.Equal(t, src+".bak.20240305143015", first)
	assert.Equal(t, src+".bak.20240305143016", second)
}

func TestBackupWriteFailure(t *testing.T) {
	dir := t.TempDir()
	src := testutil.CreateFile(t, dir, "folders.txt", "[A]\n")
	b := New(filesystem.NewOS(), testutil.FixedClock(stamp))
	fsys := testutil.NewFailingFS(filesystem.NewOS()).
		WithError("WriteFile", b.ConfigName(src), stderrors.New("disk full"))

	_, err := New(fsys, testutil.FixedClock(stamp)).Config(src)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBackup))
}

func TestIsMarkerBackup(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"desktop.ini.bak.20240305143015", true},
		{"DESKTOP.INI.BAK.20240305143015", true},
		{"desktop.ini.bak", true},
		{"desktop.ini", false},
		{"notes.txt", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMarkerBackup(tt.name, "desktop.ini"))
		})
	}
}
