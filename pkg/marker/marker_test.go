package marker

import (
	stderrors "errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/iconfolio/pkg/backup"
	"github.com/arthur-debert/iconfolio/pkg/codepage"
	"github.com/arthur-debert/iconfolio/pkg/errors"
	"github.com/arthur-debert/iconfolio/pkg/filesystem"
	"github.com/arthur-debert/iconfolio/pkg/platform"
	"github.com/arthur-debert/iconfolio/pkg/testutil"
	"github.com/arthur-debert/iconfolio/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stamp = time.Date(2024, 3, 5, 14, 30, 15, 0, time.Local)

type fakeRefresher struct {
	trees   []string
	folders []string
}

func (f *fakeRefresher) RefreshTree(root string) {
	f.trees = append(f.trees, root)
}

func (f *fakeRefresher) RefreshFolder(path string) types.RefreshOutcome {
	f.folders = append(f.folders, path)
	return types.RefreshOutcome{Folder: path, StructuralOK: true, CacheOK: true, Cache: types.CacheUnknown}
}

type fixture struct {
	root      string
	attrs     *testutil.FakeAttributes
	refresher *fakeRefresher
	sleeper   *testutil.Sleeper
	gen       *Generator
}

func newFixture(t *testing.T, tree testutil.Tree, mutate ...func(*Options)) *fixture {
	t.Helper()
	enc, err := codepage.Lookup("gbk")
	require.NoError(t, err)

	f := &fixture{
		root:      testutil.CreateTree(t, t.TempDir(), tree),
		attrs:     testutil.NewFakeAttributes(),
		refresher: &fakeRefresher{},
		sleeper:   &testutil.Sleeper{},
	}
	opts := Options{
		FS:               filesystem.NewOS(),
		Root:             f.root,
		Encoding:         enc,
		Attributes:       f.attrs,
		Backup:           backup.New(filesystem.NewOS(), testutil.FixedClock(stamp)),
		Refresher:        f.refresher,
		AbsoluteIconPath: true,
		MarkFolderSystem: true,
		PacingDelay:      200 * time.Millisecond,
		Sleep:            f.sleeper.Sleep,
	}
	for _, m := range mutate {
		m(&opts)
	}
	f.gen = NewGenerator(opts)
	return f
}

func (f *fixture) marker(folder string) string {
	return filepath.Join(f.root, folder, DefaultFileName)
}

func assertAccounted(t *testing.T, res *ApplyResult) {
	t.Helper()
	assert.Equal(t, res.Total, res.Skipped+res.Processed+len(res.Warnings)+len(res.Failures))
}

func cfgOf(entries ...types.FolderEntry) *types.Configuration {
	return types.NewConfiguration(entries...)
}

func TestApplyWritesMarker(t *testing.T) {
	f := newFixture(t, testutil.Tree{"A/bin/app.exe": "MZ"})
	f.attrs.Preset(filepath.Join(f.root, "A"), platform.AttrDirectory|platform.AttrReadOnly)

	res := f.gen.Apply(cfgOf(types.FolderEntry{FolderName: "A", Alias: "Alpha", IconRelativePath: "bin/app.exe"}), ApplyOptions{})
	assertAccounted(t, res)
	require.Equal(t, 1, res.Processed)

	want := "[.ShellClassInfo]\r\nLocalizedResourceName=Alpha\r\nIconResource=" +
		filepath.Join(f.root, "A", "bin", "app.exe") + ",0\r\n"
	testutil.AssertFileContent(t, f.marker("A"), want)

	markerAttrs, _ := f.attrs.Value(f.marker("A"))
	assert.Equal(t, platform.AttrHidden|platform.AttrSystem, markerAttrs)

	folderAttrs, _ := f.attrs.Value(filepath.Join(f.root, "A"))
	assert.Equal(t, platform.AttrDirectory|platform.AttrReadOnly|platform.AttrSystem, folderAttrs)
	assert.Empty(t, f.refresher.trees)
}

func TestApplyRelativeIconAndIndex(t *testing.T) {
	f := newFixture(t, testutil.Tree{"A/app.exe": "MZ"}, func(o *Options) {
		o.AbsoluteIconPath = false
		o.IconIndex = 2
		o.MarkFolderSystem = false
	})

	res := f.gen.Apply(cfgOf(types.FolderEntry{FolderName: "A", IconRelativePath: "app.exe"}), ApplyOptions{})
	require.Equal(t, 1, res.Processed)
	testutil.AssertFileContent(t, f.marker("A"),
		"[.ShellClassInfo]\r\nLocalizedResourceName=A\r\nIconResource=app.exe,2\r\n")

	_, touched := f.attrs.Value(filepath.Join(f.root, "A"))
	assert.False(t, touched)
}

func TestApplyIconResolutionScenario(t *testing.T) {
	f := newFixture(t, testutil.Tree{"A/other.exe": "MZ", "B/readme.txt": "x", "C/dir.exe/": ""})

	res := f.gen.Apply(cfgOf(
		types.FolderEntry{FolderName: "A", IconRelativePath: "tool.exe"},
		types.FolderEntry{FolderName: "B", IconRelativePath: "readme.txt"},
		types.FolderEntry{FolderName: "C", IconRelativePath: "dir.exe"},
	), ApplyOptions{ForceRefreshAfter: true})

	assertAccounted(t, res)
	assert.Equal(t, 0, res.Processed)
	require.Len(t, res.Warnings, 3)
	for _, w := range res.Warnings {
		assert.Equal(t, errors.ErrIconResolution, w.Code)
	}
	testutil.AssertNoFile(t, f.marker("A"))
	assert.Empty(t, f.refresher.trees, "nothing processed, nothing refreshed")
}

func TestApplyMissingFolder(t *testing.T) {
	f := newFixture(t, testutil.Tree{"A/app.exe": "MZ", "file.txt": "x"})

	res := f.gen.Apply(cfgOf(
		types.FolderEntry{FolderName: "Gone", IconRelativePath: "app.exe"},
		types.FolderEntry{FolderName: "file.txt", IconRelativePath: "app.exe"},
		types.FolderEntry{FolderName: "A", IconRelativePath: "app.exe"},
	), ApplyOptions{ForceRefreshAfter: true})

	assertAccounted(t, res)
	assert.Equal(t, 1, res.Processed)
	require.Len(t, res.Warnings, 2)
	assert.Equal(t, errors.ErrFolderMissing, res.Warnings[0].Code)
	assert.Empty(t, res.Failures)
	assert.Equal(t, []string{f.root}, f.refresher.trees)
	assert.True(t, res.Refreshed)
}

func TestApplySkipExistingNeverTouches(t *testing.T) {
	f := newFixture(t, testutil.Tree{
		"A/app.exe":     "MZ",
		"A/desktop.ini": "[.ShellClassInfo]\r\nLocalizedResourceName=Mine\r\n",
		"B/b.exe":       "MZ",
	})

	res := f.gen.Apply(cfgOf(
		types.FolderEntry{FolderName: "A", Alias: "New", IconRelativePath: "app.exe"},
		types.FolderEntry{FolderName: "B", IconRelativePath: "b.exe"},
	), ApplyOptions{SkipExisting: true})

	assertAccounted(t, res)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Processed)
	assert.Empty(t, res.Backups)
	testutil.AssertFileContent(t, f.marker("A"), "[.ShellClassInfo]\r\nLocalizedResourceName=Mine\r\n")
	assert.Empty(t, f.attrs.History(f.marker("A")))
	assert.Empty(t, f.attrs.History(filepath.Join(f.root, "A")))
}

func TestApplyOverwriteUnlocksAndBacksUp(t *testing.T) {
	old := "[.ShellClassInfo]\r\nLocalizedResourceName=Old\r\n"
	f := newFixture(t, testutil.Tree{"A/app.exe": "MZ", "A/desktop.ini": old})
	f.attrs.Preset(f.marker("A"), platform.AttrHidden|platform.AttrSystem|platform.AttrReadOnly)

	res := f.gen.Apply(cfgOf(types.FolderEntry{FolderName: "A", Alias: "New", IconRelativePath: "app.exe"}), ApplyOptions{})
	require.Equal(t, 1, res.Processed)

	require.Len(t, res.Backups, 1)
	assert.Equal(t, f.marker("A")+".bak.20240305143015", res.Backups[0])
	testutil.AssertFileContent(t, res.Backups[0], old)
	assert.Contains(t, testutil.ReadFile(t, f.marker("A")), "LocalizedResourceName=New\r\n")

	assert.Equal(t, []uint32{platform.AttrNormal, platform.AttrHidden | platform.AttrSystem}, f.attrs.History(f.marker("A")))
}

func TestApplyFailuresAreRecorded(t *testing.T) {
	t.Run("write failure", func(t *testing.T) {
		var fsys *testutil.FailingFS
		f := newFixture(t, testutil.Tree{"A/app.exe": "MZ", "B/b.exe": "MZ"}, func(o *Options) {
			fsys = testutil.NewFailingFS(o.FS)
			o.FS = fsys
		})
		fsys.WithError("WriteFile", f.marker("A"), stderrors.New("access denied"))

		res := f.gen.Apply(cfgOf(
			types.FolderEntry{FolderName: "A", IconRelativePath: "app.exe"},
			types.FolderEntry{FolderName: "B", IconRelativePath: "b.exe"},
		), ApplyOptions{})

		assertAccounted(t, res)
		assert.Equal(t, 1, res.Processed)
		require.Len(t, res.Failures, 1)
		assert.True(t, errors.IsErrorCode(res.Failures[0].Err, errors.ErrMarkerWrite))
	})

	t.Run("attribute failure", func(t *testing.T) {
		f := newFixture(t, testutil.Tree{"A/app.exe": "MZ"})
		f.attrs.SetFunc = func(path string, _ uint32) error {
			if filepath.Base(path) == DefaultFileName {
				return stderrors.New("sharing violation")
			}
			return nil
		}

		res := f.gen.Apply(cfgOf(types.FolderEntry{FolderName: "A", IconRelativePath: "app.exe"}), ApplyOptions{})
		assertAccounted(t, res)
		require.Len(t, res.Failures, 1)
		assert.True(t, errors.IsErrorCode(res.Failures[0].Err, errors.ErrAttributeOp))
	})

	t.Run("failed overwrite keeps the old marker hidden", func(t *testing.T) {
		locked := platform.AttrHidden | platform.AttrSystem | platform.AttrReadOnly
		old := "[.ShellClassInfo]\r\nLocalizedResourceName=Old\r\n"

		var fsys *testutil.FailingFS
		f := newFixture(t, testutil.Tree{"A/app.exe": "MZ", "A/desktop.ini": old}, func(o *Options) {
			fsys = testutil.NewFailingFS(o.FS)
			o.FS = fsys
		})
		f.attrs.Preset(f.marker("A"), locked)
		fsys.WithError("WriteFile", f.marker("A"), stderrors.New("access denied"))

		res := f.gen.Apply(cfgOf(types.FolderEntry{FolderName: "A", IconRelativePath: "app.exe"}), ApplyOptions{})
		require.Len(t, res.Failures, 1)

		testutil.AssertFileContent(t, f.marker("A"), old)
		got, _ := f.attrs.Value(f.marker("A"))
		assert.Equal(t, locked, got)
		assert.Equal(t, []uint32{platform.AttrNormal, locked}, f.attrs.History(f.marker("A")))
	})

	t.Run("failed hide restores the old bits", func(t *testing.T) {
		locked := platform.AttrHidden | platform.AttrSystem | platform.AttrReadOnly
		f := newFixture(t, testutil.Tree{"A/app.exe": "MZ", "A/desktop.ini": "[.ShellClassInfo]\r\n"})
		f.attrs.Preset(f.marker("A"), locked)
		f.attrs.SetFunc = func(path string, attrs uint32) error {
			if attrs == platform.AttrHidden|platform.AttrSystem {
				return stderrors.New("sharing violation")
			}
			return nil
		}

		res := f.gen.Apply(cfgOf(types.FolderEntry{FolderName: "A", IconRelativePath: "app.exe"}), ApplyOptions{})
		require.Len(t, res.Failures, 1)
		assert.True(t, errors.IsErrorCode(res.Failures[0].Err, errors.ErrAttributeOp))

		got, _ := f.attrs.Value(f.marker("A"))
		assert.Equal(t, locked, got)
	})

	t.Run("alias outside the encoding", func(t *testing.T) {
		cp1252, err := codepage.Lookup("cp1252")
		require.NoError(t, err)
		f := newFixture(t, testutil.Tree{"A/app.exe": "MZ"}, func(o *Options) { o.Encoding = cp1252 })

		res := f.gen.Apply(cfgOf(types.FolderEntry{FolderName: "A", Alias: "中文", IconRelativePath: "app.exe"}), ApplyOptions{})
		assertAccounted(t, res)
		require.Len(t, res.Failures, 1)
		testutil.AssertNoFile(t, f.marker("A"))
	})
}

func TestReadInfoAndAlias(t *testing.T) {
	f := newFixture(t, testutil.Tree{"A/app.exe": "MZ", "B/": ""})

	res := f.gen.Apply(cfgOf(types.FolderEntry{FolderName: "A", Alias: "应用程序", IconRelativePath: "app.exe"}), ApplyOptions{})
	require.Equal(t, 1, res.Processed)

	info, err := f.gen.ReadInfo(filepath.Join(f.root, "A"))
	require.NoError(t, err)
	assert.Equal(t, "应用程序", info.Alias)
	assert.Equal(t, filepath.Join(f.root, "A", "app.exe"), info.Icon)
	assert.Equal(t, 0, info.IconIndex)

	alias, ok := f.gen.Alias(filepath.Join(f.root, "A"))
	assert.True(t, ok)
	assert.Equal(t, "应用程序", alias)

	_, err = f.gen.ReadInfo(filepath.Join(f.root, "B"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	_, ok = f.gen.Alias(filepath.Join(f.root, "B"))
	assert.False(t, ok)
}

func TestReseat(t *testing.T) {
	content := "[.ShellClassInfo]\r\nLocalizedResourceName=A\r\n"
	f := newFixture(t, testutil.Tree{
		"A/desktop.ini": content,
		"B/desktop.ini": content,
		"C/app.exe":     "MZ",
	})
	f.attrs.Preset(f.marker("A"), platform.AttrHidden|platform.AttrSystem)

	res, err := f.gen.Reseat()
	require.NoError(t, err)

	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 2, res.Reseated)
	assert.Equal(t, 2, res.Refreshed)
	assert.Equal(t, []string{filepath.Join(f.root, "A"), filepath.Join(f.root, "B")}, f.refresher.folders)
	assert.Equal(t, []time.Duration{200 * time.Millisecond, 200 * time.Millisecond}, f.sleeper.Durations())

	testutil.AssertFileContent(t, f.marker("A"), content)
	testutil.AssertFileContent(t, f.marker("B"), content)
	a, _ := f.attrs.Value(f.marker("A"))
	assert.Equal(t, platform.AttrHidden|platform.AttrSystem, a)
	testutil.AssertNoFile(t, filepath.Join(f.root, ScratchDirName))
}

func TestReseatMoveFailureKeepsMarker(t *testing.T) {
	var fsys *testutil.FailingFS
	f := newFixture(t, testutil.Tree{"A/desktop.ini": "x"}, func(o *Options) {
		fsys = testutil.NewFailingFS(o.FS)
		o.FS = fsys
	})
	fsys.WithError("Rename", f.marker("A"), stderrors.New("in use"))

	res, err := f.gen.Reseat()
	require.NoError(t, err)
	assert.Equal(t, 0, res.Reseated)
	require.Len(t, res.Failures, 1)
	testutil.AssertFileContent(t, f.marker("A"), "x")
	assert.Empty(t, f.refresher.folders)
}

func TestParse(t *testing.T) {
	info, err := Parse("[.ShellClassInfo]\r\nIconResource=C:\\x\\y.exe , 3\r\n")
	require.NoError(t, err)
	assert.Equal(t, `C:\x\y.exe`, info.Icon)
	assert.Equal(t, 3, info.IconIndex)
	assert.Empty(t, info.Alias)

	_, err = Parse("[Other]\r\nA=1\r\n")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))

	icon, idx := splitIconResource("%SystemRoot%\\shell32.dll")
	assert.Equal(t, `%SystemRoot%\shell32.dll`, icon)
	assert.Equal(t, 0, idx)
}
