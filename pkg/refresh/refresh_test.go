package refresh

import (
	stderrors "errors"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/arthur-debert/iconfolio/pkg/config"
	"github.com/arthur-debert/iconfolio/pkg/errors"
	"github.com/arthur-debert/iconfolio/pkg/filesystem"
	"github.com/arthur-debert/iconfolio/pkg/platform"
	"github.com/arthur-debert/iconfolio/pkg/testutil"
	"github.com/arthur-debert/iconfolio/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	settle  = 50 * time.Millisecond
	between = 20 * time.Millisecond
	toggle  = 7 * time.Millisecond
	pacing  = 3 * time.Millisecond
)

var errDenied = stderrors.New("access denied")

type fixture struct {
	root    string
	fs      types.FS
	attrs   *testutil.FakeAttributes
	shell   *testutil.FakeShell
	sleeper *testutil.Sleeper
	env     map[string]string
	opts    Options
}

func newFixture(t *testing.T, tree testutil.Tree) *fixture {
	t.Helper()
	defaults := config.Defaults()

	f := &fixture{
		root:    testutil.CreateTree(t, t.TempDir(), tree),
		fs:      filesystem.NewOS(),
		attrs:   testutil.NewFakeAttributes(),
		shell:   testutil.NewFakeShell(),
		sleeper: &testutil.Sleeper{},
		env:     map[string]string{},
	}
	refresh := defaults.Refresh
	refresh.SettleDelay = settle
	refresh.AttemptDelay = between
	refresh.ToggleDelay = toggle
	refresh.PacingDelay = pacing

	f.opts = Options{
		Root:       f.root,
		Attributes: f.attrs,
		Shell:      f.shell,
		Refresh:    refresh,
		Rebuild:    defaults.Rebuild,
		Sleep:      f.sleeper.Sleep,
		Getenv:     func(k string) string { return f.env[k] },
	}
	return f
}

func (f *fixture) orchestrator() *Orchestrator {
	if f.opts.FS == nil {
		f.opts.FS = f.fs
	}
	return NewOrchestrator(f.opts)
}

func (f *fixture) path(rel string) string {
	return filepath.Join(f.root, filepath.FromSlash(rel))
}

func TestRefreshFolder_LookupConfirms(t *testing.T) {
	f := newFixture(t, testutil.ScenarioTree())
	dir := f.path("A")

	outcome := f.orchestrator().RefreshFolder(dir)

	assert.True(t, outcome.StructuralOK)
	assert.True(t, outcome.CacheOK)
	assert.Equal(t, types.CacheConfirmed, outcome.Cache)
	assert.Equal(t, TierIconLookup, outcome.Tier)
	assert.Equal(t, 1, outcome.Attempts)
	assert.NoError(t, outcome.Err)

	assert.Equal(t, []string{
		"updatedir " + dir,
		"lookup-small " + dir,
		"lookup-large " + dir,
		"updatedir " + dir,
	}, f.shell.Calls())
	assert.Equal(t, []uint32{
		platform.AttrDirectory | platform.AttrSystem,
		platform.AttrDirectory,
	}, f.attrs.History(dir))
	assert.Equal(t, []time.Duration{settle, settle}, f.sleeper.Durations())
}

func TestRefreshFolder_LargeLookupIsEnough(t *testing.T) {
	f := newFixture(t, testutil.ScenarioTree())
	f.shell.LookupIconFunc = func(_ string, large bool) (bool, error) {
		return large, nil
	}

	outcome := f.orchestrator().RefreshFolder(f.path("A"))
	assert.Equal(t, types.CacheConfirmed, outcome.Cache)
}

func TestRefreshFolder_ToggleWhenLookupFails(t *testing.T) {
	f := newFixture(t, testutil.ScenarioTree())
	f.shell.LookupIconFunc = func(string, bool) (bool, error) { return false, errDenied }
	dir := f.path("A")

	outcome := f.orchestrator().RefreshFolder(dir)

	assert.True(t, outcome.StructuralOK)
	assert.True(t, outcome.CacheOK)
	assert.Equal(t, types.CacheUnknown, outcome.Cache)
	assert.Equal(t, TierAttributeToggle, outcome.Tier)

	sys := platform.AttrDirectory | platform.AttrSystem
	assert.Equal(t, []uint32{sys, sys | platform.AttrReadOnly, sys, platform.AttrDirectory}, f.attrs.History(dir))
	assert.Equal(t, []time.Duration{settle, toggle, settle}, f.sleeper.Durations())
}

func TestRefreshFolder_TouchWhenToggleFails(t *testing.T) {
	f := newFixture(t, testutil.ScenarioTree())
	f.shell.LookupIconFunc = func(string, bool) (bool, error) { return false, nil }
	f.attrs.SetFunc = func(_ string, attrs uint32) error {
		if attrs&platform.AttrReadOnly != 0 {
			return errDenied
		}
		return nil
	}
	dir := f.path("A")

	outcome := f.orchestrator().RefreshFolder(dir)

	assert.Equal(t, types.CacheUnknown, outcome.Cache)
	assert.Equal(t, TierTouch, outcome.Tier)
	testutil.AssertNoFile(t, filepath.Join(dir, f.opts.Refresh.ScratchFile))
}

func TestRefreshFolder_AllTiersFail(t *testing.T) {
	f := newFixture(t, testutil.ScenarioTree())
	dir := f.path("A")
	f.shell.LookupIconFunc = func(string, bool) (bool, error) { return false, nil }
	f.attrs.SetFunc = func(_ string, attrs uint32) error {
		if attrs&platform.AttrReadOnly != 0 {
			return errDenied
		}
		return nil
	}
	f.opts.FS = testutil.NewFailingFS(f.fs).
		WithError("WriteFile", filepath.Join(dir, f.opts.Refresh.ScratchFile), errDenied)

	outcome := f.orchestrator().RefreshFolder(dir)

	assert.True(t, outcome.StructuralOK, "the bracket held even though the cache did not move")
	assert.False(t, outcome.CacheOK)
	assert.Equal(t, types.CacheFailed, outcome.Cache)
	assert.Equal(t, 3, outcome.Attempts)
	assert.Empty(t, outcome.Tier)

	assert.Len(t, f.shell.CallsWithPrefix("lookup-small"), 3)
	assert.Equal(t, []time.Duration{settle, between, between, settle}, f.sleeper.Durations())

	current, ok := f.attrs.Value(dir)
	require.True(t, ok)
	assert.Equal(t, platform.AttrDirectory, current, "original bitmask restored")
}

func TestRefreshFolder_AttemptBudget(t *testing.T) {
	f := newFixture(t, testutil.ScenarioTree())
	runs := 0
	f.opts.Refresh.Attempts = 5
	f.opts.Tiers = []Tier{{Name: "never", Run: func(string) (bool, error) {
		runs++
		return false, nil
	}}}

	outcome := f.orchestrator().RefreshFolder(f.path("A"))

	assert.Equal(t, 5, runs)
	assert.Equal(t, 5, outcome.Attempts)
	assert.Equal(t, types.CacheFailed, outcome.Cache)
}

func TestRefreshFolder_StopsAtFirstSuccess(t *testing.T) {
	f := newFixture(t, testutil.ScenarioTree())
	var order []string
	tier := func(name string, ok bool) Tier {
		return Tier{Name: name, Run: func(string) (bool, error) {
			order = append(order, name)
			return ok, nil
		}}
	}
	f.opts.Tiers = []Tier{tier("first", false), tier("second", true), tier("third", true)}

	outcome := f.orchestrator().RefreshFolder(f.path("A"))

	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, "second", outcome.Tier)
	assert.Equal(t, types.CacheUnknown, outcome.Cache, "tiers without readback cannot confirm")
}

func TestRefreshFolder_PanickingTierIsAFailure(t *testing.T) {
	f := newFixture(t, testutil.ScenarioTree())
	dir := f.path("A")
	f.opts.Tiers = []Tier{
		{Name: "boom", Run: func(string) (bool, error) { panic("tier exploded") }},
		{Name: "fallback", Run: func(string) (bool, error) { return true, nil }},
	}

	var outcome types.RefreshOutcome
	require.NotPanics(t, func() { outcome = f.orchestrator().RefreshFolder(dir) })

	assert.Equal(t, "fallback", outcome.Tier)
	current, _ := f.attrs.Value(dir)
	assert.Equal(t, platform.AttrDirectory, current)
}

func TestRefreshFolder_FallsBackToAttrib(t *testing.T) {
	f := newFixture(t, testutil.ScenarioTree())
	dir := f.path("A")
	f.attrs.SetFunc = func(_ string, attrs uint32) error {
		if attrs&platform.AttrSystem != 0 {
			return errDenied
		}
		return nil
	}

	outcome := f.orchestrator().RefreshFolder(dir)

	assert.True(t, outcome.StructuralOK)
	assert.Equal(t, []string{"attrib +s " + dir}, f.shell.CallsWithPrefix("attrib"))
	assert.Equal(t, []uint32{platform.AttrDirectory}, f.attrs.History(dir))
}

func TestRefreshFolder_SystemBitUnavailable(t *testing.T) {
	f := newFixture(t, testutil.ScenarioTree())
	dir := f.path("A")
	f.attrs.SetFunc = func(string, uint32) error { return errDenied }
	f.shell.ForceSystemFunc = func(string) error { return errDenied }

	outcome := f.orchestrator().RefreshFolder(dir)

	assert.False(t, outcome.StructuralOK)
	assert.True(t, errors.IsErrorCode(outcome.Err, errors.ErrAttributeOp))
	assert.Empty(t, f.shell.CallsWithPrefix("lookup"), "no tier runs without the bracket")
	assert.Len(t, f.shell.CallsWithPrefix("updatedir"), 2)
}

func TestRefreshFolder_UnreadableAttributes(t *testing.T) {
	f := newFixture(t, testutil.ScenarioTree())
	f.attrs.GetFunc = func(string) error { return errDenied }

	outcome := f.orchestrator().RefreshFolder(f.path("A"))

	assert.False(t, outcome.StructuralOK)
	assert.Equal(t, types.CacheFailed, outcome.Cache)
	assert.Empty(t, f.shell.CallsWithPrefix("lookup"))
}

func TestRefreshFolder_RestoreFailure(t *testing.T) {
	f := newFixture(t, testutil.ScenarioTree())
	f.attrs.SetFunc = func(_ string, attrs uint32) error {
		if attrs == platform.AttrDirectory {
			return errDenied
		}
		return nil
	}

	outcome := f.orchestrator().RefreshFolder(f.path("A"))

	assert.False(t, outcome.StructuralOK)
	assert.True(t, outcome.CacheOK)
	assert.True(t, errors.IsErrorCode(outcome.Err, errors.ErrAttributeOp))
}

func TestRefreshFolder_PreservesOriginalBits(t *testing.T) {
	f := newFixture(t, testutil.ScenarioTree())
	dir := f.path("A")
	original := platform.AttrDirectory | platform.AttrHidden | platform.AttrArchive
	f.attrs.Preset(dir, original)
	f.shell.LookupIconFunc = func(string, bool) (bool, error) { return false, nil }

	f.orchestrator().RefreshFolder(dir)

	current, _ := f.attrs.Value(dir)
	assert.Equal(t, original, current)
}

func TestRefreshFolders_NoEarlyAbort(t *testing.T) {
	f := newFixture(t, testutil.ScenarioTree())
	a, b, c := f.path("A"), f.path("B"), f.path("C")
	f.attrs.GetFunc = func(path string) error {
		if path == b {
			return errDenied
		}
		return nil
	}

	summary := f.orchestrator().RefreshFolders([]string{a, b, c})

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.SuccessCount)
	assert.Equal(t, 0, summary.CacheFailCount)
	require.Len(t, summary.Outcomes, 3)
	assert.False(t, summary.Outcomes[1].StructuralOK)
	assert.True(t, summary.Outcomes[2].StructuralOK)

	paced := 0
	for _, d := range f.sleeper.Durations() {
		if d == pacing {
			paced++
		}
	}
	assert.Equal(t, 2, paced)
}

func TestRefreshFolders_CountsCacheFailures(t *testing.T) {
	f := newFixture(t, testutil.ScenarioTree())
	f.opts.Tiers = []Tier{{Name: "never", Run: func(string) (bool, error) { return false, nil }}}

	summary := f.orchestrator().RefreshFolders([]string{f.path("A"), f.path("C")})

	assert.Equal(t, 2, summary.SuccessCount)
	assert.Equal(t, 2, summary.CacheFailCount)
}

func TestRefreshAll_RefreshesThenRebuilds(t *testing.T) {
	f := newFixture(t, testutil.ToolsTree())

	summary, rebuild, err := f.orchestrator().RefreshAll()
	require.NoError(t, err)
	require.NotNil(t, rebuild)

	assert.Equal(t, 3, summary.Total, "dot folders are not refreshed")
	assert.Equal(t, 3, summary.SuccessCount)
	assert.True(t, rebuild.Relaunched)

	calls := f.shell.Calls()
	last := calls[len(calls)-1]
	assert.Equal(t, "open "+f.root, last)
	assert.Equal(t, []string{"terminate explorer.exe"}, f.shell.CallsWithPrefix("terminate"))
}

func TestRefreshAll_EmptyRootSkipsRebuild(t *testing.T) {
	f := newFixture(t, testutil.Tree{"notes.txt": "x"})

	summary, rebuild, err := f.orchestrator().RefreshAll()
	require.NoError(t, err)

	assert.Zero(t, summary.Total)
	assert.Nil(t, rebuild)
	assert.Empty(t, f.shell.Calls())
}

func TestRefreshAll_RequiresRoot(t *testing.T) {
	f := newFixture(t, testutil.ScenarioTree())
	f.opts.Root = ""

	_, _, err := f.orchestrator().RefreshAll()
	assert.True(t, errors.IsErrorCode(err, errors.ErrNoOperatingDir))
}

func TestRefreshTree(t *testing.T) {
	f := newFixture(t, testutil.ScenarioTree())

	f.orchestrator().RefreshTree(f.root)

	assert.Equal(t, []string{"assocchanged", "updatedir " + f.root}, f.shell.Calls())
}

// cacheFixture lays out a fake LOCALAPPDATA with icon cache files and
// unrelated neighbours.
func cacheFixture(t *testing.T, f *fixture) string {
	t.Helper()
	local := testutil.CreateTree(t, t.TempDir(), testutil.Tree{
		"IconCache.db":                                "cache",
		"notes.txt":                                   "keep",
		"Microsoft/Windows/Explorer/iconcache_32.db":  "cache",
		"Microsoft/Windows/Explorer/ICONCACHE_idx.db": "cache",
		"Microsoft/Windows/Explorer/thumbcache_32.db": "keep",
		"Microsoft/Windows/Explorer/iconcache_dir/":   "",
	})
	f.env["LOCALAPPDATA"] = local
	return local
}

func TestRebuild_Sequence(t *testing.T) {
	f := newFixture(t, testutil.ScenarioTree())
	local := cacheFixture(t, f)
	explorer := filepath.Join(local, "Microsoft", "Windows", "Explorer")

	result, err := f.orchestrator().Rebuild()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"terminate explorer.exe",
		"launch explorer.exe",
		"run ie4uinit.exe -ClearIconCache",
		"open " + f.root,
	}, f.shell.Calls())
	assert.True(t, result.Terminated)
	assert.True(t, result.Relaunched)
	assert.False(t, result.Recovered)
	assert.True(t, result.CacheCleared)
	assert.True(t, result.Opened)

	deleted := append([]string(nil), result.Deleted...)
	sort.Strings(deleted)
	assert.Equal(t, []string{
		filepath.Join(local, "IconCache.db"),
		filepath.Join(explorer, "ICONCACHE_idx.db"),
		filepath.Join(explorer, "iconcache_32.db"),
	}, deleted)
	assert.True(t, testutil.FileExists(t, filepath.Join(local, "notes.txt")))
	assert.True(t, testutil.FileExists(t, filepath.Join(explorer, "thumbcache_32.db")))
	assert.True(t, testutil.DirExists(t, filepath.Join(explorer, "iconcache_dir")))

	d := f.opts.Rebuild
	assert.Equal(t, []time.Duration{d.KillSettle, d.PurgeSettle, d.RelaunchSettle, d.OpenSettle}, f.sleeper.Durations())
}

func TestRebuild_UnsetVariableSkipsPattern(t *testing.T) {
	f := newFixture(t, testutil.ScenarioTree())

	result, err := f.orchestrator().Rebuild()
	require.NoError(t, err)

	assert.Empty(t, result.Deleted)
	assert.Empty(t, result.DeleteFailures)
	assert.True(t, result.Relaunched)
}

func TestRebuild_DeleteFailureContinues(t *testing.T) {
	f := newFixture(t, testutil.ScenarioTree())
	local := cacheFixture(t, f)
	locked := filepath.Join(local, "IconCache.db")
	f.opts.FS = testutil.NewFailingFS(f.fs).WithError("Remove", locked, errDenied)

	result, err := f.orchestrator().Rebuild()
	require.NoError(t, err)

	assert.Equal(t, []string{locked}, result.DeleteFailures)
	assert.Len(t, result.Deleted, 2)
	assert.True(t, result.Relaunched)
}

func TestRebuild_TerminateFailureContinues(t *testing.T) {
	f := newFixture(t, testutil.ScenarioTree())
	f.shell.TerminateFunc = func(string) error { return errDenied }

	result, err := f.orchestrator().Rebuild()
	require.NoError(t, err)

	assert.False(t, result.Terminated)
	assert.True(t, result.Relaunched)
}

func TestRebuild_GuardRecoversFailedLaunch(t *testing.T) {
	f := newFixture(t, testutil.ScenarioTree())
	launches := 0
	f.shell.LaunchFunc = func(string, ...string) error {
		launches++
		if launches == 1 {
			return errDenied
		}
		return nil
	}

	result, err := f.orchestrator().Rebuild()
	require.NoError(t, err)

	assert.False(t, result.Relaunched)
	assert.True(t, result.Recovered)
	assert.False(t, result.CacheCleared)
	assert.Equal(t, 2, launches)

	// the recovered shell still shows the operating root
	assert.True(t, result.Opened)
	assert.Equal(t, []string{"open " + f.root}, f.shell.CallsWithPrefix("open"))
}

func TestRebuild_GuardRetriesOnceThenReports(t *testing.T) {
	f := newFixture(t, testutil.ScenarioTree())
	f.shell.LaunchFunc = func(string, ...string) error { return errDenied }

	result, err := f.orchestrator().Rebuild()

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrShellRecovery))
	assert.False(t, result.Recovered)
	assert.Len(t, f.shell.CallsWithPrefix("launch"), 3)
	assert.Empty(t, f.shell.CallsWithPrefix("open"))
}

func TestRebuild_GuardRunsOnPanic(t *testing.T) {
	f := newFixture(t, testutil.ScenarioTree())
	f.shell.TerminateFunc = func(string) error { panic("taskkill crashed") }
	o := f.orchestrator()

	assert.Panics(t, func() { _, _ = o.Rebuild() })
	assert.Equal(t, []string{"launch explorer.exe"}, f.shell.CallsWithPrefix("launch"))
}

func TestRebuild_ClearCommandFailureIsNotFatal(t *testing.T) {
	f := newFixture(t, testutil.ScenarioTree())
	f.shell.RunFunc = func(string, ...string) error { return errDenied }

	result, err := f.orchestrator().Rebuild()
	require.NoError(t, err)

	assert.False(t, result.CacheCleared)
	assert.True(t, result.Opened)
}

func TestRebuild_NoRootNoOpen(t *testing.T) {
	f := newFixture(t, testutil.ScenarioTree())
	f.opts.Root = ""

	result, err := f.orchestrator().Rebuild()
	require.NoError(t, err)

	assert.False(t, result.Opened)
	assert.Empty(t, f.shell.CallsWithPrefix("open"))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "refreshed, cache confirmed",
		Describe(types.RefreshOutcome{StructuralOK: true, CacheOK: true, Cache: types.CacheConfirmed}))
	assert.Contains(t,
		Describe(types.RefreshOutcome{StructuralOK: true, CacheOK: true, Cache: types.CacheUnknown, Tier: TierTouch}),
		"via touch")
	assert.Contains(t, Describe(types.RefreshOutcome{Err: errDenied}), "access denied")
}
