package types_test

import (
	"testing"

	"github.com/arthur-debert/iconfolio/pkg/errors"
	"github.com/arthur-debert/iconfolio/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolderEntryDisplayName(t *testing.T) {
	assert.Equal(t, "Tools", types.FolderEntry{FolderName: "Tools"}.DisplayName())
	assert.Equal(t, "工具", types.FolderEntry{FolderName: "Tools", Alias: "工具"}.DisplayName())
}

func TestConfigurationOrder(t *testing.T) {
	cfg := types.NewConfiguration(
		types.FolderEntry{FolderName: "B", IconRelativePath: "b.exe"},
		types.FolderEntry{FolderName: "A", IconRelativePath: "a.exe"},
		types.FolderEntry{FolderName: "B", Alias: "Bee", IconRelativePath: "b2.exe"},
	)

	assert.Equal(t, 2, cfg.Len())
	assert.Equal(t, []string{"B", "A"}, cfg.Names())

	b, ok := cfg.Get("B")
	require.True(t, ok)
	assert.Equal(t, "Bee", b.Alias)
	assert.Equal(t, "b2.exe", b.IconRelativePath)

	_, ok = cfg.Get("C")
	assert.False(t, ok)
}

func TestConfigurationSetKeepsPosition(t *testing.T) {
	cfg := types.NewConfiguration(
		types.FolderEntry{FolderName: "A"},
		types.FolderEntry{FolderName: "B"},
	)
	cfg.Set(types.FolderEntry{FolderName: "A", Alias: "Alpha"})
	cfg.Set(types.FolderEntry{FolderName: "C"})

	assert.Equal(t, []string{"A", "B", "C"}, cfg.Names())
	assert.Equal(t, "Alpha", cfg.Entries()[0].Alias)
}

func TestConfigurationEntriesIsACopy(t *testing.T) {
	cfg := types.NewConfiguration(types.FolderEntry{FolderName: "A"})
	entries := cfg.Entries()
	entries[0].Alias = "changed"

	a, _ := cfg.Get("A")
	assert.Empty(t, a.Alias)
}

func TestConfigurationAppend(t *testing.T) {
	cfg := types.NewConfiguration()
	require.NoError(t, cfg.Append(types.FolderEntry{FolderName: "A"}))

	err := cfg.Append(types.FolderEntry{FolderName: "A", Alias: "again"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.Equal(t, 1, cfg.Len())
}

func TestNilConfiguration(t *testing.T) {
	var cfg *types.Configuration
	assert.Equal(t, 0, cfg.Len())
	assert.Nil(t, cfg.Entries())
	assert.False(t, cfg.Has("A"))
}

func TestRefreshSummaryAdd(t *testing.T) {
	var s types.RefreshSummary
	s.Add(types.RefreshOutcome{Folder: "A", StructuralOK: true, CacheOK: true, Cache: types.CacheConfirmed})
	s.Add(types.RefreshOutcome{Folder: "B", StructuralOK: true, CacheOK: false, Cache: types.CacheFailed})
	s.Add(types.RefreshOutcome{Folder: "C", StructuralOK: false})

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.SuccessCount)
	assert.Equal(t, 1, s.CacheFailCount)
	assert.Len(t, s.Outcomes, 3)
}

func TestCacheStateString(t *testing.T) {
	assert.Equal(t, "unknown", types.CacheUnknown.String())
	assert.Equal(t, "confirmed", types.CacheConfirmed.String())
	assert.Equal(t, "failed", types.CacheFailed.String())
	assert.Equal(t, "invalid", types.CacheState(42).String())
}

func TestStatusReportCount(t *testing.T) {
	r := &types.StatusReport{Folders: []types.FolderStatus{
		{Folder: "A", State: types.StatusStateDecorated},
		{Folder: "B", State: types.StatusStatePending},
		{Folder: "C", State: types.StatusStateDecorated},
	}}

	assert.Equal(t, 2, r.Count(types.StatusStateDecorated))
	assert.Equal(t, 1, r.Count(types.StatusStatePending))
	assert.Equal(t, 0, r.Count(types.StatusStateMissing))
}
