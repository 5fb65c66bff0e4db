package session

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/iconfolio/pkg/discovery"
	"github.com/arthur-debert/iconfolio/pkg/errors"
	"github.com/arthur-debert/iconfolio/pkg/marker"
	"github.com/arthur-debert/iconfolio/pkg/types"
)

// Status compares the configuration with the markers on disk. A broken
// configuration is reported in the result rather than as an error; only an
// unreadable root fails.
func (s *Session) Status() (*types.StatusReport, error) {
	store := s.Store()
	gen := s.Generator()

	report := &types.StatusReport{
		Root:         s.Root,
		ConfigPath:   store.Path(),
		ConfigExists: store.Exists(),
		Encoding:     s.Encoding.Name,
	}

	folders, err := discovery.ChildFolders(s.FS, s.Root)
	if err != nil {
		return nil, err
	}

	cfg := types.NewConfiguration()
	if report.ConfigExists {
		loaded, err := store.Load()
		switch {
		case err == nil:
			cfg = loaded
		case errors.IsErrorCode(err, errors.ErrConfigEmpty):
		default:
			report.ConfigError = err.Error()
		}
	}

	for _, entry := range cfg.Entries() {
		report.Folders = append(report.Folders, s.entryStatus(gen, entry))
	}
	for _, name := range folders {
		if cfg.Has(name) {
			continue
		}
		st := types.FolderStatus{Folder: name, State: types.StatusStateUnconfigured}
		if info, err := gen.ReadInfo(filepath.Join(s.Root, name)); err == nil {
			st.MarkerAlias, st.MarkerIcon = info.Alias, info.Icon
		}
		report.Folders = append(report.Folders, st)
	}
	return report, nil
}

func (s *Session) entryStatus(gen *marker.Generator, entry types.FolderEntry) types.FolderStatus {
	st := types.FolderStatus{
		Folder: entry.FolderName,
		Alias:  entry.DisplayName(),
		Icon:   entry.IconRelativePath,
	}
	folderPath := filepath.Join(s.Root, entry.FolderName)
	if info, err := s.FS.Stat(folderPath); err != nil || !info.IsDir() {
		st.State = types.StatusStateMissing
		return st
	}

	info, err := gen.ReadInfo(folderPath)
	switch {
	case errors.IsErrorCode(err, errors.ErrNotFound):
		st.State = types.StatusStatePending
		return st
	case err != nil:
		st.State = types.StatusStateError
		st.Message = err.Error()
		return st
	}

	st.MarkerAlias, st.MarkerIcon = info.Alias, info.Icon
	if info.Alias == st.Alias && sameIcon(folderPath, entry.IconRelativePath, info.Icon) {
		st.State = types.StatusStateDecorated
	} else {
		st.State = types.StatusStateStale
	}
	return st
}

// sameIcon accepts either form a marker can carry: the absolute path or the
// configured relative one. The shell compares paths case-insensitively.
func sameIcon(folderPath, rel, got string) bool {
	rel = filepath.FromSlash(strings.ReplaceAll(rel, `\`, "/"))
	got = filepath.FromSlash(strings.ReplaceAll(got, `\`, "/"))
	abs := filepath.Join(folderPath, rel)
	return strings.EqualFold(got, abs) || strings.EqualFold(filepath.Clean(got), filepath.Clean(rel))
}
