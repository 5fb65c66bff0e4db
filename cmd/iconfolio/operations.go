package iconfolio

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/iconfolio/pkg/cleanup"
	"github.com/arthur-debert/iconfolio/pkg/errors"
	"github.com/arthur-debert/iconfolio/pkg/folderconfig"
	"github.com/arthur-debert/iconfolio/pkg/logging"
	"github.com/arthur-debert/iconfolio/pkg/marker"
	"github.com/arthur-debert/iconfolio/pkg/session"
	"github.com/arthur-debert/iconfolio/pkg/style"
	"github.com/arthur-debert/iconfolio/pkg/types"
	"github.com/arthur-debert/iconfolio/pkg/watch"
)

// The operations below back both the commands and the menu entries. They
// print their own results and return only what should abort a command.

func (a *app) generate(s *session.Session, interactive bool) error {
	store := s.Store()
	if store.Exists() {
		ok, err := a.confirm(fmt.Sprintf(MsgConfirmOverwrite, store.Path()))
		if err != nil {
			return err
		}
		if !ok {
			a.println(MsgCancelled)
			return nil
		}
	}

	var sel folderconfig.Selector = folderconfig.FirstSelector{}
	if interactive {
		sel = a.prompt().Selector()
	}
	res, err := store.RegenerateFull(sel)
	if res != nil {
		a.println(a.renderer().RenderConfigResult(store.Path(), res))
	}
	return err
}

func (a *app) update(s *session.Session) error {
	store := s.Store()
	res, err := store.MergeNewFolders(a.prompt().Selector())
	if res != nil {
		a.println(a.renderer().RenderConfigResult(store.Path(), res))
	}
	return err
}

// edit upserts one entry. Fields not given keep their configured value; a
// new entry without an icon takes the first executable found.
func (a *app) edit(s *session.Session, folder, alias, icon string) error {
	if alias == "" && icon == "" {
		return errors.New(errors.ErrInvalidInput, MsgErrNoAliasOrIcon)
	}
	logger := logging.GetLogger("cmd.edit")

	store := s.Store()
	cfg, err := store.Load()
	if err != nil {
		switch errors.GetErrorCode(err) {
		case errors.ErrConfigMissing, errors.ErrConfigEmpty:
			cfg = types.NewConfiguration()
		default:
			return err
		}
	}

	entry, exists := cfg.Get(folder)
	if !exists {
		info, statErr := s.FS.Stat(filepath.Join(s.Root, folder))
		if statErr != nil || !info.IsDir() {
			return errors.Newf(errors.ErrFolderMissing, "folder %s does not exist in %s", folder, s.Root).
				WithDetail("folder", folder)
		}
		entry = types.FolderEntry{FolderName: folder}
	}
	if alias != "" {
		entry.Alias = alias
	}
	if icon != "" {
		entry.IconRelativePath = icon
	}
	if entry.IconRelativePath == "" {
		candidates, err := store.Candidates(folder)
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			return errors.Newf(errors.ErrIconResolution, MsgErrNoCandidate, folder).
				WithDetail("folder", folder)
		}
		entry.IconRelativePath = candidates[0].RelPath
	}

	logger.Info().
		Str("folder", entry.FolderName).
		Str("alias", entry.DisplayName()).
		Str("icon", entry.IconRelativePath).
		Bool("new", !exists).
		Msg("Editing entry")

	res, err := store.Upsert(entry)
	if res != nil {
		a.println(a.renderer().RenderConfigResult(store.Path(), res))
	}
	return err
}

// editConfig hands folders.txt to the shell's editor
func (a *app) editConfig(s *session.Session) error {
	store := s.Store()
	if !store.Exists() {
		return errors.Newf(errors.ErrConfigMissing, "%s does not exist yet, generate it first (2 or 7)", store.Path())
	}
	a.printf(MsgEditHint+"\n", store.Path(), s.Encoding.Name)
	if err := s.Host.Shell.Open(store.Path()); err != nil {
		a.printf(MsgOpenFailed+"\n", err)
	}
	return nil
}

func (a *app) apply(s *session.Session, force, refreshAfter bool) (*marker.ApplyResult, error) {
	cfg, err := s.Store().Load()
	if err != nil {
		return nil, err
	}
	res := s.Generator().Apply(cfg, marker.ApplyOptions{
		SkipExisting:      !force,
		ForceRefreshAfter: refreshAfter,
	})
	a.println(a.renderer().RenderApplyResult(res))
	return res, nil
}

// watch syncs the markers once, then again after every change to
// folders.txt until ctx ends. A missing or broken folders.txt is reported
// and waited out.
func (a *app) watch(ctx context.Context, s *session.Session, refreshAfter bool) error {
	sync := func() error {
		res, err := s.Sync(refreshAfter)
		if err != nil {
			a.println(a.renderer().RenderError(err))
			return err
		}
		if res.Total == 0 {
			a.println(MsgInSync)
			return nil
		}
		a.println(a.renderer().RenderApplyResult(res))
		return nil
	}
	if err := sync(); err != nil && !errors.IsConfigError(err) {
		return err
	}

	path := s.Store().Path()
	w, err := watch.New(watch.Options{
		Path:     path,
		Debounce: s.Settings.Watch.Debounce,
		OnChange: sync,
	})
	if err != nil {
		return err
	}
	a.printf(MsgWatching+"\n", path)
	return w.Run(ctx)
}

func (a *app) reseat(s *session.Session) error {
	res, err := s.Generator().Reseat()
	if res != nil {
		a.println(a.renderer().RenderReseatResult(res))
	}
	return err
}

func (a *app) cleanup(s *session.Session, noRefresh bool) error {
	ok, err := a.confirm(fmt.Sprintf(MsgConfirmCleanup, s.Root))
	if err != nil {
		return err
	}
	if !ok {
		a.println(MsgCancelled)
		return nil
	}
	res, err := s.Cleanup().RemoveAll(cleanup.RemoveOptions{NoRefresh: noRefresh})
	if res != nil {
		a.println(a.renderer().RenderCleanupResult(res))
	}
	return err
}

func (a *app) refreshAll(s *session.Session) error {
	summary, rebuild, err := s.Orchestrator().RefreshAll()
	a.println(a.renderer().RenderRefresh(summary, rebuild))
	return err
}

func (a *app) rebuild(s *session.Session) error {
	res, err := s.Orchestrator().Rebuild()
	if res != nil {
		a.println(a.renderer().RenderRefresh(types.RefreshSummary{}, res))
	}
	return err
}

// status prints the report; FormatAuto follows the terminal
func (a *app) status(s *session.Session, f style.Format) error {
	report, err := s.Status()
	if err != nil {
		return err
	}
	if f.Structured() {
		return style.Encode(a.env.Out, f, report)
	}
	if f == style.FormatAuto {
		f = a.format
	}
	a.println(style.NewRenderer(f).RenderStatus(report))
	return nil
}
