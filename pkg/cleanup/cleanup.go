package cleanup

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/iconfolio/pkg/backup"
	"github.com/arthur-debert/iconfolio/pkg/errors"
	"github.com/arthur-debert/iconfolio/pkg/logging"
	"github.com/arthur-debert/iconfolio/pkg/marker"
	"github.com/arthur-debert/iconfolio/pkg/platform"
	"github.com/arthur-debert/iconfolio/pkg/types"
	"github.com/rs/zerolog"
)

// Refresher refreshes the folders a cleanup touched
type Refresher interface {
	RefreshFolders(paths []string) types.RefreshSummary
}

// Options configures an Engine
type Options struct {
	FS         types.FS
	Root       string
	MarkerName string
	Attributes platform.Attributes
	Refresher  Refresher
	// ClearFolderSystem drops the folder's system bit once its marker is gone.
	ClearFolderSystem bool
}

// RemoveOptions tunes a single RemoveAll run
type RemoveOptions struct {
	NoRefresh bool
}

// Failure is a file or folder cleanup could not handle
type Failure struct {
	Path   string `json:"path" yaml:"path"`
	Err    error  `json:"-" yaml:"-"`
	Reason string `json:"reason" yaml:"reason"`
}

// Result reports a RemoveAll run
type Result struct {
	MarkersRemoved int       `json:"markersRemoved" yaml:"markersRemoved"`
	BackupsRemoved int       `json:"backupsRemoved" yaml:"backupsRemoved"`
	Removed        []string  `json:"removed,omitempty" yaml:"removed,omitempty"`
	Failures       []Failure `json:"failures,omitempty" yaml:"failures,omitempty"`
	// Affected lists the folders that lost at least one file, in walk order.
	Affected []string             `json:"affected,omitempty" yaml:"affected,omitempty"`
	Refresh  *types.RefreshSummary `json:"-" yaml:"-"`
}

// Total is the number of files removed
func (r *Result) Total() int {
	return r.MarkersRemoved + r.BackupsRemoved
}

// Engine removes markers and their backups
type Engine struct {
	opts   Options
	logger zerolog.Logger
}

// New creates an Engine
func New(opts Options) *Engine {
	if opts.MarkerName == "" {
		opts.MarkerName = marker.DefaultFileName
	}
	return &Engine{opts: opts, logger: logging.GetLogger("cleanup")}
}

// RemoveAll walks the whole tree below the root and removes every marker and
// marker backup it finds. A file that cannot be removed is recorded and the
// walk goes on. Only an unreadable root is an error.
func (e *Engine) RemoveAll(opts RemoveOptions) (*Result, error) {
	done := logging.LogOperationStart(e.logger, "cleanup")
	defer done()

	if e.opts.Root == "" {
		return nil, errors.New(errors.ErrNoOperatingDir, "no operating directory selected")
	}
	entries, err := e.opts.FS.ReadDir(e.opts.Root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", e.opts.Root)
	}

	res := &Result{}
	e.walk(e.opts.Root, entries, res)

	e.logger.Info().
		Int("markers", res.MarkersRemoved).
		Int("backups", res.BackupsRemoved).
		Int("failures", len(res.Failures)).
		Msg("Cleanup complete")

	if len(res.Affected) == 0 || opts.NoRefresh || e.opts.Refresher == nil {
		return res, nil
	}
	summary := e.opts.Refresher.RefreshFolders(res.Affected)
	res.Refresh = &summary
	return res, nil
}

func (e *Engine) walk(dir string, entries []fs.DirEntry, res *Result) {
	var subdirs []string
	removedMarker, affected := false, false

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			subdirs = append(subdirs, path)
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}
		isMarker := strings.EqualFold(entry.Name(), e.opts.MarkerName)
		if !isMarker && !backup.IsMarkerBackup(entry.Name(), e.opts.MarkerName) {
			continue
		}
		if err := e.remove(path); err != nil {
			e.fail(res, path, err)
			continue
		}
		affected = true
		res.Removed = append(res.Removed, path)
		if isMarker {
			removedMarker = true
			res.MarkersRemoved++
		} else {
			res.BackupsRemoved++
		}
	}

	if removedMarker && e.opts.ClearFolderSystem {
		if err := e.clearSystem(dir); err != nil {
			e.fail(res, dir, err)
		}
	}
	if affected {
		res.Affected = append(res.Affected, dir)
	}

	for _, sub := range subdirs {
		children, err := e.opts.FS.ReadDir(sub)
		if err != nil {
			e.logger.Debug().Err(err).Str("dir", sub).Msg("Skipping unreadable directory")
			continue
		}
		e.walk(sub, children, res)
	}
}

func (e *Engine) remove(path string) error {
	if err := marker.Unlock(e.opts.Attributes, path); err != nil {
		return err
	}
	if err := e.opts.FS.Remove(path); err != nil {
		return errors.Wrapf(err, errors.ErrFileRemove, "cannot remove %s", path)
	}
	e.logger.Debug().Str("file", path).Msg("Removed")
	return nil
}

func (e *Engine) clearSystem(dir string) error {
	attrs, err := e.opts.Attributes.Get(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrAttributeOp, "cannot read attributes of %s", dir)
	}
	if attrs&platform.AttrSystem == 0 {
		return nil
	}
	if err := e.opts.Attributes.Set(dir, attrs&^platform.AttrSystem); err != nil {
		return errors.Wrapf(err, errors.ErrAttributeOp, "cannot clear system bit of %s", dir)
	}
	return nil
}

func (e *Engine) fail(res *Result, path string, err error) {
	e.logger.Warn().Err(err).Str("path", path).Msg("Cleanup failed for path")
	res.Failures = append(res.Failures, Failure{Path: path, Err: err, Reason: err.Error()})
}
