package marker

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/iconfolio/pkg/discovery"
	"github.com/arthur-debert/iconfolio/pkg/errors"
	"github.com/arthur-debert/iconfolio/pkg/logging"
	"github.com/arthur-debert/iconfolio/pkg/platform"
	"github.com/arthur-debert/iconfolio/pkg/types"
)

// ScratchDirName is created under the root while markers are moved out and back
const ScratchDirName = ".temp_ini_move"

// ReseatResult reports a Reseat run
type ReseatResult struct {
	Total     int                    `json:"total" yaml:"total"`
	Reseated  int                    `json:"reseated" yaml:"reseated"`
	Refreshed int                    `json:"refreshed" yaml:"refreshed"`
	Failures  []Failure              `json:"failures,omitempty" yaml:"failures,omitempty"`
	Outcomes  []types.RefreshOutcome `json:"-" yaml:"-"`
}

// Reseat moves every existing marker of the root's folders out to a scratch
// directory and back, then refreshes the folder. The shell treats the
// reappearing file as new, which often unsticks a stale icon without a full
// cache rebuild.
func (g *Generator) Reseat() (*ReseatResult, error) {
	done := logging.LogOperationStart(g.logger, "reseat")
	defer done()

	folders, err := discovery.ChildFolders(g.opts.FS, g.opts.Root)
	if err != nil {
		return nil, err
	}

	res := &ReseatResult{}
	var targets []string
	for _, f := range folders {
		path := filepath.Join(g.opts.Root, f)
		if _, err := g.opts.FS.Stat(g.Path(path)); err == nil {
			targets = append(targets, path)
		}
	}
	res.Total = len(targets)
	if res.Total == 0 {
		return res, nil
	}

	scratch := filepath.Join(g.opts.Root, ScratchDirName)
	if err := g.opts.FS.MkdirAll(scratch, 0755); err != nil {
		return res, errors.Wrapf(err, errors.ErrFileAccess, "cannot create %s", scratch)
	}
	defer func() {
		if err := g.opts.FS.RemoveAll(scratch); err != nil {
			g.logger.Warn().Err(err).Str("path", scratch).Msg("Cannot remove scratch directory")
		}
	}()

	for i, folderPath := range targets {
		name := filepath.Base(folderPath)
		if err := g.reseatOne(folderPath, filepath.Join(scratch, fmt.Sprintf("%d_%s", i, g.opts.FileName))); err != nil {
			g.logger.Error().Err(err).Str("folder", name).Msg("Reseat failed")
			res.Failures = append(res.Failures, Failure{Folder: name, Err: err, Reason: err.Error()})
			continue
		}
		res.Reseated++

		if g.opts.Refresher != nil {
			outcome := g.opts.Refresher.RefreshFolder(folderPath)
			res.Outcomes = append(res.Outcomes, outcome)
			if outcome.StructuralOK {
				res.Refreshed++
			}
		}
		g.opts.Sleep(g.opts.PacingDelay)
	}
	return res, nil
}

func (g *Generator) reseatOne(folderPath, parked string) error {
	markerPath := g.Path(folderPath)
	if _, err := g.unlock(markerPath); err != nil {
		return err
	}
	if err := g.opts.FS.Rename(markerPath, parked); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot move %s out", markerPath)
	}
	if err := g.opts.FS.Rename(parked, markerPath); err != nil {
		// one retry, the marker must not be left in the scratch directory
		if retryErr := g.opts.FS.Rename(parked, markerPath); retryErr != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot move %s back, it is parked at %s", markerPath, parked)
		}
	}
	if err := g.opts.Attributes.Set(markerPath, platform.AttrHidden|platform.AttrSystem); err != nil {
		return errors.Wrapf(err, errors.ErrAttributeOp, "cannot hide %s", markerPath)
	}
	return nil
}
