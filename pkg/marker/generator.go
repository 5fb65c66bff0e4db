package marker

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/iconfolio/pkg/backup"
	"github.com/arthur-debert/iconfolio/pkg/codepage"
	"github.com/arthur-debert/iconfolio/pkg/errors"
	"github.com/arthur-debert/iconfolio/pkg/logging"
	"github.com/arthur-debert/iconfolio/pkg/platform"
	"github.com/arthur-debert/iconfolio/pkg/types"
	"github.com/rs/zerolog"
)

// DefaultFileName is the marker file name the shell looks for
const DefaultFileName = "desktop.ini"

// Refresher is the part of the cache orchestrator the generator drives
type Refresher interface {
	// RefreshTree nudges the shell to re-read the whole root.
	RefreshTree(root string)
	// RefreshFolder runs the tiered refresh for one folder.
	RefreshFolder(path string) types.RefreshOutcome
}

// Options configures a Generator
type Options struct {
	FS         types.FS
	Root       string
	FileName   string
	Encoding   codepage.Encoding
	Attributes platform.Attributes
	Backup     *backup.Backup
	Refresher  Refresher
	// Extension an icon source must end with, lower case.
	Extension string
	// AbsoluteIconPath writes the resolved absolute path instead of the
	// configured relative one.
	AbsoluteIconPath bool
	IconIndex        int
	// MarkFolderSystem sets the system bit on the decorated folder.
	MarkFolderSystem bool
	// PacingDelay separates folders during Reseat.
	PacingDelay time.Duration
	Sleep       func(time.Duration)
}

// Generator writes marker files for a configuration
type Generator struct {
	opts   Options
	logger zerolog.Logger
}

// ApplyOptions selects the overwrite and refresh policy of one run
type ApplyOptions struct {
	SkipExisting      bool
	ForceRefreshAfter bool
}

// Warning is a folder that was skipped for a reason the user can fix
type Warning struct {
	Folder  string           `json:"folder" yaml:"folder"`
	Code    errors.ErrorCode `json:"code" yaml:"code"`
	Message string           `json:"message" yaml:"message"`
}

// Failure is a folder whose marker could not be written
type Failure struct {
	Folder string `json:"folder" yaml:"folder"`
	Err    error  `json:"-" yaml:"-"`
	Reason string `json:"reason" yaml:"reason"`
}

// ApplyResult accounts every configured folder exactly once:
// Skipped + Processed + len(Warnings) + len(Failures) == Total
type ApplyResult struct {
	Total     int       `json:"total" yaml:"total"`
	Processed int       `json:"processed" yaml:"processed"`
	Skipped   int       `json:"skipped" yaml:"skipped"`
	Warnings  []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Failures  []Failure `json:"failures,omitempty" yaml:"failures,omitempty"`
	Backups   []string  `json:"backups,omitempty" yaml:"backups,omitempty"`
	Refreshed bool      `json:"refreshed" yaml:"refreshed"`
}

// NewGenerator creates a Generator
func NewGenerator(opts Options) *Generator {
	if opts.FileName == "" {
		opts.FileName = DefaultFileName
	}
	if opts.Extension == "" {
		opts.Extension = ".exe"
	}
	opts.Extension = strings.ToLower(opts.Extension)
	if opts.Backup == nil {
		opts.Backup = backup.New(opts.FS, nil)
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	return &Generator{
		opts:   opts,
		logger: logging.GetLogger("marker"),
	}
}

// Path returns the marker path of a folder
func (g *Generator) Path(folderPath string) string {
	return filepath.Join(folderPath, g.opts.FileName)
}

// FileName returns the marker file name
func (g *Generator) FileName() string {
	return g.opts.FileName
}

// ReadInfo parses the marker of a folder
func (g *Generator) ReadInfo(folderPath string) (Info, error) {
	data, err := g.opts.FS.ReadFile(g.Path(folderPath))
	if err != nil {
		if os.IsNotExist(err) {
			return Info{}, errors.Newf(errors.ErrNotFound, "no marker in %s", folderPath)
		}
		return Info{}, errors.Wrapf(err, errors.ErrFileAccess, "cannot read marker in %s", folderPath)
	}
	text, err := g.opts.Encoding.Decode(data)
	if err != nil {
		return Info{}, err
	}
	return Parse(text)
}

// Alias returns the alias of an existing marker, for carrying it over into
// a regenerated configuration.
func (g *Generator) Alias(folderPath string) (string, bool) {
	info, err := g.ReadInfo(folderPath)
	if err != nil || info.Alias == "" {
		return "", false
	}
	return info.Alias, true
}

// Apply writes markers for every entry of cfg. Per-folder problems are
// recorded in the result and never stop the run.
func (g *Generator) Apply(cfg *types.Configuration, opts ApplyOptions) *ApplyResult {
	done := logging.LogOperationStart(g.logger, "apply")
	defer done()

	res := &ApplyResult{Total: cfg.Len()}
	for _, entry := range cfg.Entries() {
		g.applyOne(entry, opts, res)
	}

	g.logger.Info().
		Int("total", res.Total).
		Int("processed", res.Processed).
		Int("skipped", res.Skipped).
		Int("warnings", len(res.Warnings)).
		Int("failures", len(res.Failures)).
		Msg("Applied markers")

	if opts.ForceRefreshAfter && res.Processed > 0 && g.opts.Refresher != nil {
		g.opts.Refresher.RefreshTree(g.opts.Root)
		res.Refreshed = true
	}
	return res
}

func (g *Generator) applyOne(entry types.FolderEntry, opts ApplyOptions, res *ApplyResult) {
	logger := g.logger.With().Str("folder", entry.FolderName).Logger()
	folderPath := filepath.Join(g.opts.Root, entry.FolderName)

	info, err := g.opts.FS.Stat(folderPath)
	if err != nil || !info.IsDir() {
		logger.Warn().Msg("Folder does not exist, skipping")
		res.Warnings = append(res.Warnings, Warning{
			Folder:  entry.FolderName,
			Code:    errors.ErrFolderMissing,
			Message: "folder does not exist",
		})
		return
	}

	markerPath := g.Path(folderPath)
	_, statErr := g.opts.FS.Stat(markerPath)
	exists := statErr == nil
	if exists && opts.SkipExisting {
		logger.Debug().Msg("Marker exists, skipping")
		res.Skipped++
		return
	}

	iconRef, err := g.resolveIcon(folderPath, entry.IconRelativePath)
	if err != nil {
		logger.Warn().Err(err).Str("icon", entry.IconRelativePath).Msg("Icon cannot be resolved, skipping")
		res.Warnings = append(res.Warnings, Warning{
			Folder:  entry.FolderName,
			Code:    errors.ErrIconResolution,
			Message: err.Error(),
		})
		return
	}

	data, err := g.opts.Encoding.Encode(Render(entry.DisplayName(), iconRef, g.opts.IconIndex))
	if err != nil {
		g.fail(res, entry.FolderName, err)
		return
	}

	relock := func() {}
	if exists {
		if relock, err = g.unlock(markerPath); err != nil {
			g.fail(res, entry.FolderName, err)
			return
		}
		if dst, err := g.opts.Backup.Marker(markerPath); err != nil {
			logger.Warn().Err(err).Msg("Marker backup failed, overwriting anyway")
		} else if dst != "" {
			res.Backups = append(res.Backups, dst)
		}
	}

	if err := g.opts.FS.WriteFile(markerPath, data, 0644); err != nil {
		relock()
		g.fail(res, entry.FolderName, errors.Wrapf(err, errors.ErrMarkerWrite, "cannot write %s", markerPath))
		return
	}
	if err := g.opts.Attributes.Set(markerPath, platform.AttrHidden|platform.AttrSystem); err != nil {
		relock()
		g.fail(res, entry.FolderName, errors.Wrapf(err, errors.ErrAttributeOp, "cannot hide %s", markerPath))
		return
	}
	if g.opts.MarkFolderSystem {
		if err := g.addBits(folderPath, platform.AttrSystem); err != nil {
			g.fail(res, entry.FolderName, err)
			return
		}
	}

	logger.Info().Str("alias", entry.DisplayName()).Str("icon", iconRef).Msg("Wrote marker")
	res.Processed++
}

// resolveIcon checks the configured icon and returns the reference to
// write. Nothing is touched when it fails.
func (g *Generator) resolveIcon(folderPath, rel string) (string, error) {
	rel = strings.TrimSpace(rel)
	if rel == "" {
		return "", errors.New(errors.ErrIconResolution, "no icon configured")
	}
	if !strings.HasSuffix(strings.ToLower(rel), g.opts.Extension) {
		return "", errors.Newf(errors.ErrIconResolution, "%s is not a %s file", rel, g.opts.Extension)
	}
	full := filepath.Clean(filepath.Join(folderPath, filepath.FromSlash(rel)))
	info, err := g.opts.FS.Stat(full)
	if err != nil || !info.Mode().IsRegular() {
		return "", errors.Newf(errors.ErrIconResolution, "%s does not exist or is not a file", rel)
	}
	if !g.opts.AbsoluteIconPath {
		return rel, nil
	}
	abs, err := filepath.Abs(full)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrIconResolution, "cannot resolve %s", rel)
	}
	return abs, nil
}

// unlock clears read-only, hidden and system so an existing file can be
// truncated or removed.
// unlock clears the visibility bits of an existing marker. The returned
// func puts the original bits back when the marker cannot be replaced.
func (g *Generator) unlock(path string) (func(), error) {
	prev, err := g.opts.Attributes.Get(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrAttributeOp, "cannot read attributes of %s", path)
	}
	if err := Unlock(g.opts.Attributes, path); err != nil {
		return nil, err
	}
	return func() {
		if prev&platform.AttrVisibility == 0 {
			return
		}
		if err := g.opts.Attributes.Set(path, prev); err != nil {
			g.logger.Warn().Err(err).Str("path", path).Msg("Cannot restore marker attributes")
		}
	}, nil
}

func (g *Generator) addBits(path string, bits uint32) error {
	attrs, err := g.opts.Attributes.Get(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrAttributeOp, "cannot read attributes of %s", path)
	}
	if attrs&bits == bits {
		return nil
	}
	if err := g.opts.Attributes.Set(path, attrs|bits); err != nil {
		return errors.Wrapf(err, errors.ErrAttributeOp, "cannot set attributes of %s", path)
	}
	return nil
}

func (g *Generator) fail(res *ApplyResult, folder string, err error) {
	g.logger.Error().Err(err).Str("folder", folder).Msg("Marker failed")
	res.Failures = append(res.Failures, Failure{Folder: folder, Err: err, Reason: err.Error()})
}

// Unlock clears the visibility bits of path, keeping every other bit. A
// file left with no bits gets NORMAL, which is what the filesystem expects.
func Unlock(attrs platform.Attributes, path string) error {
	current, err := attrs.Get(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrAttributeOp, "cannot read attributes of %s", path)
	}
	if current&platform.AttrVisibility == 0 {
		return nil
	}
	next := current &^ platform.AttrVisibility
	if next == 0 {
		next = platform.AttrNormal
	}
	if err := attrs.Set(path, next); err != nil {
		return errors.Wrapf(err, errors.ErrAttributeOp, "cannot clear attributes of %s", path)
	}
	return nil
}
