package refresh

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/iconfolio/pkg/config"
	"github.com/arthur-debert/iconfolio/pkg/discovery"
	"github.com/arthur-debert/iconfolio/pkg/errors"
	"github.com/arthur-debert/iconfolio/pkg/logging"
	"github.com/arthur-debert/iconfolio/pkg/platform"
	"github.com/arthur-debert/iconfolio/pkg/types"
	"github.com/rs/zerolog"
)

// Options configures an Orchestrator
type Options struct {
	FS         types.FS
	Root       string
	Attributes platform.Attributes
	Shell      platform.Shell
	Refresh    config.RefreshSettings
	Rebuild    config.RebuildSettings
	// Tiers replaces DefaultTiers when set.
	Tiers []Tier
	// Sleep and Getenv default to time.Sleep and os.Getenv.
	Sleep  func(time.Duration)
	Getenv func(string) string
}

// Orchestrator runs per-folder refreshes and whole-tree rebuilds
type Orchestrator struct {
	fs      types.FS
	root    string
	attrs   platform.Attributes
	shell   platform.Shell
	refresh config.RefreshSettings
	rebuild config.RebuildSettings
	tiers   []Tier
	sleep   func(time.Duration)
	getenv  func(string) string
	logger  zerolog.Logger
}

// NewOrchestrator creates an Orchestrator
func NewOrchestrator(opts Options) *Orchestrator {
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.Refresh.Attempts < 1 {
		opts.Refresh.Attempts = 1
	}
	o := &Orchestrator{
		fs:      opts.FS,
		root:    opts.Root,
		attrs:   opts.Attributes,
		shell:   opts.Shell,
		refresh: opts.Refresh,
		rebuild: opts.Rebuild,
		sleep:   opts.Sleep,
		getenv:  opts.Getenv,
		logger:  logging.GetLogger("refresh"),
	}
	o.tiers = opts.Tiers
	if len(o.tiers) == 0 {
		o.tiers = o.DefaultTiers()
	}
	return o
}

// RefreshFolder runs the bracketed, tiered refresh for one folder. The
// original attribute bitmask is restored on every path once the SYSTEM bit
// has been applied.
func (o *Orchestrator) RefreshFolder(path string) (outcome types.RefreshOutcome) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	logger := o.logger.With().Str("folder", path).Logger()
	outcome = types.RefreshOutcome{Folder: path, Cache: types.CacheFailed}

	// Step 1: announce the folder before touching it
	o.shell.NotifyUpdateDir(path)
	defer o.shell.NotifyUpdateDir(path)

	// Step 2: mark the folder SYSTEM for the duration of the attempt
	original, err := o.attrs.Get(path)
	if err != nil {
		logger.Warn().Err(err).Msg("Cannot read folder attributes")
		outcome.Err = errors.Wrapf(err, errors.ErrAttributeOp, "cannot read attributes of %s", path)
		return outcome
	}
	if err := o.attrs.Set(path, original|platform.AttrSystem); err != nil {
		logger.Debug().Err(err).Msg("Setting SYSTEM failed, falling back to attrib")
		if fallbackErr := o.shell.ForceSystemAttribute(path); fallbackErr != nil {
			logger.Warn().Err(fallbackErr).Msg("Cannot mark folder as system")
			outcome.Err = errors.Wrapf(fallbackErr, errors.ErrAttributeOp, "cannot mark %s as system", path)
			return outcome
		}
	}
	o.sleep(o.refresh.SettleDelay)

	// Step 4 runs however step 3 ends
	defer func() {
		o.sleep(o.refresh.SettleDelay)
		if err := o.attrs.Set(path, original); err != nil {
			logger.Warn().Err(err).Msg("Cannot restore folder attributes")
			outcome.StructuralOK = false
			outcome.Err = errors.Wrapf(err, errors.ErrAttributeOp, "cannot restore attributes of %s", path)
		}
	}()
	outcome.StructuralOK = true

	// Step 3: escalate through the tiers, bounded by the attempt budget
	outcome.Cache, outcome.Tier, outcome.Attempts = o.attempt(path, logger)
	outcome.CacheOK = outcome.Cache != types.CacheFailed

	logger.Debug().
		Str("cache", outcome.Cache.String()).
		Str("tier", outcome.Tier).
		Int("attempts", outcome.Attempts).
		Msg("Folder refreshed")
	return outcome
}

func (o *Orchestrator) attempt(path string, logger zerolog.Logger) (types.CacheState, string, int) {
	budget := o.refresh.Attempts
	for n := 1; n <= budget; n++ {
		for _, tier := range o.tiers {
			ok, err := runTier(tier, path)
			if err != nil {
				logger.Trace().Err(err).Str("tier", tier.Name).Int("attempt", n).Msg("Tier failed")
			}
			if !ok {
				continue
			}
			if tier.Readback {
				return types.CacheConfirmed, tier.Name, n
			}
			return types.CacheUnknown, tier.Name, n
		}
		if n < budget {
			o.sleep(o.refresh.AttemptDelay)
		}
	}
	return types.CacheFailed, "", budget
}

// runTier turns a panicking tier into a failed one
func runTier(tier Tier, path string) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = errors.Newf(errors.ErrCacheTier, "tier %s panicked: %v", tier.Name, r)
		}
	}()
	return tier.Run(path)
}

// RefreshFolders refreshes each path in order. One folder failing never
// stops the pass.
func (o *Orchestrator) RefreshFolders(paths []string) types.RefreshSummary {
	var summary types.RefreshSummary
	for i, p := range paths {
		summary.Add(o.RefreshFolder(p))
		if i < len(paths)-1 {
			o.sleep(o.refresh.PacingDelay)
		}
	}
	o.logger.Info().
		Int("total", summary.Total).
		Int("success", summary.SuccessCount).
		Int("cacheFailures", summary.CacheFailCount).
		Msg("Refresh pass complete")
	return summary
}

// RefreshAll refreshes every folder of the root and then rebuilds the icon
// cache. The rebuild runs regardless of the per-folder results; it is what
// makes the visual state consistent when tiers could not.
func (o *Orchestrator) RefreshAll() (types.RefreshSummary, *RebuildResult, error) {
	done := logging.LogOperationStart(o.logger, "refresh-all")
	defer done()

	if o.root == "" {
		return types.RefreshSummary{}, nil, errors.New(errors.ErrNoOperatingDir, "no operating directory selected")
	}
	names, err := discovery.ChildFolders(o.fs, o.root)
	if err != nil {
		return types.RefreshSummary{}, nil, err
	}
	if len(names) == 0 {
		o.logger.Info().Str("root", o.root).Msg("No folders to refresh")
		return types.RefreshSummary{}, nil, nil
	}

	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(o.root, n)
	}
	summary := o.RefreshFolders(paths)

	rebuild, err := o.Rebuild()
	return summary, rebuild, err
}

// RefreshTree tells the shell that icons changed and the root needs a
// re-read. It is the lightweight nudge after writing markers.
func (o *Orchestrator) RefreshTree(root string) {
	o.shell.NotifyAssocChanged()
	o.shell.NotifyUpdateDir(root)
	o.logger.Debug().Str("root", root).Msg("Notified shell of tree change")
}

// Describe summarizes an outcome for logs and reports
func Describe(outcome types.RefreshOutcome) string {
	switch {
	case !outcome.StructuralOK:
		return fmt.Sprintf("refresh failed: %v", outcome.Err)
	case outcome.Cache == types.CacheConfirmed:
		return "refreshed, cache confirmed"
	case outcome.Cache == types.CacheUnknown:
		return fmt.Sprintf("refreshed via %s, cache state unknown", outcome.Tier)
	default:
		return "refreshed, cache still stale (the rebuild will fix it)"
	}
}
