// Package session holds the state one run of iconfolio works with: the
// operating root, the effective settings, the legacy encoding and the
// platform handles. Every component is built from a Session instead of
// reading globals, so tests can assemble one around fakes.
package session

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/iconfolio/pkg/backup"
	"github.com/arthur-debert/iconfolio/pkg/cleanup"
	"github.com/arthur-debert/iconfolio/pkg/codepage"
	"github.com/arthur-debert/iconfolio/pkg/config"
	"github.com/arthur-debert/iconfolio/pkg/discovery"
	"github.com/arthur-debert/iconfolio/pkg/errors"
	"github.com/arthur-debert/iconfolio/pkg/filesystem"
	"github.com/arthur-debert/iconfolio/pkg/folderconfig"
	"github.com/arthur-debert/iconfolio/pkg/logging"
	"github.com/arthur-debert/iconfolio/pkg/marker"
	"github.com/arthur-debert/iconfolio/pkg/platform"
	"github.com/arthur-debert/iconfolio/pkg/refresh"
	"github.com/arthur-debert/iconfolio/pkg/types"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// Options assembles a Session. Zero values pick the real implementations.
type Options struct {
	Root string
	// SettingsFile is an explicit settings file (--config).
	SettingsFile string
	// Encoding overrides detection and the encoding.name setting.
	Encoding  string
	Overrides map[string]interface{}

	SkipUserConfig bool
	SkipEnv        bool

	FS     types.FS
	Host   *platform.Host
	Now    func() time.Time
	Sleep  func(time.Duration)
	Getenv func(string) string
}

// Session is the explicit, process-wide state of one run. The root is fixed
// once the session exists.
type Session struct {
	Root     string
	Settings *config.Settings
	Koanf    *koanf.Koanf
	Encoding codepage.Encoding
	FS       types.FS
	Host     *platform.Host

	now    func() time.Time
	sleep  func(time.Duration)
	getenv func(string) string
	logger zerolog.Logger

	orchestrator *refresh.Orchestrator
	generator    *marker.Generator
}

// New validates the root, loads settings and resolves the encoding
func New(opts Options) (*Session, error) {
	logger := logging.GetLogger("session")

	if opts.FS == nil {
		opts.FS = filesystem.NewOS()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}

	root, err := ResolveRoot(opts.FS, opts.Root)
	if err != nil {
		return nil, err
	}

	if opts.Host == nil {
		host, err := platform.New()
		if err != nil {
			return nil, err
		}
		opts.Host = host
	}

	settings, k, err := config.Load(config.LoadOptions{
		Root:           root,
		File:           opts.SettingsFile,
		SkipUserConfig: opts.SkipUserConfig,
		SkipEnv:        opts.SkipEnv,
		Overrides:      opts.Overrides,
	})
	if err != nil {
		return nil, err
	}

	enc, err := resolveEncoding(opts.Encoding, settings, opts.Host)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("root", root).
		Str("encoding", enc.Name).
		Msg("Session ready")

	return &Session{
		Root:     root,
		Settings: settings,
		Koanf:    k,
		Encoding: enc,
		FS:       opts.FS,
		Host:     opts.Host,
		now:      opts.Now,
		sleep:    opts.Sleep,
		getenv:   opts.Getenv,
		logger:   logger,
	}, nil
}

// ResolveRoot makes root absolute and checks that it is a directory
func ResolveRoot(fsys types.FS, root string) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", errors.New(errors.ErrNoOperatingDir, "no operating directory selected")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrNoOperatingDir, "invalid operating directory %s", root)
	}
	info, err := fsys.Stat(abs)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrNoOperatingDir, "operating directory %s does not exist", abs).
			WithDetail("root", abs)
	}
	if !info.IsDir() {
		return "", errors.Newf(errors.ErrNoOperatingDir, "%s is not a directory", abs).
			WithDetail("root", abs)
	}
	return abs, nil
}

func resolveEncoding(override string, settings *config.Settings, host *platform.Host) (codepage.Encoding, error) {
	name := override
	if name == "" {
		name = settings.Encoding.Name
	}
	if name != "" {
		return codepage.Lookup(name)
	}
	fallback := settings.Encoding.Fallback
	if fallback == "" {
		fallback = codepage.DefaultFallback
	}
	return codepage.Detect(host.ActiveCodePage, fallback), nil
}

// Now returns the session clock's current time
func (s *Session) Now() time.Time {
	return s.now()
}

// Backup returns the backup policy bound to the session clock
func (s *Session) Backup() *backup.Backup {
	return backup.New(s.FS, s.now)
}

// Finder returns executable discovery configured from settings
func (s *Session) Finder() *discovery.Finder {
	d := s.Settings.Discovery
	return discovery.NewFinder(s.FS, discovery.Options{
		Extension:       d.Extension,
		ExcludeKeywords: d.ExcludeKeywords,
		ExcludeGlobs:    d.ExcludeGlobs,
	})
}

// Orchestrator returns the cache refresh orchestrator
func (s *Session) Orchestrator() *refresh.Orchestrator {
	if s.orchestrator == nil {
		s.orchestrator = refresh.NewOrchestrator(refresh.Options{
			FS:         s.FS,
			Root:       s.Root,
			Attributes: s.Host.Attributes,
			Shell:      s.Host.Shell,
			Refresh:    s.Settings.Refresh,
			Rebuild:    s.Settings.Rebuild,
			Sleep:      s.sleep,
			Getenv:     s.getenv,
		})
	}
	return s.orchestrator
}

// Generator returns the marker generator
func (s *Session) Generator() *marker.Generator {
	if s.generator == nil {
		m := s.Settings.Marker
		s.generator = marker.NewGenerator(marker.Options{
			FS:               s.FS,
			Root:             s.Root,
			FileName:         m.FileName,
			Encoding:         s.Encoding,
			Attributes:       s.Host.Attributes,
			Backup:           s.Backup(),
			Refresher:        s.Orchestrator(),
			Extension:        s.Settings.Discovery.Extension,
			AbsoluteIconPath: m.AbsoluteIconPath,
			IconIndex:        m.IconIndex,
			MarkFolderSystem: m.MarkFolderSystem,
			PacingDelay:      s.Settings.Refresh.PacingDelay,
			Sleep:            s.sleep,
		})
	}
	return s.generator
}

// Store returns the configuration store of the root
func (s *Session) Store() *folderconfig.Store {
	opts := folderconfig.Options{
		FS:       s.FS,
		Root:     s.Root,
		FileName: s.Settings.Config.FileName,
		Encoding: s.Encoding,
		Finder:   s.Finder(),
		Backup:   s.Backup(),
		Now:      s.now,
	}
	if s.Settings.Config.PreserveMarkerAlias {
		opts.Aliases = s.Generator().Alias
	}
	return folderconfig.NewStore(opts)
}

// Cleanup returns the cleanup engine
func (s *Session) Cleanup() *cleanup.Engine {
	return cleanup.New(cleanup.Options{
		FS:                s.FS,
		Root:              s.Root,
		MarkerName:        s.Settings.Marker.FileName,
		Attributes:        s.Host.Attributes,
		Refresher:         s.Orchestrator(),
		ClearFolderSystem: s.Settings.Cleanup.ClearFolderSystem,
	})
}
