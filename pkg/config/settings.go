package config

import (
	"strings"
	"time"

	"github.com/arthur-debert/iconfolio/pkg/errors"
)

// Settings is the effective tool configuration
type Settings struct {
	Config    ConfigFileSettings `koanf:"config"`
	Discovery DiscoverySettings  `koanf:"discovery"`
	Encoding  EncodingSettings   `koanf:"encoding"`
	Marker    MarkerSettings     `koanf:"marker"`
	Refresh   RefreshSettings    `koanf:"refresh"`
	Rebuild   RebuildSettings    `koanf:"rebuild"`
	Cleanup   CleanupSettings    `koanf:"cleanup"`
	Watch     WatchSettings      `koanf:"watch"`
}

// ConfigFileSettings controls the folder configuration file
type ConfigFileSettings struct {
	FileName string `koanf:"file_name"`
	// PreserveMarkerAlias seeds new entries with the alias of an existing marker.
	PreserveMarkerAlias bool `koanf:"preserve_marker_alias"`
}

// DiscoverySettings controls which files are icon-source candidates
type DiscoverySettings struct {
	Extension       string   `koanf:"extension"`
	ExcludeKeywords []string `koanf:"exclude_keywords"`
	ExcludeGlobs    []string `koanf:"exclude_globs"`
}

// EncodingSettings controls the legacy text encoding
type EncodingSettings struct {
	// Name forces an encoding; empty means detect from the active code page.
	Name     string `koanf:"name"`
	Fallback string `koanf:"fallback"`
}

// MarkerSettings controls marker file generation
type MarkerSettings struct {
	FileName         string `koanf:"file_name"`
	AbsoluteIconPath bool   `koanf:"absolute_icon_path"`
	IconIndex        int    `koanf:"icon_index"`
	MarkFolderSystem bool   `koanf:"mark_folder_system"`
}

// RefreshSettings controls the per-folder refresh
type RefreshSettings struct {
	Attempts     int           `koanf:"attempts"`
	AttemptDelay time.Duration `koanf:"attempt_delay"`
	ToggleDelay  time.Duration `koanf:"toggle_delay"`
	SettleDelay  time.Duration `koanf:"settle_delay"`
	PacingDelay  time.Duration `koanf:"pacing_delay"`
	ScratchFile  string        `koanf:"scratch_file"`
}

// RebuildSettings controls the whole-tree cache rebuild
type RebuildSettings struct {
	ShellProcess   string        `koanf:"shell_process"`
	KillSettle     time.Duration `koanf:"kill_settle"`
	PurgeSettle    time.Duration `koanf:"purge_settle"`
	RelaunchSettle time.Duration `koanf:"relaunch_settle"`
	OpenSettle     time.Duration `koanf:"open_settle"`
	CachePatterns  []string      `koanf:"cache_patterns"`
	ClearCommand   []string      `koanf:"clear_command"`
}

// CleanupSettings controls marker removal
type CleanupSettings struct {
	ClearFolderSystem bool `koanf:"clear_folder_system"`
}

// WatchSettings controls the folders.txt watch
type WatchSettings struct {
	// Debounce is the quiet period after the last change before markers are synced.
	Debounce time.Duration `koanf:"debounce"`
}

// Validate checks invariants the components rely on
func (s *Settings) Validate() error {
	switch {
	case strings.TrimSpace(s.Config.FileName) == "":
		return errors.New(errors.ErrSettingsValid, "config.file_name must not be empty")
	case strings.TrimSpace(s.Marker.FileName) == "":
		return errors.New(errors.ErrSettingsValid, "marker.file_name must not be empty")
	case !strings.HasPrefix(s.Discovery.Extension, ".") || len(s.Discovery.Extension) < 2:
		return errors.Newf(errors.ErrSettingsValid, "discovery.extension %q must look like \".exe\"", s.Discovery.Extension)
	case s.Refresh.Attempts < 1:
		return errors.Newf(errors.ErrSettingsValid, "refresh.attempts must be at least 1, got %d", s.Refresh.Attempts)
	case strings.TrimSpace(s.Refresh.ScratchFile) == "":
		return errors.New(errors.ErrSettingsValid, "refresh.scratch_file must not be empty")
	case strings.TrimSpace(s.Rebuild.ShellProcess) == "":
		return errors.New(errors.ErrSettingsValid, "rebuild.shell_process must not be empty")
	case s.Watch.Debounce <= 0:
		return errors.Newf(errors.ErrSettingsValid, "watch.debounce must be positive, got %s", s.Watch.Debounce)
	}
	return nil
}
