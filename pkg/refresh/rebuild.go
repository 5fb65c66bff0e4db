package refresh

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/iconfolio/pkg/errors"
	"github.com/arthur-debert/iconfolio/pkg/logging"
	"github.com/bmatcuk/doublestar"
)

// RebuildResult reports what the whole-tree rebuild did
type RebuildResult struct {
	Terminated     bool
	Deleted        []string
	DeleteFailures []string
	// Relaunched is true when the shell came back on the normal path.
	Relaunched bool
	// Recovered is true when the exit guard had to bring the shell back.
	Recovered    bool
	CacheCleared bool
	Opened       bool
}

// Rebuild kills the shell, purges its icon cache files, relaunches it, runs
// the icon cache utility and reopens the operating root. Whatever happens in
// between, the shell is relaunched before Rebuild returns; only a failed
// relaunch is reported as an error.
func (o *Orchestrator) Rebuild() (result *RebuildResult, err error) {
	done := logging.LogOperationStart(o.logger, "rebuild")
	defer done()

	result = &RebuildResult{}
	shell := o.rebuild.ShellProcess

	defer func() {
		if result.Relaunched {
			return
		}
		o.logger.Warn().Str("process", shell).Msg("Shell not running after rebuild, relaunching")
		launchErr := o.shell.Launch(shell)
		if launchErr != nil {
			o.sleep(o.rebuild.KillSettle)
			launchErr = o.shell.Launch(shell)
		}
		if launchErr != nil {
			o.logger.Error().Err(launchErr).Msg("Could not relaunch the shell")
			err = errors.Wrapf(launchErr, errors.ErrShellRecovery,
				"could not relaunch %s, start it manually", shell)
			return
		}
		result.Recovered = true
		o.openRoot(result)
	}()

	if termErr := o.shell.Terminate(shell); termErr != nil {
		// the shell may simply not be running
		o.logger.Warn().Err(termErr).Str("process", shell).Msg("Could not terminate shell")
	} else {
		result.Terminated = true
	}
	o.sleep(o.rebuild.KillSettle)

	o.purgeCache(result)
	o.sleep(o.rebuild.PurgeSettle)

	if launchErr := o.shell.Launch(shell); launchErr != nil {
		o.logger.Warn().Err(launchErr).Str("process", shell).Msg("Shell relaunch failed")
		return result, nil
	}
	result.Relaunched = true

	if len(o.rebuild.ClearCommand) > 0 {
		cmd := o.rebuild.ClearCommand
		if runErr := o.shell.Run(cmd[0], cmd[1:]...); runErr != nil {
			o.logger.Warn().Err(runErr).Str("command", cmd[0]).Msg("Icon cache utility failed")
		} else {
			result.CacheCleared = true
		}
	}
	o.sleep(o.rebuild.RelaunchSettle)

	o.openRoot(result)

	o.logger.Info().
		Int("deleted", len(result.Deleted)).
		Int("deleteFailures", len(result.DeleteFailures)).
		Bool("cacheCleared", result.CacheCleared).
		Msg("Icon cache rebuilt")
	return result, nil
}

// openRoot shows the operating root again once the shell is back
func (o *Orchestrator) openRoot(result *RebuildResult) {
	if o.root == "" {
		return
	}
	if info, err := o.fs.Stat(o.root); err != nil || !info.IsDir() {
		return
	}
	if err := o.shell.Open(o.root); err != nil {
		o.logger.Warn().Err(err).Str("root", o.root).Msg("Could not reopen root")
		return
	}
	result.Opened = true
	o.sleep(o.rebuild.OpenSettle)
}

// purgeCache deletes files matching the configured cache patterns. Only the
// last path element may contain wildcards; it is matched case-insensitively.
func (o *Orchestrator) purgeCache(result *RebuildResult) {
	for _, pattern := range o.rebuild.CachePatterns {
		expanded, ok := o.expand(pattern)
		if !ok {
			o.logger.Debug().Str("pattern", pattern).Msg("Cache pattern references unset variable, skipping")
			continue
		}
		expanded = filepath.FromSlash(expanded)
		dir, base := filepath.Dir(expanded), strings.ToLower(filepath.Base(expanded))

		entries, err := o.fs.ReadDir(dir)
		if err != nil {
			o.logger.Debug().Err(err).Str("dir", dir).Msg("Cache directory not readable")
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			matched, err := doublestar.Match(base, strings.ToLower(entry.Name()))
			if err != nil {
				o.logger.Warn().Err(err).Str("pattern", pattern).Msg("Invalid cache pattern")
				break
			}
			if !matched {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if err := o.fs.Remove(path); err != nil {
				o.logger.Warn().Err(err).Str("file", path).Msg("Could not delete cache file")
				result.DeleteFailures = append(result.DeleteFailures, path)
				continue
			}
			o.logger.Debug().Str("file", path).Msg("Deleted cache file")
			result.Deleted = append(result.Deleted, path)
		}
	}
}

// expand substitutes ${VAR} references; ok is false when any is unset
func (o *Orchestrator) expand(pattern string) (string, bool) {
	ok := true
	expanded := os.Expand(pattern, func(key string) string {
		v := o.getenv(key)
		if v == "" {
			ok = false
		}
		return v
	})
	return expanded, ok
}
