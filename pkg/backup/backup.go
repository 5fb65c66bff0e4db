// Package backup makes timestamped sibling copies of files before they are
// overwritten. Configuration files keep their extension
// (folders-20240305_143015.txt); marker files get a suffix
// (desktop.ini.bak.20240305143015) so cleanup can find them by prefix.
package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/iconfolio/pkg/errors"
	"github.com/arthur-debert/iconfolio/pkg/logging"
	"github.com/arthur-debert/iconfolio/pkg/types"
	"github.com/rs/zerolog"
)

const (
	configStampLayout = "20060102_150405"
	markerStampLayout = "20060102150405"
	markerSuffix      = ".bak"
)

// Backup copies files next to themselves
type Backup struct {
	fs     types.FS
	now    func() time.Time
	logger zerolog.Logger
}

// New creates a Backup; a nil clock means time.Now
func New(fsys types.FS, now func() time.Time) *Backup {
	if now == nil {
		now = time.Now
	}
	return &Backup{
		fs:     fsys,
		now:    now,
		logger: logging.GetLogger("backup"),
	}
}

// ConfigName returns the backup name for a configuration file at the
// current time: stem-YYYYMMDD_HHMMSS.ext
func (b *Backup) ConfigName(path string) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s-%s%s", stem, b.now().Format(configStampLayout), ext)
}

// MarkerName returns the backup name for a marker file: name.bak.YYYYMMDDHHMMSS
func (b *Backup) MarkerName(path string) string {
	return fmt.Sprintf("%s%s.%s", path, markerSuffix, b.now().Format(markerStampLayout))
}

// Config backs up a configuration file. It returns "" without error when
// there is nothing to back up.
func (b *Backup) Config(path string) (string, error) {
	return b.copy(path, b.ConfigName(path))
}

// Marker backs up a marker file. It returns "" without error when there is
// nothing to back up.
func (b *Backup) Marker(path string) (string, error) {
	return b.copy(path, b.MarkerName(path))
}

// IsMarkerBackup reports whether name is a backup of markerName, matching
// the original's "desktop.ini.bak*" convention case-insensitively.
func IsMarkerBackup(name, markerName string) bool {
	return strings.HasPrefix(strings.ToLower(name), strings.ToLower(markerName+markerSuffix))
}

func (b *Backup) copy(src, dst string) (string, error) {
	info, err := b.fs.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrapf(err, errors.ErrBackup, "cannot inspect %s", src)
	}
	if info.IsDir() {
		return "", errors.Newf(errors.ErrBackup, "%s is a directory", src)
	}

	data, err := b.fs.ReadFile(src)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrBackup, "cannot read %s", src)
	}

	dst = b.unique(dst)
	if err := b.fs.WriteFile(dst, data, info.Mode().Perm()|0200); err != nil {
		return "", errors.Wrapf(err, errors.ErrBackup, "cannot write backup %s", dst)
	}

	b.logger.Debug().
		Str("source", src).
		Str("backup", dst).
		Msg("Created backup")
	return dst, nil
}

// unique avoids clobbering a backup taken within the same second
func (b *Backup) unique(dst string) string {
	if !b.exists(dst) {
		return dst
	}
	ext := filepath.Ext(dst)
	stem := strings.TrimSuffix(dst, ext)
	if strings.Contains(filepath.Base(dst), markerSuffix+".") {
		stem, ext = dst, ""
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d%s", stem, i, ext)
		if !b.exists(candidate) {
			return candidate
		}
	}
}

func (b *Backup) exists(path string) bool {
	_, err := b.fs.Stat(path)
	return err == nil
}
