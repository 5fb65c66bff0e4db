// Package watch reports changes to a single file. It watches the file's
// directory rather than the file itself, because editors commonly save by
// writing a temporary file and renaming it over the original, which drops
// a watch held on the old inode.
package watch

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/iconfolio/pkg/errors"
	"github.com/arthur-debert/iconfolio/pkg/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is used when Options.Debounce is zero
const DefaultDebounce = 500 * time.Millisecond

// Options configures a Watcher
type Options struct {
	// Path is the watched file. It may not exist yet.
	Path string
	// Debounce is the quiet period after the last event before OnChange runs.
	Debounce time.Duration
	// OnChange runs once per burst of events. An error is logged and the
	// watch goes on.
	OnChange func() error
}

// Watcher calls OnChange after the file is created, written, renamed or
// removed
type Watcher struct {
	opts    Options
	dir     string
	name    string
	fsw     *fsnotify.Watcher
	logger  zerolog.Logger
	changes int
}

// New starts watching the directory of opts.Path
func New(opts Options) (*Watcher, error) {
	if opts.Path == "" || opts.OnChange == nil {
		return nil, errors.New(errors.ErrInvalidInput, "watch needs a path and a change handler")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	abs, err := filepath.Abs(opts.Path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid watch path %s", opts.Path)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to create file watcher")
	}
	dir := filepath.Dir(abs)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to watch %s", dir).
			WithDetail("path", dir)
	}

	return &Watcher{
		opts:   opts,
		dir:    dir,
		name:   filepath.Base(abs),
		fsw:    fsw,
		logger: logging.GetLogger("watch"),
	}, nil
}

// Run dispatches events until ctx is done or the watcher is closed. It
// returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fsw.Close() }()

	w.logger.Info().Str("dir", w.dir).Str("file", w.name).Msg("Watching for changes")

	debounce := time.NewTimer(time.Hour)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("Watcher error")
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug().Str("event", ev.Op.String()).Str("path", ev.Name).Msg("File changed")
			pending = true
			debounce.Reset(w.opts.Debounce)
		case <-debounce.C:
			if !pending {
				continue
			}
			pending = false
			w.changes++
			if err := w.opts.OnChange(); err != nil {
				w.logger.Error().Err(err).Msg("Change handler failed")
			}
		}
	}
}

// Changes is how many times OnChange has run
func (w *Watcher) Changes() int {
	return w.changes
}

// Close stops the watch; a running Run returns
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// relevant keeps events on the watched name. Windows file names are case
// insensitive, so is the match.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Base(ev.Name), w.name) {
		return false
	}
	return ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
