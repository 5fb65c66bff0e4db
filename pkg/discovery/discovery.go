// Package discovery finds the executables inside a folder that can serve as
// its icon source, and lists the folders of an operating root.
package discovery

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/iconfolio/pkg/errors"
	"github.com/arthur-debert/iconfolio/pkg/logging"
	"github.com/arthur-debert/iconfolio/pkg/types"
	"github.com/bmatcuk/doublestar"
	"github.com/rs/zerolog"
)

// Candidate is an icon-source file found under a folder
type Candidate struct {
	// AbsPath is the absolute path of the file.
	AbsPath string `json:"abs_path" yaml:"abs_path"`
	// RelPath is relative to the folder that was searched.
	RelPath string `json:"rel_path" yaml:"rel_path"`
}

// Options controls which files qualify
type Options struct {
	Extension       string
	ExcludeKeywords []string
	ExcludeGlobs    []string
}

// DefaultOptions matches executables that are not uninstallers or setup steps
func DefaultOptions() Options {
	return Options{
		Extension:       ".exe",
		ExcludeKeywords: []string{"uninstall", "step"},
	}
}

// Finder enumerates candidates. It has no state besides its options.
type Finder struct {
	fs     types.FS
	opts   Options
	logger zerolog.Logger
}

// NewFinder creates a Finder over fsys
func NewFinder(fsys types.FS, opts Options) *Finder {
	opts.Extension = strings.ToLower(opts.Extension)
	keywords := make([]string, 0, len(opts.ExcludeKeywords))
	for _, k := range opts.ExcludeKeywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			keywords = append(keywords, k)
		}
	}
	opts.ExcludeKeywords = keywords
	return &Finder{
		fs:     fsys,
		opts:   opts,
		logger: logging.GetLogger("discovery"),
	}
}

// Find walks folder depth-first, files of a directory before its
// subdirectories, both in name order. The result is deduplicated by resolved
// path. An empty result is not an error.
func (f *Finder) Find(folder string) ([]Candidate, error) {
	abs, err := filepath.Abs(folder)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot resolve folder").
			WithDetail("path", folder)
	}
	entries, err := f.fs.ReadDir(abs)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot read folder").
			WithDetail("path", folder)
	}

	var out []Candidate
	seen := make(map[string]bool)
	f.walk(abs, abs, entries, seen, &out)

	f.logger.Debug().
		Str("folder", abs).
		Int("count", len(out)).
		Msg("Found icon candidates")
	return out, nil
}

// Accepts reports whether a file name passes the extension and keyword filter
func (f *Finder) Accepts(name string) bool {
	lower := strings.ToLower(name)
	if !strings.HasSuffix(lower, f.opts.Extension) {
		return false
	}
	for _, k := range f.opts.ExcludeKeywords {
		if strings.Contains(lower, k) {
			return false
		}
	}
	return true
}

func (f *Finder) walk(root, dir string, entries []os.DirEntry, seen map[string]bool, out *[]Candidate) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var subdirs []string
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if e.IsDir() {
			subdirs = append(subdirs, path)
			continue
		}
		if e.Type()&os.ModeSymlink != 0 {
			info, err := f.fs.Stat(path)
			if err != nil || info.IsDir() {
				// dangling links and linked directories are not followed
				continue
			}
		} else if !e.Type().IsRegular() {
			continue
		}
		if !f.Accepts(e.Name()) {
			continue
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			continue
		}
		if f.globExcluded(rel) {
			f.logger.Trace().Str("path", rel).Msg("Excluded by glob")
			continue
		}
		key := resolve(path)
		if seen[key] {
			continue
		}
		seen[key] = true
		*out = append(*out, Candidate{AbsPath: path, RelPath: rel})
	}

	for _, sub := range subdirs {
		children, err := f.fs.ReadDir(sub)
		if err != nil {
			f.logger.Debug().Err(err).Str("path", sub).Msg("Skipping unreadable directory")
			continue
		}
		f.walk(root, sub, children, seen, out)
	}
}

func (f *Finder) globExcluded(rel string) bool {
	slashed := strings.ToLower(filepath.ToSlash(rel))
	for _, pattern := range f.opts.ExcludeGlobs {
		matched, err := doublestar.Match(strings.ToLower(pattern), slashed)
		if err != nil {
			f.logger.Warn().Err(err).Str("pattern", pattern).Msg("Invalid exclude pattern")
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

func resolve(path string) string {
	if real, err := filepath.EvalSymlinks(path); err == nil {
		return real
	}
	return path
}

// ChildFolders lists the direct subdirectories of root that are not
// dot-prefixed, in name order. Folder names are returned as-is.
func ChildFolders(fsys types.FS, root string) ([]string, error) {
	entries, err := fsys.ReadDir(root)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot read operating directory").
			WithDetail("path", root)
	}
	var names []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") || !e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
