package folderconfig

import (
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/iconfolio/pkg/backup"
	"github.com/arthur-debert/iconfolio/pkg/codepage"
	"github.com/arthur-debert/iconfolio/pkg/discovery"
	"github.com/arthur-debert/iconfolio/pkg/errors"
	"github.com/arthur-debert/iconfolio/pkg/logging"
	"github.com/arthur-debert/iconfolio/pkg/types"
	"github.com/rs/zerolog"
)

// DefaultFileName is the configuration file name inside the operating root
const DefaultFileName = "folders.txt"

// AliasLookup returns the alias an existing marker already gives a folder
type AliasLookup func(folderPath string) (alias string, ok bool)

// Options configures a Store
type Options struct {
	FS       types.FS
	Root     string
	FileName string
	Encoding codepage.Encoding
	Finder   *discovery.Finder
	Backup   *backup.Backup
	// Aliases seeds generated entries with aliases of existing markers.
	Aliases AliasLookup
	Now     func() time.Time
}

// Store reads and writes the configuration of one operating root
type Store struct {
	fs      types.FS
	root    string
	path    string
	enc     codepage.Encoding
	finder  *discovery.Finder
	backup  *backup.Backup
	aliases AliasLookup
	now     func() time.Time
	logger  zerolog.Logger
}

// Result reports what a generation, merge or upsert did
type Result struct {
	Added   []types.FolderEntry `json:"added" yaml:"added"`
	Updated []types.FolderEntry `json:"updated,omitempty" yaml:"updated,omitempty"`
	// Omitted folders had no candidate executable.
	Omitted []string `json:"omitted,omitempty" yaml:"omitted,omitempty"`
	// Skipped folders were declined by the selector.
	Skipped    []string `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	BackupPath string   `json:"backup,omitempty" yaml:"backup,omitempty"`
	Written    bool     `json:"written" yaml:"written"`
	// NoChanges is set by a merge that appended nothing: every folder is
	// configured, or the new ones were all omitted or skipped.
	NoChanges bool `json:"no_changes,omitempty" yaml:"no_changes,omitempty"`
	// NoFolders is set when the root has no candidate folders at all.
	NoFolders bool `json:"no_folders,omitempty" yaml:"no_folders,omitempty"`
}

// NewStore creates a Store
func NewStore(opts Options) *Store {
	if opts.FileName == "" {
		opts.FileName = DefaultFileName
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Backup == nil {
		opts.Backup = backup.New(opts.FS, opts.Now)
	}
	if opts.Finder == nil {
		opts.Finder = discovery.NewFinder(opts.FS, discovery.DefaultOptions())
	}
	return &Store{
		fs:      opts.FS,
		root:    opts.Root,
		path:    filepath.Join(opts.Root, opts.FileName),
		enc:     opts.Encoding,
		finder:  opts.Finder,
		backup:  opts.Backup,
		aliases: opts.Aliases,
		now:     opts.Now,
		logger:  logging.GetLogger("folderconfig"),
	}
}

// Path returns the configuration file path
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the configuration file is present
func (s *Store) Exists() bool {
	_, err := s.fs.Stat(s.path)
	return err == nil
}

// Load reads the configuration. Each failure carries its own code:
// CONFIG_MISSING, CONFIG_LOAD, CONFIG_ENCODING, CONFIG_PARSE or CONFIG_EMPTY.
func (s *Store) Load() (*types.Configuration, error) {
	if _, err := s.fs.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrConfigMissing, "configuration file not found: %s", s.path).
				WithDetail("path", s.path)
		}
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot access %s", s.path)
	}

	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read %s", s.path)
	}

	text, err := s.enc.Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigEncoding,
			"%s is not saved as %s; re-save it in that encoding", filepath.Base(s.path), s.enc.Name).
			WithDetail("path", s.path).
			WithDetail("encoding", s.enc.Name)
	}

	cfg, err := Parse(text)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "cannot parse %s", s.path).
			WithDetail("path", s.path)
	}
	if cfg.Len() == 0 {
		return nil, errors.Newf(errors.ErrConfigEmpty, "%s does not configure any folder", s.path).
			WithDetail("path", s.path)
	}

	s.logger.Debug().
		Str("path", s.path).
		Int("entries", cfg.Len()).
		Str("encoding", s.enc.Name).
		Msg("Loaded configuration")
	return cfg, nil
}

// Write replaces the file with cfg after backing up the current one. A
// failed backup is logged and does not block the write.
func (s *Store) Write(cfg *types.Configuration) (string, error) {
	data, err := s.enc.Encode(Render(cfg, s.now()))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrConfigEncoding,
			"configuration cannot be saved as %s", s.enc.Name)
	}
	backupPath := s.backupExisting()
	if err := s.fs.WriteFile(s.path, data, 0644); err != nil {
		return backupPath, errors.Wrapf(err, errors.ErrConfigWrite, "cannot write %s", s.path)
	}
	s.logger.Info().
		Str("path", s.path).
		Int("entries", cfg.Len()).
		Msg("Wrote configuration")
	return backupPath, nil
}

// RegenerateFull rebuilds the configuration from the folders of the root,
// overwriting any existing file after a backup. A selector error aborts
// before anything is written.
func (s *Store) RegenerateFull(sel Selector) (*Result, error) {
	done := logging.LogOperationStart(s.logger, "regenerate")
	defer done()

	folders, err := discovery.ChildFolders(s.fs, s.root)
	if err != nil {
		return nil, err
	}
	res := &Result{}
	if len(folders) == 0 {
		res.NoFolders = true
		return res, nil
	}

	cfg := types.NewConfiguration()
	for _, folder := range folders {
		entry, ok, err := s.resolve(folder, sel, res)
		if err != nil {
			return nil, err
		}
		if ok {
			cfg.Set(entry)
			res.Added = append(res.Added, entry)
		}
	}

	res.BackupPath, err = s.Write(cfg)
	if err != nil {
		return res, err
	}
	res.Written = true
	return res, nil
}

// MergeNewFolders appends entries for folders that are not configured yet.
// Existing entries and the rest of the file are never rewritten. When
// nothing would be appended the file is left untouched.
func (s *Store) MergeNewFolders(sel Selector) (*Result, error) {
	done := logging.LogOperationStart(s.logger, "merge")
	defer done()

	existing, err := s.loadTolerant()
	if err != nil {
		return nil, err
	}

	folders, err := discovery.ChildFolders(s.fs, s.root)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	var fresh []string
	for _, f := range folders {
		if !existing.Has(f) {
			fresh = append(fresh, f)
		}
	}
	if len(fresh) == 0 {
		res.NoChanges = true
		s.logger.Info().Int("configured", existing.Len()).Msg("No new folders to add")
		return res, nil
	}

	for _, folder := range fresh {
		entry, ok, err := s.resolve(folder, sel, res)
		if err != nil {
			return nil, err
		}
		if ok {
			res.Added = append(res.Added, entry)
		}
	}
	if len(res.Added) == 0 {
		res.NoChanges = true
		s.logger.Info().Int("unresolved", len(fresh)).Msg("New folders found, none could be added")
		return res, nil
	}

	current, err := s.readRaw()
	if err != nil {
		return res, err
	}
	var prefix string
	if len(current) == 0 {
		prefix = Header(s.now())
	} else {
		prefix = newline
	}
	addition, err := s.enc.Encode(prefix + RenderEntries(res.Added))
	if err != nil {
		return res, errors.Wrapf(err, errors.ErrConfigEncoding,
			"new entries cannot be saved as %s", s.enc.Name)
	}

	res.BackupPath = s.backupExisting()
	if err := s.fs.WriteFile(s.path, append(current, addition...), 0644); err != nil {
		return res, errors.Wrapf(err, errors.ErrConfigWrite, "cannot write %s", s.path)
	}
	res.Written = true
	s.logger.Info().
		Str("path", s.path).
		Int("added", len(res.Added)).
		Msg("Appended new folders")
	return res, nil
}

// Upsert adds entries or overwrites existing ones in place, then rewrites
// the file. A missing or empty configuration starts from scratch.
func (s *Store) Upsert(entries ...types.FolderEntry) (*Result, error) {
	cfg, err := s.loadTolerant()
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, e := range entries {
		if e.FolderName == "" {
			return nil, errors.New(errors.ErrInvalidInput, "folder name must not be empty")
		}
		if cfg.Has(e.FolderName) {
			res.Updated = append(res.Updated, e)
		} else {
			res.Added = append(res.Added, e)
		}
		cfg.Set(e)
	}

	res.BackupPath, err = s.Write(cfg)
	if err != nil {
		return res, err
	}
	res.Written = true
	return res, nil
}

// Candidates runs discovery on one configured or unconfigured folder
func (s *Store) Candidates(folder string) ([]discovery.Candidate, error) {
	return s.finder.Find(filepath.Join(s.root, folder))
}

// resolve picks the icon for one folder, recording omissions and skips
func (s *Store) resolve(folder string, sel Selector, res *Result) (types.FolderEntry, bool, error) {
	candidates, err := s.Candidates(folder)
	if err != nil {
		s.logger.Warn().Err(err).Str("folder", folder).Msg("Cannot search folder, omitting")
		res.Omitted = append(res.Omitted, folder)
		return types.FolderEntry{}, false, nil
	}

	var choice discovery.Candidate
	switch len(candidates) {
	case 0:
		s.logger.Warn().Str("folder", folder).Msg("No usable executable found, omitting")
		res.Omitted = append(res.Omitted, folder)
		return types.FolderEntry{}, false, nil
	case 1:
		choice = candidates[0]
	default:
		if sel == nil {
			sel = FirstSelector{}
		}
		var ok bool
		choice, ok, err = sel.Select(folder, candidates)
		if err != nil {
			return types.FolderEntry{}, false, errors.Wrapf(err, errors.ErrInvalidInput,
				"selection aborted at folder %s", folder)
		}
		if !ok {
			s.logger.Info().Str("folder", folder).Msg("Skipped by selection")
			res.Skipped = append(res.Skipped, folder)
			return types.FolderEntry{}, false, nil
		}
	}

	entry := types.FolderEntry{
		FolderName:       folder,
		Alias:            folder,
		IconRelativePath: choice.RelPath,
	}
	if s.aliases != nil {
		if alias, ok := s.aliases(filepath.Join(s.root, folder)); ok && alias != "" {
			entry.Alias = alias
		}
	}
	s.logger.Debug().
		Str("folder", folder).
		Str("icon", entry.IconRelativePath).
		Msg("Selected icon source")
	return entry, true, nil
}

// loadTolerant loads the configuration, treating a missing or empty file as
// an empty configuration. Any other failure is returned.
func (s *Store) loadTolerant() (*types.Configuration, error) {
	cfg, err := s.Load()
	if err == nil {
		return cfg, nil
	}
	switch errors.GetErrorCode(err) {
	case errors.ErrConfigMissing, errors.ErrConfigEmpty:
		return types.NewConfiguration(), nil
	}
	return nil, err
}

func (s *Store) readRaw() ([]byte, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read %s", s.path)
	}
	return data, nil
}

func (s *Store) backupExisting() string {
	dst, err := s.backup.Config(s.path)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("Backup failed, continuing")
		return ""
	}
	return dst
}
