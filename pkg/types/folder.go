package types

import "github.com/arthur-debert/iconfolio/pkg/errors"

// FolderEntry is one unit of configuration: a direct child folder of the
// operating root together with the alias and icon the shell should show.
type FolderEntry struct {
	// FolderName is the literal, case-preserved child directory name. Unique key.
	FolderName string `json:"folder" yaml:"folder"`
	// Alias is the display name. Empty means FolderName.
	Alias string `json:"alias" yaml:"alias"`
	// IconRelativePath points to an executable, relative to the folder itself.
	IconRelativePath string `json:"icon" yaml:"icon"`
}

// DisplayName returns the alias, falling back to the folder name.
func (e FolderEntry) DisplayName() string {
	if e.Alias == "" {
		return e.FolderName
	}
	return e.Alias
}

// Configuration is an ordered mapping of FolderEntry keyed by folder name.
// Insertion order is authoring order and is preserved on overwrite.
type Configuration struct {
	entries []FolderEntry
	index   map[string]int
}

// NewConfiguration creates a configuration from entries. Later duplicates
// overwrite earlier ones in place.
func NewConfiguration(entries ...FolderEntry) *Configuration {
	c := &Configuration{index: make(map[string]int)}
	for _, e := range entries {
		c.Set(e)
	}
	return c
}

// Len returns the number of entries
func (c *Configuration) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entries returns a copy of the entries in authoring order
func (c *Configuration) Entries() []FolderEntry {
	if c == nil {
		return nil
	}
	out := make([]FolderEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Names returns the configured folder names in authoring order
func (c *Configuration) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.FolderName
	}
	return names
}

// Has reports whether a folder is configured
func (c *Configuration) Has(folder string) bool {
	if c == nil {
		return false
	}
	_, ok := c.index[folder]
	return ok
}

// Get returns the entry for folder
func (c *Configuration) Get(folder string) (FolderEntry, bool) {
	if c == nil {
		return FolderEntry{}, false
	}
	i, ok := c.index[folder]
	if !ok {
		return FolderEntry{}, false
	}
	return c.entries[i], true
}

// Set adds the entry or overwrites an existing one at its original position.
func (c *Configuration) Set(e FolderEntry) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[e.FolderName]; ok {
		c.entries[i] = e
		return
	}
	c.index[e.FolderName] = len(c.entries)
	c.entries = append(c.entries, e)
}

// Append adds a new entry and fails if the folder is already configured.
func (c *Configuration) Append(e FolderEntry) error {
	if c.Has(e.FolderName) {
		return errors.Newf(errors.ErrInvalidInput, "folder %q is already configured", e.FolderName).
			WithDetail("folder", e.FolderName)
	}
	c.Set(e)
	return nil
}
