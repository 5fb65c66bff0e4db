package folderconfig

import (
	"strings"
	"time"

	"github.com/arthur-debert/iconfolio/pkg/errors"
	"github.com/arthur-debert/iconfolio/pkg/types"
	"github.com/go-ini/ini"
)

// Key names shared with the marker file
const (
	KeyAlias = "LocalizedResourceName"
	KeyIcon  = "IconResource"
)

const newline = "\r\n"

var loadOptions = ini.LoadOptions{
	IgnoreInlineComment:     true,
	PreserveSurroundedQuote: true,
	AllowBooleanKeys:        true,
	IgnoreContinuation:      true,
}

// Parse reads configuration text. Sections become entries in the order
// their headers appear; a missing or empty alias falls back to the folder
// name. Keys above the first header are ignored.
func Parse(text string) (*types.Configuration, error) {
	f, err := ini.LoadSources(loadOptions, []byte(text))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "configuration is not valid INI")
	}

	cfg := types.NewConfiguration()
	for _, name := range sectionHeaders(text) {
		sec, err := f.GetSection(name)
		if err != nil || cfg.Has(name) {
			continue
		}
		cfg.Set(entryFrom(sec))
	}
	return cfg, nil
}

// sectionHeaders lists header names in document order. go-ini files its
// default section first whatever its position, and uses it for keys above
// the first header too, so a folder named after it needs the raw text.
func sectionHeaders(text string) []string {
	var names []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "[") {
			continue
		}
		end := strings.LastIndex(line, "]")
		if end < 1 {
			continue
		}
		if name := strings.TrimSpace(line[1:end]); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func entryFrom(sec *ini.Section) types.FolderEntry {
	name := sec.Name()
	entry := types.FolderEntry{FolderName: name}
	if sec.HasKey(KeyAlias) {
		entry.Alias = strings.TrimSpace(sec.Key(KeyAlias).String())
	}
	if entry.Alias == "" {
		entry.Alias = name
	}
	if sec.HasKey(KeyIcon) {
		entry.IconRelativePath = strings.TrimSpace(sec.Key(KeyIcon).String())
	}
	return entry
}

// Header returns the comment block written at the top of a new file
func Header(generated time.Time) string {
	lines := []string{
		"# Folder icon configuration",
		"# Generated " + generated.Format("2006-01-02 15:04:05"),
		"# Format:",
		"# [folder name]",
		"# " + KeyAlias + "=display name (alias, editable)",
		"# " + KeyIcon + "=executable path, relative to the folder itself",
		"",
	}
	return strings.Join(lines, newline) + newline
}

// RenderEntries writes one section per entry, each followed by a blank line
func RenderEntries(entries []types.FolderEntry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString("[" + e.FolderName + "]" + newline)
		b.WriteString(KeyAlias + "=" + e.DisplayName() + newline)
		b.WriteString(KeyIcon + "=" + e.IconRelativePath + newline)
		b.WriteString(newline)
	}
	return b.String()
}

// Render produces a complete document
func Render(cfg *types.Configuration, generated time.Time) string {
	return Header(generated) + RenderEntries(cfg.Entries())
}
