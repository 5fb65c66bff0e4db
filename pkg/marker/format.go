package marker

import (
	"strconv"
	"strings"

	"github.com/arthur-debert/iconfolio/pkg/errors"
	"github.com/go-ini/ini"
)

// SectionName is the block the shell reads folder customization from
const SectionName = ".ShellClassInfo"

const (
	keyAlias = "LocalizedResourceName"
	keyIcon  = "IconResource"
	newline  = "\r\n"
)

// Info is what an existing marker says about its folder
type Info struct {
	Alias     string `json:"alias" yaml:"alias"`
	Icon      string `json:"icon" yaml:"icon"`
	IconIndex int    `json:"icon_index" yaml:"icon_index"`
}

// Render returns the marker text for an alias and icon reference
func Render(alias, iconRef string, index int) string {
	var b strings.Builder
	b.WriteString("[" + SectionName + "]" + newline)
	b.WriteString(keyAlias + "=" + alias + newline)
	b.WriteString(keyIcon + "=" + iconRef + "," + strconv.Itoa(index) + newline)
	return b.String()
}

// Parse reads marker text. Markers written by other tools may lack either
// key; only a missing section is an error.
func Parse(text string) (Info, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:     true,
		PreserveSurroundedQuote: true,
		AllowBooleanKeys:        true,
	}, []byte(text))
	if err != nil {
		return Info{}, errors.Wrap(err, errors.ErrConfigParse, "marker is not valid INI")
	}
	sec, err := f.GetSection(SectionName)
	if err != nil {
		return Info{}, errors.New(errors.ErrNotFound, "marker has no "+SectionName+" section")
	}

	var info Info
	if sec.HasKey(keyAlias) {
		info.Alias = strings.TrimSpace(sec.Key(keyAlias).String())
	}
	if sec.HasKey(keyIcon) {
		info.Icon, info.IconIndex = splitIconResource(sec.Key(keyIcon).String())
	}
	return info, nil
}

// splitIconResource separates "path,index"; a path without a numeric
// suffix has index 0.
func splitIconResource(v string) (string, int) {
	v = strings.TrimSpace(v)
	i := strings.LastIndex(v, ",")
	if i < 0 {
		return v, 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(v[i+1:]))
	if err != nil {
		return v, 0
	}
	return strings.TrimSpace(v[:i]), n
}
