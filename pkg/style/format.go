package style

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// Format is an output format. Terminal and text are for people, JSON and
// YAML for scripts.
type Format int

const (
	FormatAuto Format = iota
	FormatTerminal
	FormatText
	FormatJSON
	FormatYAML
)

var formatNames = [...]string{
	FormatAuto:     "auto",
	FormatTerminal: "term",
	FormatText:     "text",
	FormatJSON:     "json",
	FormatYAML:     "yaml",
}

// aliases are the extra spellings ParseFormat accepts
var aliases = map[string]Format{
	"":         FormatAuto,
	"terminal": FormatTerminal,
	"plain":    FormatText,
	"yml":      FormatYAML,
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return "unknown"
	}
	return formatNames[f]
}

// Structured reports whether the format is machine-readable
func (f Format) Structured() bool {
	return f == FormatJSON || f == FormatYAML
}

// ParseFormat reads a --format value, case-insensitively
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if f, ok := aliases[s]; ok {
		return f, nil
	}
	for i, name := range formatNames {
		if name == s {
			return Format(i), nil
		}
	}
	return FormatAuto, fmt.Errorf("unknown format %q (want one of %s)", s, strings.Join(formatNames[:], ", "))
}

// Resolve turns FormatAuto into terminal or text for out. NO_COLOR, a
// redirected stream or a colorless terminal all mean text.
func Resolve(f Format, out *os.File) Format {
	if f != FormatAuto {
		return f
	}
	switch fd := out.Fd(); {
	case os.Getenv("NO_COLOR") != "":
		return FormatText
	case !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd):
		return FormatText
	case termenv.NewOutput(out).ColorProfile() == termenv.Ascii:
		return FormatText
	}
	return FormatTerminal
}

// Configure makes pterm and lipgloss emit escape codes only for terminal
// output
func Configure(f Format) {
	if f == FormatTerminal {
		pterm.EnableStyling()
		return
	}
	pterm.DisableStyling()
	lipgloss.SetColorProfile(termenv.Ascii)
}

// Encode writes v as JSON or YAML
func Encode(w io.Writer, f Format, v interface{}) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		enc.SetIndent(2)
		return enc.Encode(v)
	}
	return fmt.Errorf("format %s is not structured", f)
}
