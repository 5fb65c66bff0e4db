package topics

import (
	"github.com/charmbracelet/glamour"
)

// GlamourRenderer renders markdown topics with glamour; other topics pass
// through untouched
type GlamourRenderer struct {
	// Style is a glamour style name ("dark", "light", "notty") or a style
	// file path; empty or "auto" detects from the terminal.
	Style string
	// Width wraps at this column, 0 keeps glamour's default.
	Width int
}

// NewGlamourRenderer creates a renderer. Without styling it uses the notty
// style, which keeps the markdown structure but emits no escape codes.
func NewGlamourRenderer(styled bool, width int) *GlamourRenderer {
	r := &GlamourRenderer{Style: "auto", Width: width}
	if !styled {
		r.Style = "notty"
	}
	return r
}

// Render converts markdown to terminal output, falling back to the raw
// content if glamour fails
func (r *GlamourRenderer) Render(content string, ext string) string {
	if ext != ".md" {
		return content
	}

	var options []glamour.TermRendererOption
	switch r.Style {
	case "", "auto":
		options = append(options, glamour.WithAutoStyle())
	case "dark", "light", "notty", "dracula", "ascii", "pink", "tokyo-night":
		options = append(options, glamour.WithStandardStyle(r.Style))
	default:
		options = append(options, glamour.WithStylePath(r.Style))
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	tr, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	out, err := tr.Render(content)
	if err != nil {
		return content
	}
	return out
}
