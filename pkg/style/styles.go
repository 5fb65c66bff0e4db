package style

import (
	"github.com/charmbracelet/lipgloss"
)

func fg(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

var (
	HeadingStyle = fg(HeadingColor).Bold(true)
	MutedStyle   = fg(MutedColor)
	PathStyle    = fg(SecondaryColor).Italic(true)

	SuccessStyle = fg(SuccessColor).Bold(true)
	ErrorStyle   = fg(ErrorColor).Bold(true)
	WarningStyle = fg(WarningColor).Bold(true)
	InfoStyle    = fg(InfoColor)

	FolderStyle = fg(FolderColor).Bold(true)
	AliasStyle  = fg(AliasColor)
	IconStyle   = fg(IconColor)

	// MenuFrameStyle frames the interactive menu
	MenuFrameStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(BorderColor).
			Padding(0, 2)
)

// Line prefixes of the terminal renderer
var (
	SuccessIndicator = SuccessStyle.Render("✓")
	ErrorIndicator   = ErrorStyle.Render("✗")
	WarningIndicator = WarningStyle.Render("!")
	InfoIndicator    = InfoStyle.Render("•")
)

// Bold renders s bold
func Bold(s string) string {
	return lipgloss.NewStyle().Bold(true).Render(s)
}
