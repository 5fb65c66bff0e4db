package style

import (
	"fmt"
	"strings"
)

// MenuItem is one line of the interactive menu; an empty Key renders a
// spacer line
type MenuItem struct {
	Key   string
	Label string
	Warn  bool
}

// RenderMenu frames the menu title, the current directory and the items
func RenderMenu(title, subtitle string, items []MenuItem, notes []string) string {
	var b strings.Builder
	b.WriteString(HeadingStyle.Render(title) + "\n")
	if subtitle != "" {
		b.WriteString(MutedStyle.Render(subtitle) + "\n")
	}
	b.WriteString("\n")

	for _, item := range items {
		if item.Key == "" {
			b.WriteString("\n")
			continue
		}
		label := item.Label
		if item.Warn {
			label = WarningStyle.Render("!") + " " + label
		}
		b.WriteString(fmt.Sprintf("%s. %s\n", Bold(item.Key), label))
	}
	for i, note := range notes {
		if i == 0 {
			b.WriteString("\n")
		}
		b.WriteString(MutedStyle.Render(note) + "\n")
	}

	return MenuFrameStyle.Render(strings.TrimRight(b.String(), "\n"))
}
