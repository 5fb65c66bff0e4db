package style

import (
	"github.com/charmbracelet/lipgloss"
)

// adaptive pairs a light-background and a dark-background shade
func adaptive(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

// Text and chrome
var (
	HeadingColor   = adaptive("#1F2933", "#F5F7FA")
	MutedColor     = adaptive("#7B8794", "#9AA5B1")
	SecondaryColor = adaptive("#52606D", "#CBD2D9")
	BorderColor    = adaptive("#CBD2D9", "#3E4C59")
)

// Outcomes. Warning doubles as the "stale" marker colour in status output.
var (
	SuccessColor = adaptive("#2F8132", "#57AE5B")
	ErrorColor   = adaptive("#BA2525", "#EF4E4E")
	WarningColor = adaptive("#B44D12", "#F0B429")
	InfoColor    = adaptive("#0B69A3", "#47A3F3")
)

// What a decorated folder is made of: the folder, the alias the shell shows
// and the executable the icon comes from
var (
	FolderColor = adaptive("#8D2B0B", "#FADB5F")
	AliasColor  = adaptive("#5B21B6", "#B794F4")
	IconColor   = adaptive("#0E7C86", "#54D1DB")
)
