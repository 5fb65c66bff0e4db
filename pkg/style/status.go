package style

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/iconfolio/pkg/types"
	"github.com/pterm/pterm"
)

// StatusStyle returns the pterm style of a folder state
func StatusStyle(state types.StatusState) *pterm.Style {
	switch state {
	case types.StatusStateDecorated:
		return pterm.NewStyle(pterm.BgGreen, pterm.FgWhite)
	case types.StatusStateStale:
		return pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	case types.StatusStatePending:
		return pterm.NewStyle(pterm.FgCyan)
	case types.StatusStateMissing, types.StatusStateError:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// statusDetail describes the state in words
func statusDetail(fs types.FolderStatus) string {
	switch fs.State {
	case types.StatusStateDecorated:
		return fmt.Sprintf("shown as %q", fs.Alias)
	case types.StatusStateStale:
		return fmt.Sprintf("marker shows %q, configured %q", fs.MarkerAlias, fs.Alias)
	case types.StatusStatePending:
		return fmt.Sprintf("will be shown as %q", fs.Alias)
	case types.StatusStateMissing:
		return "configured but the folder does not exist"
	case types.StatusStateError:
		return fs.Message
	default:
		if fs.MarkerAlias != "" {
			return fmt.Sprintf("not configured, marker shows %q", fs.MarkerAlias)
		}
		return "not configured"
	}
}

// RenderFolderStatus renders one status line
func RenderFolderStatus(fs types.FolderStatus, styled bool) string {
	state := fmt.Sprintf("%-12s", fs.State)
	if styled {
		state = StatusStyle(fs.State).Sprint(state)
	}
	folder := fmt.Sprintf("%-20s", fs.Folder)
	if styled {
		folder = FolderStyle.Render(folder)
	}
	return fmt.Sprintf("  %s : %s : %s", state, folder, statusDetail(fs))
}

// RenderStatusReport renders the whole report with a summary line
func RenderStatusReport(r *types.StatusReport, styled bool) string {
	var b strings.Builder

	header := r.Root
	if styled {
		header = HeadingStyle.Render(header)
	}
	b.WriteString(header + "\n")

	switch {
	case r.ConfigError != "":
		b.WriteString(fmt.Sprintf("  config: %s (unreadable: %s)\n", r.ConfigPath, r.ConfigError))
	case !r.ConfigExists:
		b.WriteString(fmt.Sprintf("  config: %s (not created yet)\n", r.ConfigPath))
	default:
		b.WriteString(fmt.Sprintf("  config: %s (%s)\n", r.ConfigPath, r.Encoding))
	}
	b.WriteString("\n")

	if len(r.Folders) == 0 {
		b.WriteString("  no folders\n")
		return strings.TrimRight(b.String(), "\n")
	}
	for _, fs := range r.Folders {
		b.WriteString(RenderFolderStatus(fs, styled) + "\n")
	}

	b.WriteString(fmt.Sprintf("\n  %d decorated, %d stale, %d pending, %d unconfigured, %d missing",
		r.Count(types.StatusStateDecorated),
		r.Count(types.StatusStateStale),
		r.Count(types.StatusStatePending),
		r.Count(types.StatusStateUnconfigured),
		r.Count(types.StatusStateMissing)))
	return b.String()
}
