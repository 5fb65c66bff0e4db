package style

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/iconfolio/pkg/cleanup"
	"github.com/arthur-debert/iconfolio/pkg/folderconfig"
	"github.com/arthur-debert/iconfolio/pkg/marker"
	"github.com/arthur-debert/iconfolio/pkg/refresh"
	"github.com/arthur-debert/iconfolio/pkg/types"
	"github.com/pterm/pterm"
)

// Renderer turns operation results into text
type Renderer interface {
	RenderConfigResult(path string, res *folderconfig.Result) string
	RenderApplyResult(res *marker.ApplyResult) string
	RenderReseatResult(res *marker.ReseatResult) string
	RenderCleanupResult(res *cleanup.Result) string
	RenderRefresh(summary types.RefreshSummary, rebuild *refresh.RebuildResult) string
	RenderStatus(report *types.StatusReport) string
	RenderError(err error) string
}

// NewRenderer returns the renderer for a resolved text format
func NewRenderer(f Format) Renderer {
	if f == FormatTerminal {
		return NewTerminalRenderer()
	}
	return NewPlainRenderer()
}

// indicators are the line prefixes a renderer uses
type indicators struct {
	ok, fail, warn, info string
}

// textRenderer holds the layout shared by both renderers; only the
// styling differs
type textRenderer struct {
	styled bool
	marks  indicators
	title  func(string) string
	path   func(string) string
	alias  func(string) string
	icon   func(string) string
}

func (r *textRenderer) line(b *strings.Builder, mark, format string, args ...interface{}) {
	b.WriteString(mark + " " + fmt.Sprintf(format, args...) + "\n")
}

func (r *textRenderer) RenderConfigResult(path string, res *folderconfig.Result) string {
	var b strings.Builder
	if res.NoFolders {
		r.line(&b, r.marks.warn, "No folders found under the operating directory")
		return strings.TrimRight(b.String(), "\n")
	}

	for _, e := range res.Added {
		r.line(&b, r.marks.ok, "%s → %s (%s)", e.FolderName, r.alias(e.DisplayName()), r.icon(e.IconRelativePath))
	}
	for _, e := range res.Updated {
		r.line(&b, r.marks.ok, "%s updated → %s (%s)", e.FolderName, r.alias(e.DisplayName()), r.icon(e.IconRelativePath))
	}
	for _, f := range res.Omitted {
		r.line(&b, r.marks.warn, "%s has no usable executable, omitted", f)
	}
	for _, f := range res.Skipped {
		r.line(&b, r.marks.info, "%s skipped", f)
	}
	if res.BackupPath != "" {
		r.line(&b, r.marks.info, "Previous configuration saved as %s", r.path(res.BackupPath))
	}
	if res.Written {
		r.line(&b, r.marks.ok, "Wrote %s", r.path(path))
	}
	if res.NoChanges {
		r.line(&b, r.marks.info, "Nothing to add, %s is up to date", r.path(path))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *textRenderer) RenderApplyResult(res *marker.ApplyResult) string {
	var b strings.Builder
	for _, w := range res.Warnings {
		r.line(&b, r.marks.warn, "%s: %s", w.Folder, w.Message)
	}
	for _, f := range res.Failures {
		r.line(&b, r.marks.fail, "%s: %s", f.Folder, f.Reason)
	}
	b.WriteString(r.title(fmt.Sprintf("%d of %d folders decorated", res.Processed, res.Total)) + "\n")
	if res.Skipped > 0 {
		r.line(&b, r.marks.info, "%d skipped (marker already present)", res.Skipped)
	}
	if len(res.Backups) > 0 {
		r.line(&b, r.marks.info, "%d existing markers backed up", len(res.Backups))
	}
	if res.Refreshed {
		r.line(&b, r.marks.info, "Shell notified; icons may take a moment or a refresh to appear")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *textRenderer) RenderReseatResult(res *marker.ReseatResult) string {
	var b strings.Builder
	if res.Total == 0 {
		r.line(&b, r.marks.info, "No markers to move")
		return strings.TrimRight(b.String(), "\n")
	}
	for _, f := range res.Failures {
		r.line(&b, r.marks.fail, "%s: %s", f.Folder, f.Reason)
	}
	b.WriteString(r.title(fmt.Sprintf("%d of %d markers moved, %d folders refreshed",
		res.Reseated, res.Total, res.Refreshed)))
	return b.String()
}

func (r *textRenderer) RenderCleanupResult(res *cleanup.Result) string {
	var b strings.Builder
	for _, f := range res.Failures {
		r.line(&b, r.marks.fail, "%s: %s", r.path(f.Path), f.Reason)
	}
	if res.Total() == 0 {
		r.line(&b, r.marks.info, "No markers or backups found")
	} else {
		b.WriteString(r.title(fmt.Sprintf("Removed %d markers and %d backups",
			res.MarkersRemoved, res.BackupsRemoved)) + "\n")
	}
	if res.Refresh != nil {
		b.WriteString(r.renderSummary(*res.Refresh))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *textRenderer) RenderRefresh(summary types.RefreshSummary, rebuild *refresh.RebuildResult) string {
	var b strings.Builder
	if summary.Total == 0 && rebuild == nil {
		r.line(&b, r.marks.info, "No folders to refresh")
		return strings.TrimRight(b.String(), "\n")
	}
	if summary.Total > 0 {
		b.WriteString(r.renderSummary(summary))
	}
	if rebuild != nil {
		b.WriteString(r.renderRebuild(rebuild))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *textRenderer) renderSummary(s types.RefreshSummary) string {
	var b strings.Builder
	for _, o := range s.Outcomes {
		mark := r.marks.ok
		switch {
		case !o.StructuralOK:
			mark = r.marks.fail
		case !o.CacheOK:
			mark = r.marks.warn
		}
		r.line(&b, mark, "%s: %s", o.Folder, refresh.Describe(o))
	}
	r.line(&b, r.marks.info, "Refreshed %d/%d folders", s.SuccessCount, s.Total)
	if s.CacheFailCount > 0 {
		r.line(&b, r.marks.info, "%d folders kept a stale cache; the icon cache rebuild takes care of them", s.CacheFailCount)
	}
	return b.String()
}

func (r *textRenderer) renderRebuild(res *refresh.RebuildResult) string {
	var b strings.Builder
	r.line(&b, r.marks.info, "Deleted %d icon cache files", len(res.Deleted))
	for _, f := range res.DeleteFailures {
		r.line(&b, r.marks.warn, "Could not delete %s", r.path(f))
	}
	switch {
	case res.Relaunched:
		r.line(&b, r.marks.ok, "Shell restarted")
	case res.Recovered:
		r.line(&b, r.marks.warn, "Shell restarted after a failed relaunch")
	default:
		r.line(&b, r.marks.fail, "Shell is not running, start explorer.exe manually")
	}
	if res.CacheCleared {
		r.line(&b, r.marks.ok, "System icon cache cleared")
	}
	return b.String()
}

func (r *textRenderer) RenderStatus(report *types.StatusReport) string {
	return RenderStatusReport(report, r.styled)
}

func (r *textRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s %s", r.marks.fail, err.Error())
}

// TerminalRenderer renders with colors and indicators
type TerminalRenderer struct {
	textRenderer
}

// NewTerminalRenderer creates a terminal renderer
func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{textRenderer{
		styled: true,
		marks: indicators{
			ok:   SuccessIndicator,
			fail: ErrorIndicator,
			warn: WarningIndicator,
			info: InfoIndicator,
		},
		title: func(s string) string { return pterm.Bold.Sprint(s) },
		path:  func(s string) string { return PathStyle.Render(s) },
		alias: func(s string) string { return AliasStyle.Render(s) },
		icon:  func(s string) string { return IconStyle.Render(s) },
	}}
}

// PlainRenderer renders without any styling
type PlainRenderer struct {
	textRenderer
}

// NewPlainRenderer creates a plain text renderer
func NewPlainRenderer() *PlainRenderer {
	identity := func(s string) string { return s }
	return &PlainRenderer{textRenderer{
		marks: indicators{ok: "[ok]", fail: "[error]", warn: "[warn]", info: "[info]"},
		title: identity,
		path:  identity,
		alias: identity,
		icon:  identity,
	}}
}
