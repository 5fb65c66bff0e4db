// Package topics serves long-form documentation topics from a filesystem
// (usually an embed.FS) through a cobra command. Markdown topics go through
// a pluggable Renderer, so the same pages read well on a terminal and in a
// pipe.
package topics

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/arthur-debert/iconfolio/pkg/errors"
	"github.com/spf13/cobra"
)

// Manager holds the topics found in a filesystem
type Manager struct {
	fsys       fs.FS
	topics     map[string]*Topic
	extensions []string
	index      string
	renderer   Renderer
}

// Topic is one documentation page
type Topic struct {
	Name    string
	Path    string
	Title   string
	Content string
}

// Options configures a Manager
type Options struct {
	// Extensions considered topics, defaults to .md and .txt
	Extensions []string
	// Index is the topic shown when none is named
	Index string
	// Renderer defaults to PlainRenderer
	Renderer Renderer
}

// New creates a Manager and loads every topic below the filesystem root
func New(fsys fs.FS, opts Options) (*Manager, error) {
	m := &Manager{
		fsys:       fsys,
		topics:     make(map[string]*Topic),
		extensions: opts.Extensions,
		index:      opts.Index,
		renderer:   opts.Renderer,
	}
	if len(m.extensions) == 0 {
		m.extensions = []string{".md", ".txt"}
	}
	if m.renderer == nil {
		m.renderer = &PlainRenderer{}
	}
	if err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) load() error {
	return fs.WalkDir(m.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := path.Ext(p)
		if !m.supported(ext) {
			return nil
		}
		data, err := fs.ReadFile(m.fsys, p)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot read topic %s", p)
		}
		name := strings.TrimSuffix(path.Base(p), ext)
		content := string(data)
		m.topics[name] = &Topic{
			Name:    name,
			Path:    p,
			Title:   titleOf(content, name),
			Content: content,
		}
		return nil
	})
}

func (m *Manager) supported(ext string) bool {
	for _, e := range m.extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// titleOf returns the first markdown heading, or the name
func titleOf(content, name string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return name
}

// Get returns a topic by name. Names are case-insensitive and a leading
// "--" is ignored, so "iconfolio guide --encoding" finds "encoding".
func (m *Manager) Get(name string) (*Topic, bool) {
	name = strings.ToLower(strings.TrimLeft(name, "-"))
	t, ok := m.topics[name]
	return t, ok
}

// Names returns the topic names in sorted order
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.topics))
	for name := range m.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render returns the rendered content of a topic
func (m *Manager) Render(t *Topic) string {
	return m.renderer.Render(t.Content, path.Ext(t.Path))
}

// WriteIndex lists the topics with their titles
func (m *Manager) WriteIndex(w io.Writer, cmdPath string) {
	names := m.Names()
	if len(names) == 0 {
		fmt.Fprintln(w, "No guide topics available.")
		return
	}
	width := 0
	for _, n := range names {
		if len(n) > width {
			width = len(n)
		}
	}
	fmt.Fprintln(w, "Guide topics:")
	for _, n := range names {
		fmt.Fprintf(w, "  %-*s  %s\n", width, n, m.topics[n].Title)
	}
	fmt.Fprintf(w, "\nUse '%s <topic>' to read a topic.\n", cmdPath)
}

// Command builds the command that shows topics. With no argument it shows
// the index topic, or the topic list when there is none.
func (m *Manager) Command(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " [topic]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return append([]string{"topics"}, m.Names()...), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			name := m.index
			if len(args) > 0 {
				name = args[0]
			}
			if name == "" || name == "topics" {
				m.WriteIndex(out, cmd.CommandPath())
				return nil
			}
			t, ok := m.Get(name)
			if !ok {
				return errors.Newf(errors.ErrNotFound, "no guide topic named %q", name).
					WithDetail("topics", strings.Join(m.Names(), ", "))
			}
			fmt.Fprint(out, m.Render(t))
			return nil
		},
	}
	return cmd
}
