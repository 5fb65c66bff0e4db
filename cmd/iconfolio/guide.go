package iconfolio

import (
	"embed"
	"io/fs"

	"github.com/arthur-debert/iconfolio/pkg/cobrax/topics"
	"github.com/arthur-debert/iconfolio/pkg/style"
	"github.com/spf13/cobra"
)

//go:embed guide/*.md
var guideFiles embed.FS

// guideIndex is shown by a bare "iconfolio guide"
const guideIndex = "overview"

// guideRenderer picks glamour's styling once the output format is known,
// which is after the command tree is built
type guideRenderer struct {
	a *app
}

func (r guideRenderer) Render(content, ext string) string {
	return topics.NewGlamourRenderer(r.a.format == style.FormatTerminal, 0).Render(content, ext)
}

func (a *app) newGuideCmd() *cobra.Command {
	m, err := a.guide()
	if err != nil {
		return &cobra.Command{
			Use:     "guide",
			Short:   MsgGuideShort,
			GroupID: "misc",
			RunE: func(cmd *cobra.Command, args []string) error {
				return err
			},
		}
	}
	cmd := m.Command("guide", MsgGuideShort)
	cmd.GroupID = "misc"
	return cmd
}

func (a *app) guide() (*topics.Manager, error) {
	sub, err := fs.Sub(guideFiles, "guide")
	if err != nil {
		return nil, err
	}
	return topics.New(sub, topics.Options{
		Extensions: []string{".md"},
		Index:      guideIndex,
		Renderer:   guideRenderer{a: a},
	})
}
