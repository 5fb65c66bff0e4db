package topics

// Renderer formats topic content for display. ext is the topic file's
// extension including the dot.
type Renderer interface {
	Render(content string, ext string) string
}

// PlainRenderer returns content unchanged
type PlainRenderer struct{}

// Render returns the content as is
func (r *PlainRenderer) Render(content string, ext string) string {
	return content
}
