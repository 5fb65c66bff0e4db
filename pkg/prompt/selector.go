package prompt

import (
	"fmt"

	"github.com/arthur-debert/iconfolio/pkg/discovery"
	"github.com/arthur-debert/iconfolio/pkg/folderconfig"
)

// Selector asks the user which executable gives a folder its icon
type Selector struct {
	p *Prompter
}

var _ folderconfig.Selector = (*Selector)(nil)

// Selector returns the interactive executable selector
func (p *Prompter) Selector() *Selector {
	return &Selector{p: p}
}

// Select lists every candidate with its relative and absolute path. Choosing
// 0 skips the folder.
func (s *Selector) Select(folder string, candidates []discovery.Candidate) (discovery.Candidate, bool, error) {
	fmt.Fprintf(s.p.out, "\n%s: %d executables found\n", folder, len(candidates))
	options := make([]string, len(candidates))
	for i, c := range candidates {
		options[i] = fmt.Sprintf("%s\n     %s", c.RelPath, c.AbsPath)
	}
	idx, ok, err := s.p.Choose("Number", options, true)
	if err != nil || !ok {
		return discovery.Candidate{}, false, err
	}
	fmt.Fprintf(s.p.out, "Selected %s\n", candidates[idx].RelPath)
	return candidates[idx], true, nil
}
