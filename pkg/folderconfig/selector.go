package folderconfig

import "github.com/arthur-debert/iconfolio/pkg/discovery"

// Selector resolves a folder with several candidate executables. Returning
// ok=false skips the folder; an error aborts the whole generation.
type Selector interface {
	Select(folder string, candidates []discovery.Candidate) (choice discovery.Candidate, ok bool, err error)
}

// SelectorFunc adapts a function to Selector
type SelectorFunc func(folder string, candidates []discovery.Candidate) (discovery.Candidate, bool, error)

// Select calls f
func (f SelectorFunc) Select(folder string, candidates []discovery.Candidate) (discovery.Candidate, bool, error) {
	return f(folder, candidates)
}

// FirstSelector is the automatic policy: take the first candidate in
// discovery order.
type FirstSelector struct{}

// Select returns the first candidate
func (FirstSelector) Select(_ string, candidates []discovery.Candidate) (discovery.Candidate, bool, error) {
	if len(candidates) == 0 {
		return discovery.Candidate{}, false, nil
	}
	return candidates[0], true, nil
}
