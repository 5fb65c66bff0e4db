package session

import (
	"github.com/arthur-debert/iconfolio/pkg/marker"
	"github.com/arthur-debert/iconfolio/pkg/types"
)

// Sync writes markers only where the configuration and the disk disagree:
// pending folders get their first marker, stale ones are overwritten (with
// a backup). Decorated and missing folders are left alone.
func (s *Session) Sync(refreshAfter bool) (*marker.ApplyResult, error) {
	cfg, err := s.Store().Load()
	if err != nil {
		return nil, err
	}

	gen := s.Generator()
	todo := types.NewConfiguration()
	for _, entry := range cfg.Entries() {
		switch s.entryStatus(gen, entry).State {
		case types.StatusStatePending, types.StatusStateStale:
			todo.Set(entry)
		}
	}
	s.logger.Info().
		Int("configured", cfg.Len()).
		Int("outOfDate", todo.Len()).
		Msg("Syncing markers")

	if todo.Len() == 0 {
		return &marker.ApplyResult{}, nil
	}
	return gen.Apply(todo, marker.ApplyOptions{ForceRefreshAfter: refreshAfter}), nil
}
