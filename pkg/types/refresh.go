package types

// CacheState is what the orchestrator knows about the shell's icon cache for
// a folder. The shell gives no completion signal, so most techniques can only
// act, not confirm.
type CacheState int

const (
	// CacheUnknown means a technique completed but nothing read the cache back.
	CacheUnknown CacheState = iota
	// CacheConfirmed means a lookup against the shell reported a usable result.
	CacheConfirmed
	// CacheFailed means every technique failed on every attempt.
	CacheFailed
)

// String returns the string representation of the cache state
func (s CacheState) String() string {
	switch s {
	case CacheUnknown:
		return "unknown"
	case CacheConfirmed:
		return "confirmed"
	case CacheFailed:
		return "failed"
	default:
		return "invalid"
	}
}

// RefreshOutcome is the transient per-folder result of a refresh.
type RefreshOutcome struct {
	Folder string
	// StructuralOK is false when the attribute bracket around the attempt failed.
	StructuralOK bool
	// CacheOK is false when every tier failed on every attempt.
	CacheOK bool
	Cache   CacheState
	// Attempts is the number of attempts actually made.
	Attempts int
	// Tier names the technique that ended the attempt loop, if any.
	Tier string
	Err  error
}

// RefreshSummary aggregates outcomes of a bulk pass.
type RefreshSummary struct {
	Total          int
	SuccessCount   int
	CacheFailCount int
	Outcomes       []RefreshOutcome
}

// Add accounts one outcome
func (s *RefreshSummary) Add(o RefreshOutcome) {
	s.Total++
	s.Outcomes = append(s.Outcomes, o)
	if !o.StructuralOK {
		return
	}
	s.SuccessCount++
	if !o.CacheOK {
		s.CacheFailCount++
	}
}
