package types

// StatusState is how a folder of the operating root relates to the
// configuration and to the marker it carries
type StatusState string

const (
	// StatusStateDecorated: the marker matches the configured alias and icon.
	StatusStateDecorated StatusState = "decorated"

	// StatusStateStale: a marker exists but shows a different alias or icon.
	StatusStateStale StatusState = "stale"

	// StatusStatePending: configured, no marker written yet.
	StatusStatePending StatusState = "pending"

	// StatusStateUnconfigured: the folder has no configuration entry.
	StatusStateUnconfigured StatusState = "unconfigured"

	// StatusStateMissing: configured, but the folder does not exist.
	StatusStateMissing StatusState = "missing"

	// StatusStateError: the marker exists but cannot be read.
	StatusStateError StatusState = "error"
)

// FolderStatus is the status line of one folder
type FolderStatus struct {
	Folder string      `json:"folder" yaml:"folder"`
	State  StatusState `json:"state" yaml:"state"`

	// Alias and Icon come from the configuration, if any.
	Alias string `json:"alias,omitempty" yaml:"alias,omitempty"`
	Icon  string `json:"icon,omitempty" yaml:"icon,omitempty"`

	// MarkerAlias and MarkerIcon come from the folder's marker, if any.
	MarkerAlias string `json:"marker_alias,omitempty" yaml:"marker_alias,omitempty"`
	MarkerIcon  string `json:"marker_icon,omitempty" yaml:"marker_icon,omitempty"`

	// Message is a human-readable detail, e.g. the read error.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// StatusReport describes an operating root
type StatusReport struct {
	Root         string         `json:"root" yaml:"root"`
	ConfigPath   string         `json:"config" yaml:"config"`
	ConfigExists bool           `json:"config_exists" yaml:"config_exists"`
	ConfigError  string         `json:"config_error,omitempty" yaml:"config_error,omitempty"`
	Encoding     string         `json:"encoding" yaml:"encoding"`
	Folders      []FolderStatus `json:"folders" yaml:"folders"`
}

// Count returns how many folders are in state
func (r *StatusReport) Count(state StatusState) int {
	n := 0
	for _, f := range r.Folders {
		if f.State == state {
			n++
		}
	}
	return n
}
