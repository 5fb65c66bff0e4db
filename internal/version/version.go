package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/iconfolio/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/iconfolio/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/iconfolio/internal/version.Date={{.Date}}
)

// String is the one-line version shown by the menu header
func String() string {
	if Version == "dev" {
		return "dev (" + Commit + ")"
	}
	return Version
}
