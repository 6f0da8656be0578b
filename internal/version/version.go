// Package version carries build metadata injected at link time.
package version

// Set via -ldflags "-X .../internal/version.Version=... -X .../internal/version.Commit=...".
var (
	Version = "dev"
	Commit  = "unknown"
)

// Short returns "version (commit)" for banners and the version command.
func Short() string {
	return Version + " (" + Commit + ")"
}
