// Package version carries build metadata injected at link time via
// -ldflags "-X github.com/axlocate/axlocate/internal/version.Version=...".
package version

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)
