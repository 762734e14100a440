// Package version exposes build information set at link time.
package version

import "fmt"

// Set via -ldflags at build time.
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// Short returns just the version number.
func Short() string {
	return Version
}

// Info returns full version details.
func Info() string {
	return fmt.Sprintf("sathi %s (commit: %s, built: %s)", Version, Commit, BuildTime)
}
