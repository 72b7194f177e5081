// Package version reports the garden release the binary was built from.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version is set at build time:
// go build -ldflags "-X github.com/sys27/garden/internal/version.Version=v1.2.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Resolved returns Version, falling back to the module version recorded by
// `go install` when no ldflags were given.
func Resolved() string {
	if Version != "unknown" && Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

// String renders the one-line version banner.
func String() string {
	return fmt.Sprintf("garden %s (commit %s, built %s)", Resolved(), GitCommit, BuildTime)
}
