// Package version holds ongsearch build metadata, set with
// -ldflags "-X github.com/kailas-cloud/ongsearch/internal/version.Version=...".
package version

import "fmt"

//nolint:gochecknoglobals // set via ldflags at build time
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the build metadata for --version output.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}
