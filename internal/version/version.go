// Package version reports the wardnotes build, stamped through -ldflags -X.
package version

import "fmt"

// Stamped by the release build; a plain `go build` keeps the defaults.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns the line printed by `wardnotes --version`.
func String() string {
	return fmt.Sprintf("wardnotes %s (commit: %s, built: %s)", Version, shortCommit(), BuildTime)
}

// shortCommit trims a full hash to its first seven characters.
func shortCommit() string {
	if len(Commit) <= 7 {
		return Commit
	}
	return Commit[:7]
}
