// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "1.0.0"

// Commit is stamped at build time with -ldflags "-X ...version.Commit=<sha>".
var Commit = "dev"

// Milestones:
// 1.0.0 - Capability table, VSOP87 planets, NEO feed files, Prometheus metrics
// 0.9.0 - Watch mode with rise/set events, solar system view
// 0.8.0 - Persistent result cache with zstd compression
// 0.7.0 - Moon phase, twilight times, planetary magnitudes

// String returns the version with the build commit.
func String() string {
	return Version + " (" + Commit + ")"
}
