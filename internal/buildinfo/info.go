// Package buildinfo carries build metadata injected at link time.
package buildinfo

var (
	// Version is overridden via ldflags at release build time.
	Version = "dev"
	// Commit is the short git hash, set via ldflags.
	Commit = "none"
	// Date is the build timestamp, set via ldflags.
	Date = "unknown"
)
