// Package buildinfo carries version metadata stamped at build time.
package buildinfo

var (
	// Version is set via -ldflags at release build time.
	Version = "dev"
	// Commit is set via -ldflags at release build time.
	Commit = "none"
	// Date is set via -ldflags at release build time.
	Date = "unknown"
)
