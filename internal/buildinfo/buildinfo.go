// Package buildinfo carries the version stamped at build time.
package buildinfo

// Version is overridden via -ldflags "-X tether/internal/buildinfo.Version=...".
var Version = "dev"
