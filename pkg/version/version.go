// Package version holds the tool version, overridable at build time with
// `-ldflags "-X github.com/kompos-io/kompos/pkg/version.Version=..."`.
package version

var Version = "0.3.0"
