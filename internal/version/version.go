// Package version provides version information for llvmbuilder.
// The variables are set at build time via ldflags.
package version

// Version is the current version of llvmbuilder.
// Set at build time via: -ldflags "-X github.com/xdg/llvmbuilder/internal/version.Version=v1.0.0"
// Defaults to "dev" for development builds.
var Version = "dev"

// Commit is the source revision, set the same way as Version.
var Commit = ""

// String returns Version, followed by the short commit when known.
func String() string {
	if Commit == "" {
		return Version
	}
	c := Commit
	if len(c) > 7 {
		c = c[:7]
	}
	return Version + " (" + c + ")"
}
