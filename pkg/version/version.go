// Package version exposes build metadata injected with -ldflags.
package version

// Populated at build time via:
//
//	-ldflags "-X github.com/rshade/coursedesk/pkg/version.version=v1.2.3 -X ...commit=abc123"
//
//nolint:gochecknoglobals // Set by the linker.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersion returns the release version, "dev" for local builds.
func GetVersion() string {
	return version
}

// GetCommit returns the git commit the binary was built from.
func GetCommit() string {
	return commit
}

// GetBuildDate returns the build timestamp.
func GetBuildDate() string {
	return date
}

// UserAgent returns the User-Agent sent with API requests.
func UserAgent() string {
	return "coursedesk/" + version
}
