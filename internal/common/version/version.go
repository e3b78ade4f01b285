package version

import (
	"fmt"
	"runtime"
)

// Version information - set at build time via ldflags
var (
	Name      = "pluginutils"
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info returns formatted version information
func Info() string {
	return fmt.Sprintf("%s version %s\n  commit: %s\n  built: %s\n  go: %s\n  os/arch: %s/%s",
		Name, Version, Commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short returns just the version string
func Short() string {
	return Version
}

// UserAgent returns the identity sent with outbound requests
func UserAgent() string {
	return fmt.Sprintf("%s/%s (%s/%s)", Name, Version, runtime.GOOS, runtime.GOARCH)
}

// Build exposes the build identity as the version source and user-agent provider
// the update checker asks for.
type Build struct{}

// Version returns the running version
func (Build) Version() string { return Short() }

// UserAgent returns the outbound user agent
func (Build) UserAgent() string { return UserAgent() }
