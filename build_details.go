package openapigui

import (
	"fmt"
	"runtime"
)

var (
	// version, commit and buildTime are set via ldflags during release
	// builds. Development builds report "dev" and "unknown".
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Version returns the compiled version or 'dev' if run from source
func Version() string {
	return version
}

// Commit returns the git commit the binary was built from.
func Commit() string {
	return commit
}

// BuildTime returns the RFC 3339 build timestamp.
func BuildTime() string {
	return buildTime
}

// GoVersion returns the Go runtime version.
func GoVersion() string {
	return runtime.Version()
}

// UserAgent returns the identifier the server reports to browsers and
// MCP clients.
func UserAgent() string {
	return fmt.Sprintf("openapi-gui/%s", version)
}

// BuildInfo returns the build metadata printed by the version command.
func BuildInfo() string {
	return fmt.Sprintf("Version: %s\nCommit: %s\nBuild Time: %s\nGo Version: %s",
		Version(), Commit(), BuildTime(), GoVersion())
}
