// Package version reports the gosmell build version.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set via ldflags at release time
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Short returns the release version. Binaries built with go install
// report the module version instead of "dev".
func Short() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return Version
}

// Info returns formatted version information
func Info() string {
	return fmt.Sprintf("gosmell %s (%s) built on %s with %s",
		Short(), Commit, Date, runtime.Version())
}
