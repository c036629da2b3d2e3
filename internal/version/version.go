// Package version reports build information. Values are set with -ldflags:
//
//	go build -ldflags "-X github.com/tmplkit/interpolate/internal/version.Version=v1.2.0"
package version

import (
	"fmt"
	"runtime"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

// Get returns a one-line description of the build.
func Get() string {
	return fmt.Sprintf("interpolate %s (%s, %s)", Version, Commit, runtime.Version())
}
