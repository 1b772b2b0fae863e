// Package version exposes build metadata injected at link time.
package version

import (
	"fmt"
	"runtime"
)

// Populated via -ldflags at release build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info holds version details for display.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the current build's version info.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String returns the single-line version summary.
func (i Info) String() string {
	return fmt.Sprintf("meshfolio %s (%s, %s, %s)", i.Version, i.Commit, i.GoVersion, i.Platform)
}
