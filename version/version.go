// Package version reports how the hourgen binary was built.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Application names the program in version output and in the created_by
// field of generated files.
const Application = "hourgen"

// Set at build time:
//
//	go build -ldflags "-X github.com/teranos/hourgen/version.Version=v0.3.0 \
//	    -X github.com/teranos/hourgen/version.CommitHash=$(git rev-parse HEAD)"
//
// Left unset, Get falls back to the module and VCS stamps in the binary.
var (
	Version    = "dev"
	CommitHash = "dev"
	BuildTime  = "unknown"
)

// Info is the build description printed by `hourgen version`.
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	Modified   bool   `json:"modified,omitempty"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the build information.
func Get() Info {
	info := Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.fillFrom(bi)
	}
	return info
}

// fillFrom replaces unset ldflags values with module and VCS stamps.
func (i *Info) fillFrom(bi *debug.BuildInfo) {
	if i.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		i.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if i.CommitHash == "dev" {
				i.CommitHash = s.Value
			}
		case "vcs.time":
			if i.BuildTime == "unknown" {
				i.BuildTime = s.Value
			}
		case "vcs.modified":
			i.Modified = s.Value == "true"
		}
	}
}

func (i Info) String() string {
	s := fmt.Sprintf("%s %s (commit %s, built %s)", Application, i.Version, i.Short(), i.BuildTime)
	if i.Modified {
		s += " +modified"
	}
	return s
}

// Short returns the abbreviated commit hash.
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}
