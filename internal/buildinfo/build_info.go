package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// BuildInfo holds all sorts of information about the build of an executable artifact.
type BuildInfo struct {
	Version    string
	CommitHash string
	BuildDate  string
	GoVersion  string
}

// New returns the build info injected at link time. Development builds with no injected version
// fall back to the module version and VCS revision recorded by the Go toolchain, if any.
func New(version, commitHash, buildDate string) BuildInfo {
	i := BuildInfo{Version: version, CommitHash: commitHash, BuildDate: buildDate, GoVersion: runtime.Version()}
	if version != "dev" {
		return i
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return i
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		i.Version = v
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			i.CommitHash = s.Value
		case "vcs.time":
			i.BuildDate = s.Value
		}
	}
	return i
}

// String returns the build info as a string.
func (i BuildInfo) String() string {
	if i.GoVersion == "" {
		return fmt.Sprintf("version %s (%s) built on %s", i.Version, i.CommitHash, i.BuildDate)
	}
	return fmt.Sprintf("version %s (%s) built on %s with %s", i.Version, i.CommitHash, i.BuildDate, i.GoVersion)
}
