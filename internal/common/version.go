package common

import (
	"fmt"
	"runtime/debug"
)

// Version information, set with -ldflags "-X github.com/ternarybob/onboarder/internal/common.Version=..."
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"
)

// GetVersion returns the release version. A binary built with go install
// and no ldflags reports its module version instead of "dev".
func GetVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

// GetFullVersion returns version with build info
func GetFullVersion() string {
	return fmt.Sprintf("%s (build: %s, commit: %s)", GetVersion(), Build, gitCommit())
}

// UserAgent identifies onboarder on GitHub and PDF service requests
func UserAgent() string {
	return "onboarder/" + GetVersion()
}

// gitCommit falls back to the VCS revision stamped by the go toolchain
func gitCommit() string {
	if GitCommit != "unknown" {
		return GitCommit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && len(setting.Value) >= 7 {
				return setting.Value[:7]
			}
		}
	}
	return GitCommit
}
