package version

import (
	"fmt"
	"runtime/debug"
)

var (
	// Set by build flags; default to development values.
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// GetVersion returns the version string, preferring the compile-time value.
func GetVersion() string {
	if Version != "dev" && Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}
	return "development"
}

// GetCommit returns the git commit hash, falling back to embedded VCS info.
func GetCommit() string {
	if Commit != "unknown" && Commit != "" {
		return Commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}
	return "unknown"
}

// GetFullVersion returns a formatted version string with commit and date.
func GetFullVersion() string {
	commit := GetCommit()
	if commit != "unknown" && len(commit) > 7 {
		if Date != "unknown" {
			return fmt.Sprintf("%s (%s, built %s)", GetVersion(), commit[:7], Date)
		}
		return fmt.Sprintf("%s (%s)", GetVersion(), commit[:7])
	}
	return GetVersion()
}
