// Package version reports which abisync build is running, from values set with -ldflags or, failing that, the VCS
// stamp the Go toolchain embeds in the binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/Masterminds/semver"
)

// These variables can be set via ldflags at build time, e.g. -X github.com/crytic/abisync/version.GitCommit=<sha>.
var (
	// Version is the semantic version of the build.
	Version = "0.3.0"
	// GitCommit is the git commit hash.
	GitCommit = ""
	// GitCommitTime is the RFC 3339 timestamp of the git commit.
	GitCommitTime = ""
	// GitTreeDirty is "true" if the working tree had uncommitted changes.
	GitTreeDirty = ""
)

// Info describes the running build.
type Info struct {
	// Version is the semantic version of the build.
	Version string
	// Module is the main module path, empty when build info is unavailable.
	Module string
	// Commit is the git commit the build was made from, if known.
	Commit string
	// CommitTime is the commit timestamp, or the zero time if unknown.
	CommitTime time.Time
	// Dirty is true if the build included uncommitted changes.
	Dirty bool
	// GoVersion is the Go toolchain the binary was built with.
	GoVersion string
}

// GetInfo returns the build information. ldflags values take precedence over the embedded VCS stamp.
func GetInfo() Info {
	info := Info{
		Version:   Version,
		Commit:    GitCommit,
		Dirty:     GitTreeDirty == "true",
		GoVersion: runtime.Version(),
	}
	commitTime := GitCommitTime

	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		info.Module = buildInfo.Main.Path
		for _, setting := range buildInfo.Settings {
			switch setting.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = setting.Value
				}
			case "vcs.time":
				if commitTime == "" {
					commitTime = setting.Value
				}
			case "vcs.modified":
				if GitTreeDirty == "" {
					info.Dirty = setting.Value == "true"
				}
			}
		}
	}

	if parsed, err := time.Parse(time.RFC3339, commitTime); err == nil {
		info.CommitTime = parsed.UTC()
	}
	return info
}

// SemVer parses the version. Builds with a malformed version set through ldflags return an error.
func (i Info) SemVer() (*semver.Version, error) {
	return semver.NewVersion(i.Version)
}

// revision returns the short commit hash, suffixed with -dirty for builds with uncommitted changes.
func (i Info) revision() string {
	commit := i.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if commit != "" && i.Dirty {
		commit += "-dirty"
	}
	return commit
}

// String returns the multi-line banner printed by the version command.
func (i Info) String() string {
	lines := []string{fmt.Sprintf("abisync version %s", i.Version)}
	if revision := i.revision(); revision != "" {
		lines = append(lines, fmt.Sprintf("  Commit:     %s", revision))
	}
	if !i.CommitTime.IsZero() {
		lines = append(lines, fmt.Sprintf("  Built:      %s", i.CommitTime.Format("2006-01-02 15:04:05 MST")))
	}
	lines = append(lines, fmt.Sprintf("  Go version: %s", i.GoVersion))
	return strings.Join(lines, "\n") + "\n"
}

// Short returns the version with build metadata, e.g. 0.3.0+0123456-dirty.
func (i Info) Short() string {
	if revision := i.revision(); revision != "" {
		return i.Version + "+" + revision
	}
	return i.Version
}
