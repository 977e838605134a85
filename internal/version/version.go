// Package version reports the build version of the agama binaries.
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Version and Commit can be set at build time:
//
//	go build -ldflags="-X github.com/jeffmahoney/agama/internal/version.Version=v0.3.0 \
//	                   -X github.com/jeffmahoney/agama/internal/version.Commit=abc1234"
//
// Unset values are taken from the VCS stamp of the build, or fall back to
// "dev-<timestamp>" and "unknown".
var (
	Version = ""
	Commit  = ""
)

func init() {
	if Version == "" || Commit == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			v, c := fromBuildSettings(info.Settings)
			if Version == "" {
				Version = v
			}
			if Commit == "" {
				Commit = c
			}
		}
	}
	if Version == "" {
		Version = "dev-" + time.Now().Format("20060102-150405")
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// fromBuildSettings derives a dev version from the commit date and a short
// commit hash, marked "-dirty" for modified trees.
func fromBuildSettings(settings []debug.BuildSetting) (version, commit string) {
	var revision, modified, vcsTime string
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value
		case "vcs.time":
			vcsTime = s.Value
		}
	}

	if revision != "" {
		commit = revision
		if len(commit) > 7 {
			commit = commit[:7]
		}
		if modified == "true" {
			commit += "-dirty"
		}
	}
	if t, err := time.Parse(time.RFC3339, vcsTime); err == nil {
		version = "dev-" + t.Format("20060102")
	}
	return version, commit
}

// Full returns the version with its commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// UserAgent is the User-Agent header sent by program
func UserAgent(program string) string {
	return fmt.Sprintf("%s/%s", program, Version)
}
