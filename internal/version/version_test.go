package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFromBuildSettings(t *testing.T) {
	tests := []struct {
		name        string
		settings    []debug.BuildSetting
		wantVersion string
		wantCommit  string
	}{
		{name: "no vcs"},
		{
			name: "clean tree",
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef"},
				{Key: "vcs.time", Value: "2026-03-04T10:00:00Z"},
				{Key: "vcs.modified", Value: "false"},
			},
			wantVersion: "dev-20260304",
			wantCommit:  "0123456",
		},
		{
			name: "dirty short revision",
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc"},
				{Key: "vcs.modified", Value: "true"},
				{Key: "vcs.time", Value: "garbage"},
			},
			wantCommit: "abc-dirty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, c := fromBuildSettings(tt.settings)
			if v != tt.wantVersion || c != tt.wantCommit {
				t.Errorf("fromBuildSettings() = %q, %q, want %q, %q", v, c, tt.wantVersion, tt.wantCommit)
			}
		})
	}
}

func TestFullAndUserAgent(t *testing.T) {
	if Version == "" || Commit == "" {
		t.Fatalf("Version=%q Commit=%q, want both set", Version, Commit)
	}
	if !strings.Contains(Full(), "(commit: "+Commit+")") {
		t.Errorf("Full() = %q", Full())
	}
	if got := UserAgent("agama-net"); got != "agama-net/"+Version {
		t.Errorf("UserAgent() = %q", got)
	}
}
