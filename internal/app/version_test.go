package app

import (
	"runtime/debug"
	"testing"
)

func TestVersionOf(t *testing.T) {
	t.Parallel()

	stamped := func(version string, settings ...debug.BuildSetting) *debug.BuildInfo {
		return &debug.BuildInfo{Main: debug.Module{Version: version}, Settings: settings}
	}
	rev := debug.BuildSetting{Key: "vcs.revision", Value: "0123456789abcdef0123"}

	tests := []struct {
		name     string
		override string
		info     *debug.BuildInfo
		want     string
	}{
		{"no build info", "", nil, "(devel)"},
		{"ldflags without build info", "v1.2.0", nil, "v1.2.0"},
		{"module version", "", stamped("v0.4.1"), "v0.4.1"},
		{"ldflags wins", "v1.2.0", stamped("v0.4.1", rev), "v1.2.0 (0123456789ab)"},
		{"devel with revision", "", stamped("(devel)", rev), "(devel) (0123456789ab)"},
		{"dirty tree", "", stamped("", rev, debug.BuildSetting{Key: "vcs.modified", Value: "true"}), "(devel) (0123456789ab, dirty)"},
		{"short revision kept", "", stamped("v1.0.0", debug.BuildSetting{Key: "vcs.revision", Value: "abc"}), "v1.0.0 (abc)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := versionOf(tt.override, tt.info); got != tt.want {
				t.Errorf("versionOf() = %q, want %q", got, tt.want)
			}
		})
	}
}
