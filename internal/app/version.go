package app

import (
	"runtime/debug"
	"strings"
)

// Version overrides the module version reported at startup and by /health:
// go build -ldflags "-X github.com/heartmarshall/wiktapi/internal/app.Version=v1.2.0"
var Version string

// BuildVersion identifies the running binary.
func BuildVersion() string {
	info, _ := debug.ReadBuildInfo()
	return versionOf(Version, info)
}

// versionOf renders "version (revision[, dirty])" from the ldflags value and
// the VCS stamp the go tool embeds. info is nil in binaries built without
// module support.
func versionOf(override string, info *debug.BuildInfo) string {
	v := override
	if v == "" && info != nil && info.Main.Version != "" {
		v = info.Main.Version
	}
	if v == "" {
		v = "(devel)"
	}
	if info == nil {
		return v
	}

	var rev string
	dirty := false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if rev == "" {
		return v
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}

	var b strings.Builder
	b.WriteString(v)
	b.WriteString(" (")
	b.WriteString(rev)
	if dirty {
		b.WriteString(", dirty")
	}
	b.WriteString(")")
	return b.String()
}
