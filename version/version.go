// Package version reports build metadata for the nixdoc binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	// Version is the application version, set via ldflags.
	Version string
	// BuildDate is when the binary was built, set via ldflags.
	BuildDate string

	// Revision is the VCS revision embedded by the Go toolchain.
	Revision = revision(debug.ReadBuildInfo)
)

// String returns a one-line description of the build, suitable for
// --version output.
func String() string {
	return format(Version, Revision, BuildDate)
}

func format(ver, rev, date string) string {
	if ver == "" {
		ver = "devel"
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "%s (revision %s", ver, rev)

	if date != "" {
		fmt.Fprintf(&sb, ", built %s", date)
	}

	fmt.Fprintf(&sb, ", %s %s/%s)", runtime.Version(), runtime.GOOS, runtime.GOARCH)

	return sb.String()
}

func revision(read func() (*debug.BuildInfo, bool)) string {
	info, ok := read()
	if !ok {
		return "unknown"
	}

	rev := "unknown"
	dirty := false

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}

	if dirty {
		return rev + "-dirty"
	}

	return rev
}
