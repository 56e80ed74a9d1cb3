// Package version carries build identification for the commentlife binary.
package version

import "runtime/debug"

// Build metadata, overridden at link time with
// -ldflags "-X github.com/Sumatoshi-tech/commentlife/pkg/version.Version=...".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// InitBinaryVersion fills unset metadata from the module build info when the
// binary was built without ldflags (e.g. `go install`).
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	fromBuildInfo(info)
}

func fromBuildInfo(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if Commit == "unknown" {
				Commit = setting.Value
			}
		case "vcs.time":
			if Date == "unknown" {
				Date = setting.Value
			}
		}
	}
}

// String formats the metadata for `commentlife version`.
func String() string {
	return Version + " (commit: " + Commit + ", built: " + Date + ")"
}
