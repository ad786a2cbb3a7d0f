// Package version carries the release identity printed by the CLI banner
// and the version command.
package version

import "runtime/debug"

// Release identity. GitCommit and BuildTime are normally stamped by the
// release build, e.g.
//
//	go build -ldflags "-X github.com/Koson7970/wood-strength-prediction-model/internal/version.GitCommit=$(git rev-parse --short HEAD)"
var (
	Version   = "0.3.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
	Author    = "Koson7970"
	Year      = "2026"
)

// Name is the binary name
const Name = "timbermatch"

// String returns the one-line version banner
func String() string {
	info, ok := debug.ReadBuildInfo()
	return Name + " v" + Version + " (" + commit(GitCommit, info, ok) + ", built " + BuildTime + ")"
}

// commit prefers the stamped hash, then the VCS revision the toolchain
// recorded, shortened to 7 characters.
func commit(stamped string, info *debug.BuildInfo, ok bool) string {
	if stamped != "unknown" && stamped != "" {
		return stamped
	}
	if !ok || info == nil {
		return "unknown"
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			if len(s.Value) > 7 {
				return s.Value[:7]
			}
			return s.Value
		}
	}
	return "unknown"
}
