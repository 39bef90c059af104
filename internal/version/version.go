package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const (
	// unset is shown for metadata that is not known.
	unset = "unknown"
	// shortCommit is how many characters of a VCS revision are shown.
	shortCommit = 7
)

var (
	// Version is the semantic version of the build.
	Version = ""
	// Commit is the short git SHA of the build.
	Commit = ""
	// BuildTime is the UTC build timestamp.
	BuildTime = ""
)

// Build describes the running binary.
type Build struct {
	// Version is the semantic version or the module version.
	Version string
	// Commit is the short VCS revision, with a "-dirty" suffix for modified trees.
	Commit string
	// BuildTime is the build or commit timestamp.
	BuildTime string
	// GoVersion is the toolchain that built the binary.
	GoVersion string
}

// Info returns the build description, preferring ldflags values over the
// build info embedded by the toolchain.
func Info() Build {
	build := Build{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		fillFromBuildInfo(&build, info)
	}

	if build.Version == "" {
		build.Version = "dev"
	}

	if build.Commit == "" {
		build.Commit = unset
	}

	if build.BuildTime == "" {
		build.BuildTime = unset
	}

	return build
}

// Short returns only the version string.
func Short() string {
	return Info().Version
}

// Full returns a human-readable version string with commit and build time.
func Full() string {
	b := Info()

	return fmt.Sprintf("version: %s, commit: %s, built at: %s, go: %s", b.Version, b.Commit, b.BuildTime, b.GoVersion)
}

func fillFromBuildInfo(build *Build, info *debug.BuildInfo) {
	if build.Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		build.Version = info.Main.Version
	}

	var revision, modified, vcsTime string

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value
		case "vcs.time":
			vcsTime = setting.Value
		}
	}

	if build.Commit == "" && revision != "" {
		build.Commit = revision[:min(len(revision), shortCommit)]
		if modified == "true" {
			build.Commit += "-dirty"
		}
	}

	if build.BuildTime == "" {
		build.BuildTime = vcsTime
	}
}
