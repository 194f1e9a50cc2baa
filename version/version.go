// Package version reports build information for benchprof.
package version

import (
	"runtime"
	"runtime/debug"
)

var (
	// Version is the release version, set via ldflags.
	Version string
	// Branch is the git branch, set via ldflags.
	Branch string
	// BuildUser is the user who built the binary, set via ldflags.
	BuildUser string
	// BuildDate is when the binary was built, set via ldflags.
	BuildDate string

	// Revision is the VCS revision recorded by the Go toolchain.
	Revision = revision(readSettings())
)

// Info is a snapshot of the build information.
type Info struct {
	Version   string `json:"version"             yaml:"version"`
	Revision  string `json:"revision"            yaml:"revision"`
	Branch    string `json:"branch,omitempty"    yaml:"branch,omitempty"`
	BuildUser string `json:"buildUser,omitempty" yaml:"buildUser,omitempty"`
	BuildDate string `json:"buildDate,omitempty" yaml:"buildDate,omitempty"`
	GoVersion string `json:"goVersion"           yaml:"goVersion"`
	Platform  string `json:"platform"            yaml:"platform"`
}

// Get returns the current build information.
func Get() Info {
	v := Version
	if v == "" {
		v = "devel"
	}

	return Info{
		Version:   v,
		Revision:  Revision,
		Branch:    Branch,
		BuildUser: BuildUser,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String renders the version line shown by --version.
func (i Info) String() string {
	return i.Version + " (" + i.Revision + ", " + i.GoVersion + " " + i.Platform + ")"
}

func readSettings() []debug.BuildSetting {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}

	return info.Settings
}

func revision(settings []debug.BuildSetting) string {
	rev, dirty := "unknown", false

	for _, s := range settings {
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
