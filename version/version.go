package version

import (
	"runtime"
	"runtime/debug"
	"time"
)

// Build metadata, set at link time:
//
//	go build -ldflags "-X github.com/kbukum/demoservice/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Empty values fall back to the VCS stamp embedded by the Go toolchain.
var (
	GitCommit = ""
	GitBranch = ""
	BuildTime = ""
)

// Info describes the running binary. The application version itself is
// configuration (app_version), not build metadata.
type Info struct {
	GitCommit string `json:"git_commit,omitempty"`
	GitBranch string `json:"git_branch,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Dirty     bool   `json:"dirty"`
}

// Get returns build information for the running binary.
func Get() Info {
	info := Info{
		GitCommit: GitCommit,
		GitBranch: GitBranch,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range buildInfo.Settings {
			switch setting.Key {
			case "vcs.revision":
				if info.GitCommit == "" {
					info.GitCommit = shortCommit(setting.Value)
				}
			case "vcs.modified":
				info.Dirty = setting.Value == "true"
			case "vcs.time":
				if info.BuildTime == "" {
					info.BuildTime = setting.Value
				}
			}
		}
	}

	if info.BuildTime != "" {
		if t, err := time.Parse(time.RFC3339, info.BuildTime); err == nil {
			info.BuildTime = t.UTC().Format(time.RFC3339)
		}
	}
	return info
}

// Describe appends the commit (and a dirty marker) to appVersion,
// e.g. "1.0.0 (abc1234-dirty)". Without a commit it returns appVersion.
func Describe(appVersion string) string {
	info := Get()
	if info.GitCommit == "" {
		return appVersion
	}
	suffix := info.GitCommit
	if info.Dirty {
		suffix += "-dirty"
	}
	return appVersion + " (" + suffix + ")"
}

func shortCommit(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}
