// Package version provides build-time metadata for the cra-watch binary.
// Version, GitCommit, and BuildDate are injected at compile time via -ldflags.
package version

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"
)

// bundlerModule is the module whose version is reported as the bundler.
const bundlerModule = "github.com/evanw/esbuild"

// Build-time values injected via -ldflags.
var (
	version   = "dev"
	gitCommit = "none"
	buildDate = "unknown"
)

// Info holds the build metadata for the binary.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
	Bundler   string `json:"bundler"`
}

// GetInfo returns the current build information.
func GetInfo() Info {
	return Info{
		Version:   version,
		GitCommit: shortCommit(gitCommit),
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		Bundler:   bundlerVersion(),
	}
}

// String returns a human-readable single-line version string.
func (i Info) String() string {
	return fmt.Sprintf("cra-watch %s (commit: %s, built: %s, %s %s, bundler: %s)",
		i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.Platform, i.Bundler)
}

// JSON returns the version info as indented JSON.
func (i Info) JSON() (string, error) {
	data, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling version info: %w", err)
	}

	return string(data), nil
}

// shortCommit truncates a commit SHA to 7 characters.
func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}

	return commit
}

// bundlerVersion names the linked esbuild release, or just "esbuild" when
// the binary carries no module information.
func bundlerVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "esbuild"
	}

	for _, dep := range info.Deps {
		if dep.Path == bundlerModule {
			return "esbuild " + dep.Version
		}
	}

	return "esbuild"
}
