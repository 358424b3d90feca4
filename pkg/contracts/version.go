package contracts

import (
	"fmt"
	"runtime"
)

// Version is the release of the dendro tool
const Version = "0.3.0"

// TableFormatVersion identifies the layout of aligned tables written by dendro:
// the JSON of "read -O json" carries it as table_format, exported workbooks as
// their document version. Bump it when columns or value encodings change.
const TableFormatVersion = "v1"

// Set at build time with -ldflags "-X dendrocli/pkg/contracts.GitCommit=..."
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// BuildInfo describes the running binary
type BuildInfo struct {
	Version     string `json:"version"`
	TableFormat string `json:"table_format"`
	BuildTime   string `json:"build_time"`
	GitCommit   string `json:"git_commit"`
	GoVersion   string `json:"go_version"`
	Platform    string `json:"platform"`
}

// CurrentBuild returns the build information of this binary
func CurrentBuild() BuildInfo {
	return BuildInfo{
		Version:     Version,
		TableFormat: TableFormatVersion,
		BuildTime:   BuildTime,
		GitCommit:   GitCommit,
		GoVersion:   runtime.Version(),
		Platform:    runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// VersionString returns the short form printed by "dendro version"
func VersionString() string {
	return "dendro v" + Version
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("dendro v%s (table format %s, commit %s, built %s, %s %s)",
		b.Version, b.TableFormat, b.GitCommit, b.BuildTime, b.GoVersion, b.Platform)
}
