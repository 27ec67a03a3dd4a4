// Package version reports build information. GitRelease, GitCommit and
// GitCommitDate are set at link time:
//
//	go build -ldflags "-X github.com/jackzampolin/bibsplit/version.GitRelease=v0.1.0" ./cmd/bibsplit
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	GitRelease    = "dev"
	GitCommit     = ""
	GitCommitDate = ""
	GoInfo        = fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if GitCommit == "" {
				GitCommit = s.Value
			}
		case "vcs.time":
			if GitCommitDate == "" {
				GitCommitDate = s.Value
			}
		}
	}
}
