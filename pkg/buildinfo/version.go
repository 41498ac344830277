// Package buildinfo reports the version of the running binary.
//
// Release builds stamp the variables at link time:
//
//	go build -ldflags "-X github.com/matzehuels/mmcifsite/pkg/buildinfo.Version=v0.3.0 -X github.com/matzehuels/mmcifsite/pkg/buildinfo.Commit=$(git rev-parse HEAD)"
//
// Binaries installed with go install carry the module version instead.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func init() {
	if Version != "dev" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
}

// Generator identifies this build in run records, e.g. "mmcifsite v0.3.0
// (1a2b3c4)".
func Generator() string {
	if len(Commit) < 7 {
		return "mmcifsite " + Version
	}
	return fmt.Sprintf("mmcifsite %s (%s)", Version, Commit[:7])
}

// Template is the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} {{.Version}}\ncommit: %s\nbuilt:  %s\n", Commit, Date)
}
