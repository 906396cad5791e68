package cli

import (
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE:  runVersion,
}

// versionOutput is the JSON shape for version info.
type versionOutput struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
}

func runVersion(_ *cobra.Command, _ []string) error {
	info := versionOutput{
		Version: buildInfo.Version,
		Commit:  buildInfo.Commit,
		Date:    buildInfo.Date,
		Go:      runtime.Version(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}

	if formatter.IsJSON() {
		return formatter.Print(info)
	}
	return formatter.Printf("shardkey %s (commit %s, built %s, %s %s/%s)\n",
		info.Version, info.Commit, info.Date, info.Go, info.OS, info.Arch)
}
