// Package version exposes build metadata. The variables are overridden at
// link time:
//
//	go build -ldflags "-X github.com/NeuralTrust/PrivacyGuard/pkg/version.Version=1.2.0 \
//	  -X github.com/NeuralTrust/PrivacyGuard/pkg/version.GitCommit=$(git rev-parse --short HEAD)"
package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "0.1.0"
	AppName   = "PrivacyGuard"
	GitCommit = "dev"
	BuildDate = "unknown"
)

type Info struct {
	AppName   string `json:"app_name"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func GetInfo() Info {
	return Info{
		AppName:   AppName,
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// UserAgent is sent on outbound calls to inference backends.
func UserAgent() string {
	return fmt.Sprintf("%s/%s (%s)", AppName, Version, GitCommit)
}
