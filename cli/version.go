package cli

import (
	"fmt"
	"runtime"
)

// set with -ldflags "-X github.com/viert/netinv/cli.appVersion=..."
var (
	appVersion = ""
	appBuild   = ""
)

// Version returns the netinv version string
func Version() string {
	if appVersion == "" {
		return fmt.Sprintf("dev (%s %s/%s)", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	}
	return fmt.Sprintf("%s-%s (%s %s/%s)", appVersion, appBuild, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
