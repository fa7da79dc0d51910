package version

import (
	"runtime"
	"time"
)

// Overridden at build time with -ldflags "-X .../version.Version=v0.3.0 ...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = time.Now().Format(time.RFC3339)
	GoVersion = runtime.Version()
)

// String renders the build info on one line for logs and /healthz.
func String() string {
	return Version + " (commit=" + Commit + ", built=" + BuildDate + ", go=" + GoVersion + ")"
}
