// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package version provides build version information for the secfield binaries.
// Values are injected at build time via -ldflags.
package version

import (
	"fmt"
	"runtime"
)

// These variables are set at build time via -ldflags.
// Example: go build -ldflags "-X github.com/aplane-algo/secfield/internal/version.Version=0.3.0"
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// String returns a formatted version string suitable for --version output.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s, %s/%s)",
		Version, GitCommit, BuildTime, runtime.GOOS, runtime.GOARCH)
}

// HandleFlag prints the version and exits when args contain --version.
// Called before flag parsing so it works regardless of other flags.
func HandleFlag(name string, args []string, exit func(int)) {
	for _, arg := range args {
		if arg == "--version" || arg == "-version" {
			fmt.Printf("%s %s\n", name, String())
			exit(0)
			return
		}
	}
}
