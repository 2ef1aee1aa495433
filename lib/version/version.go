// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"strconv"
)

// Set with -ldflags at build time:
//
//	go build -ldflags "-X github.com/bureau-foundation/pglite/lib/version.GitCommit=$(git rev-parse --short HEAD)"
var (
	GitCommit = "unknown"
	GitDirty  = "false"
	BuildTime = "unknown"
	Version   = "0.1.0-dev"
)

// Info returns the one-line version string.
func Info() string {
	dirty := ""
	if dirtyBuild, _ := strconv.ParseBool(GitDirty); dirtyBuild {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, GitCommit, dirty, BuildTime)
}

// Full returns Info followed by the toolchain, platform and engine
// catalog version.
func Full(catalogVersion int) string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s\n  Catalog: %d",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH, catalogVersion)
}
