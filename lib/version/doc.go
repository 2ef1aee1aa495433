// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for the pglite binary.
//
// [GitCommit], [GitDirty] and [BuildTime] are injected with -ldflags -X
// and default to "unknown" in development builds and tests. [Version] is
// set by hand for releases.
//
//   - [Info] -- "0.1.0-dev (abc1234, 2026-02-10T...)" for the version
//     command
//   - [Full] -- Info plus the Go version, GOOS/GOARCH and the engine
//     catalog version the host was built against
package version
