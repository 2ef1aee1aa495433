// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for pglite packages.
//
// [VirtualRoot] creates a temporary data directory with symlinks in its
// own path resolved, so that paths the shim traces compare equal to paths
// the test builds.
//
// [RequireReceive] and [RequireClosed] wrap the select-with-timeout
// pattern used when a test waits on an engine goroutine.
//
// [UniqueID] generates monotonically increasing names for test files and
// directories that must not collide between parallel subtests.
//
// All helpers call t.Fatalf on failure rather than returning errors.
//
// This package has no pglite-internal dependencies.
package testutil
