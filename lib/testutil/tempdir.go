// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// VirtualRoot returns a fresh, empty data directory for use as a virtual
// root, named by UniqueID. The path has its symlinks resolved (on macOS
// t.TempDir lives under /var, a symlink to /private/var). Removed when
// the test ends.
func VirtualRoot(t testing.TB) string {
	t.Helper()
	directory, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("resolving temporary directory: %v", err)
	}
	root := filepath.Join(directory, UniqueID("pgdata"))
	if err := os.Mkdir(root, 0o700); err != nil {
		t.Fatalf("creating virtual root: %v", err)
	}
	return root
}
