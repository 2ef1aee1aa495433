// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestVirtualRoot(t *testing.T) {
	t.Parallel()

	root := VirtualRoot(t)
	if !filepath.IsAbs(root) {
		t.Errorf("root %q is not absolute", root)
	}
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil || resolved != root {
		t.Errorf("root %q resolves to %q (%v)", root, resolved, err)
	}
	entries, err := os.ReadDir(root)
	if err != nil || len(entries) != 0 {
		t.Errorf("root not empty: %v, %v", entries, err)
	}
}

func TestUniqueID(t *testing.T) {
	t.Parallel()

	first := UniqueID("relation")
	second := UniqueID("relation")
	if first == second {
		t.Errorf("UniqueID repeated %q", first)
	}
}

func TestRequireReceive(t *testing.T) {
	t.Parallel()

	ch := make(chan int, 1)
	ch <- 7
	if got := RequireReceive(t, ch, time.Second, "value"); got != 7 {
		t.Errorf("RequireReceive = %d", got)
	}

	done := make(chan struct{})
	close(done)
	RequireClosed(t, done, time.Second, "closed")
}
