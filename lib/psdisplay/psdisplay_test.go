// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package psdisplay

import (
	"slices"
	"testing"
)

func TestSaveArgs(t *testing.T) {
	t.Parallel()

	argv := []string{"postgres", "--boot", "-D", "/data"}
	saved := SaveArgs(argv)
	if !slices.Equal(saved, argv) || &saved[0] != &argv[0] {
		t.Errorf("SaveArgs returned %v, want the same slice", saved)
	}
	if SaveArgs(nil) != nil {
		t.Error("SaveArgs(nil) != nil")
	}
}

func TestDisplay(t *testing.T) {
	t.Parallel()

	var display Display
	display.Init("standalone backend")
	display.Set("idle")
	display.Set("BOOTSTRAP")

	if got := display.Get(); got != "" {
		t.Errorf("Get() = %q, want empty", got)
	}
	fixed, activity := display.Last()
	if fixed != "standalone backend" || activity != "BOOTSTRAP" {
		t.Errorf("Last() = (%q, %q)", fixed, activity)
	}
}
