// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package psdisplay stubs the engine's process-title calls. An embedded
// engine shares its host's process, so it must not rewrite argv or the
// title the host shows in ps.
package psdisplay

import "sync"

// SaveArgs returns argv unchanged. The engine calls it before anything
// else touches argv and keeps using the returned slice.
func SaveArgs(argv []string) []string {
	return argv
}

// Display stands in for the engine's process-title state. The engine
// always reads back an empty title; the last values it asked for are
// kept for the host to inspect.
type Display struct {
	mu       sync.Mutex
	fixed    string
	activity string
}

// Init records the fixed part of the title.
func (d *Display) Init(fixed string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fixed = fixed
}

// Set records the current activity.
func (d *Display) Set(activity string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.activity = activity
}

// Get returns what the engine sees as its title: always empty.
func (d *Display) Get() string {
	return ""
}

// Last returns the fixed part and activity most recently set.
func (d *Display) Last() (fixed, activity string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fixed, d.activity
}
