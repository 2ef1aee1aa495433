// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package procmode holds the engine's processing mode and the host's
// override for it.
//
// The engine decides which initialization path to take by reading its
// global processing mode once, early in its own startup. An embedding
// host has no command line to pass "--boot" through, so it calls
// [ForceBootstrap] before handing control to the engine. The override is
// a single store. It is not retroactive: once the engine has read the
// mode and branched, a later override changes the variable but not the
// path already taken. Nothing detects a late call; ordering is the host's
// responsibility (lib/host calls it before the engine's main).
package procmode

import (
	"fmt"
	"sync/atomic"
)

// Mode is an engine processing mode.
type Mode int32

const (
	// Bootstrap is the mode used while creating the initial catalog.
	Bootstrap Mode = iota
	// Init is the mode the engine starts in before it has decided.
	Init
	// Normal is ordinary query processing.
	Normal
)

func (m Mode) String() string {
	switch m {
	case Bootstrap:
		return "bootstrap"
	case Init:
		return "init"
	case Normal:
		return "normal"
	default:
		return fmt.Sprintf("Mode(%d)", int32(m))
	}
}

// ParseMode parses the names String produces.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "bootstrap":
		return Bootstrap, nil
	case "init":
		return Init, nil
	case "normal":
		return Normal, nil
	default:
		return Init, fmt.Errorf("unknown processing mode %q", s)
	}
}

// Variable is the engine's processing-mode variable. The zero value holds
// Init, the engine's starting mode.
type Variable struct {
	// Stored as an offset from Init so the zero value reads as Init.
	offset atomic.Int32
}

// NewVariable returns a Variable holding mode.
func NewVariable(mode Mode) *Variable {
	v := &Variable{}
	v.Store(mode)
	return v
}

// Load returns the current mode.
func (v *Variable) Load() Mode { return Mode(v.offset.Load()) + Init }

// Store sets the mode.
func (v *Variable) Store(mode Mode) { v.offset.Store(int32(mode - Init)) }

// ForceBootstrap stores Bootstrap into v. It must run before the engine
// reads v; see the package documentation.
func ForceBootstrap(v *Variable) {
	v.Store(Bootstrap)
}

// Engine is the process-wide processing mode.
var Engine = &Variable{}

// ForceBootstrapMode forces Engine into Bootstrap.
func ForceBootstrapMode() { ForceBootstrap(Engine) }
