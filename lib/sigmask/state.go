// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sigmask

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bureau-foundation/pglite/lib/elog"
)

// Capability selects how masks are handled.
type Capability int

const (
	// Emulated accepts every mask and applies none. The zero value.
	Emulated Capability = iota

	// Native applies masks to the calling OS thread.
	Native
)

// ErrNativeUnsupported is returned by New for Native on platforms
// without pthread_sigmask support in golang.org/x/sys/unix.
var ErrNativeUnsupported = errors.New("native signal masks are not supported on this platform")

func (c Capability) String() string {
	switch c {
	case Emulated:
		return "emulated"
	case Native:
		return "native"
	default:
		return fmt.Sprintf("Capability(%d)", int(c))
	}
}

// ParseCapability parses "emulated" or "native". The empty string is
// Emulated.
func ParseCapability(s string) (Capability, error) {
	switch s {
	case "", "emulated":
		return Emulated, nil
	case "native":
		return Native, nil
	default:
		return Emulated, fmt.Errorf("unknown signal capability %q (want emulated or native)", s)
	}
}

// Snapshot is a copy of a State's sets.
type Snapshot struct {
	Capability   Capability
	UnBlock      Set
	Block        Set
	StartupBlock Set

	// Current is the most recently requested mask.
	Current Set

	// Requests counts SetMask calls since the last InitMask.
	Requests uint64
}

// State holds the engine's process-wide signal sets. The zero value is
// an uninitialized Emulated state logging through slog.Default().
type State struct {
	mu           sync.Mutex
	capability   Capability
	logger       *slog.Logger
	unBlock      Set
	block        Set
	startupBlock Set
	current      Set
	requests     uint64
}

// New returns a State with the given capability. A nil logger means
// slog.Default().
func New(capability Capability, logger *slog.Logger) (*State, error) {
	switch capability {
	case Emulated:
	case Native:
		if !nativeSupported {
			return nil, ErrNativeUnsupported
		}
	default:
		return nil, fmt.Errorf("unknown signal capability %v", capability)
	}
	return &State{capability: capability, logger: logger}, nil
}

// Default is the process-wide state.
var Default = &State{}

// InitMask initializes Default. See State.InitMask.
func InitMask() { Default.InitMask() }

// SetMask applies mask to Default. See State.SetMask.
func SetMask(mask Set) int { return Default.SetMask(mask) }

// Capability returns the capability fixed at construction.
func (s *State) Capability() Capability { return s.capability }

// InitMask puts every set into the empty configuration and resets the
// current mask. Calling it again yields the same state. It cannot fail.
func (s *State) InitMask() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unBlock = Empty()
	s.block = Empty()
	s.startupBlock = Empty()
	s.current = Empty()
	s.requests = 0
}

// SetMask sets the calling thread's signal mask. Under Emulated it only
// records mask and returns 0, for any mask. Under Native it returns 0 if
// pthread_sigmask succeeded and -1 otherwise; the failure is logged.
func (s *State) SetMask(mask Set) int {
	s.mu.Lock()
	s.current = mask
	s.requests++
	capability := s.capability
	s.mu.Unlock()

	logger := s.log()
	logger.LogAttrs(context.Background(), elog.LevelDebug1, "pqsigsetmask",
		slog.String("mask", mask.String()),
		slog.String("capability", capability.String()))

	if capability != Native {
		return 0
	}
	if err := applyNative(mask); err != nil {
		logger.Warn("pthread_sigmask failed", "mask", mask.String(), "error", err)
		return -1
	}
	return 0
}

// Snapshot returns a copy of the current sets.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Capability:   s.capability,
		UnBlock:      s.unBlock,
		Block:        s.block,
		StartupBlock: s.startupBlock,
		Current:      s.current,
		Requests:     s.requests,
	}
}

func (s *State) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
