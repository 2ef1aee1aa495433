// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sigmask

import (
	"fmt"
	"syscall"
)

// MaxSignal is the highest signal number a Set can hold.
const MaxSignal = 64

// Set is an opaque set of signal numbers 1 through MaxSignal. The zero
// value is the empty set.
type Set struct {
	bits uint64
}

// Empty returns the empty set.
func Empty() Set { return Set{} }

// Fill returns the set containing every signal.
func Fill() Set { return Set{bits: ^uint64(0)} }

// Of returns the set containing signals.
func Of(signals ...syscall.Signal) Set {
	var set Set
	for _, signal := range signals {
		set = set.Add(signal)
	}
	return set
}

// FromBits returns the set whose bit n-1 holds signal n.
func FromBits(bits uint64) Set { return Set{bits: bits} }

// Bits returns the raw bitset, signal n at bit n-1.
func (s Set) Bits() uint64 { return s.bits }

// Add returns s with signal added. Out-of-range signals are ignored.
func (s Set) Add(signal syscall.Signal) Set {
	if signal < 1 || signal > MaxSignal {
		return s
	}
	s.bits |= 1 << (uint(signal) - 1)
	return s
}

// Has reports whether signal is in s.
func (s Set) Has(signal syscall.Signal) bool {
	if signal < 1 || signal > MaxSignal {
		return false
	}
	return s.bits&(1<<(uint(signal)-1)) != 0
}

// IsEmpty reports whether s holds no signals.
func (s Set) IsEmpty() bool { return s.bits == 0 }

// String renders the bitset in hex, the way the engine prints masks.
func (s Set) String() string { return fmt.Sprintf("%#x", s.bits) }
