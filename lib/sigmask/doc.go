// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sigmask satisfies the engine's signal-mask API in a host that
// never delivers UNIX signals to the engine's thread.
//
// The engine links against three process-wide signal sets (unblocked,
// blocked, startup-blocked), an initializer and a set-mask call. A
// [State] stores the three sets so reads and writes from engine code stay
// symmetric, but in the default [Emulated] capability nothing is ever
// applied to a real thread: [State.SetMask] records the requested mask
// and reports success for every input. Engine code must not rely on a
// signal actually being blocked.
//
// The stub is gated by a [Capability] fixed at construction. A host that
// does route real signals to the engine thread selects [Native], which
// applies masks with pthread_sigmask (Linux only) instead of reusing the
// no-op path. Mixing the two on one State is not possible.
//
// Go hosts are never single-threaded, so State guards its sets with a
// mutex. [Default] is the process-wide instance the package-level
// [InitMask] and [SetMask] operate on.
package sigmask
