// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package host runs an embedded engine against a data directory.
//
// [Open] is the host side of the embedding contract. It validates the
// data directory as a virtual root, builds the per-engine linkage
// ([Env]: filesystem shim, signal-mask state, processing-mode variable,
// process-title stub, logger) and runs the engine's entry point on a
// dedicated goroutine locked to its own OS thread. On that thread, in
// order:
//
//  1. the signal-mask state is initialized;
//  2. when [Options].Bootstrap is set, the processing mode is forced to
//     bootstrap;
//  3. [Engine].Main runs.
//
// Step 2 precedes step 3 unconditionally, which is the only ordering the
// startup-mode override needs.
//
// The engine's linkage state is per engine thread, not process-wide: two
// connections never share a signal-mask state or a mode variable.
//
// Engine code leaves its thread early through [Exit], [Abort] and
// [Assert]. These unwind by panicking; Open recovers them and returns
// [*ExitThread], [ErrAborted] or [*AssertionFailure]. Any other panic is
// returned as [*EngineFault] carrying the engine goroutine's stack. The
// locked thread is discarded afterwards, so a native signal mask applied
// by the engine never leaks onto another goroutine.
//
// [ProbeEngine] is a stand-in engine that drives every shim operation the
// way engine startup does; cmd/pglite and the integration tests use it.
package host
