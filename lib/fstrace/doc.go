// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fstrace records the diagnostic trace the filesystem shim emits
// before every relayed syscall.
//
// A trace [Record] names the operation and the resolved absolute path.
// Records flow into a [Tracer]:
//
//   - [SlogTracer] logs each record at engine DEBUG1 severity
//     (elog.LevelDebug1), matching how the engine itself reports the
//     same events.
//   - [StreamTracer] appends records to a CBOR sequence (lib/codec),
//     optionally zstd-compressed when opened with [NewFileTracer] on a
//     path ending in ".zst". [ReadAll] and [OpenFile] decode such
//     streams for `pglite trace show`.
//   - [Multi] fans one record out to several tracers.
//
// Tracing is observability, never control flow. The shim reaches its
// tracer only through [Safe], whose Emit discards errors and recovers
// panics so a broken sink cannot change the result of the wrapped
// operation. The first failure is logged at warn level; later failures
// are counted but not logged.
package fstrace
