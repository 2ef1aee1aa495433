// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// pglite runs the embedded engine's startup sequence against a data
// directory and inspects what the filesystem shim did.
//
// Usage:
//
//	pglite open --database DIR [--config FILE] [--bootstrap] [--strict] [--signals MODE] [--trace FILE]
//	pglite resolve --database DIR [--strict] PATH...
//	pglite trace show FILE
//	pglite version
//
// open runs the built-in probe engine (host.ProbeEngine): with
// --bootstrap it creates the cluster skeleton, otherwise it checks that
// the cluster exists. Every shim call is logged at trace level and, with
// --trace, recorded to a CBOR file (zstd-compressed when the name ends in
// ".zst") that trace show prints back.
//
// Configuration comes from --config or PGLITE_CONFIG when either is set;
// flags override the file. PGLITE_DEBUG=1 raises logging to debug, and
// PGLITE_DEBUG=trace shows the per-call shim records.
package main
