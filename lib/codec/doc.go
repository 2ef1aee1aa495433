// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the CBOR configuration pglite uses for on-disk
// trace streams.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. Times
// are written as tag 0 RFC 3339 strings with nanosecond precision so a
// trace decoded on another host reproduces the exact timestamps.
//
// A trace file is a CBOR sequence (RFC 8742), so only stream encoding
// is exposed:
//
//	encoder := codec.NewEncoder(file)
//	decoder := codec.NewDecoder(file)
//
// Types serialized only through this package use `cbor` struct tags.
package codec
