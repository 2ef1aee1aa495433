// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package vroot resolves engine-supplied relative paths against the
// virtual root: the single data directory every engine filesystem
// operation is confined to.
//
// A [Root] is validated once by [New] and is immutable afterwards. It is
// passed by value, so no component can change the directory another
// component resolves against.
//
// [Resolve] is the relay resolver: a plain "root/relative" join with no
// syscalls and no normalization. A relative path containing ".." segments
// is joined as written, so containment under [Resolve] is only as strong
// as the engine's discipline when it builds paths. [Root.Contain] is the
// strict alternative: it cleans the joined path lexically and refuses
// anything that lands outside the root with [ErrEscapesRoot]. The clean
// only decides; a contained path is returned exactly as joined. Hosts
// select between the two through configuration; see lib/config.
//
// Each resolution returns a [ContainedPath] holding a freshly allocated
// buffer that lives for exactly one syscall. Callers release it with
// [ContainedPath.Release] once the syscall has returned.
//
// This package depends on no other pglite packages.
package vroot
