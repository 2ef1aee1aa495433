// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fsshim relays the engine's filesystem syscalls into the
// virtual root.
//
// The engine issues four path-taking calls that must stay inside its data
// directory: mkdir, opendir, stat and open. [Shim] exposes one method per
// call with the same shape as the POSIX function it replaces. Each method:
//
//  1. resolves the engine's relative path against the root (lib/vroot),
//     fresh on every call;
//  2. emits one trace record naming the operation and the resolved path
//     (lib/fstrace), before the syscall, through a tracer that cannot fail
//     the operation;
//  3. performs the real syscall on the resolved path;
//  4. releases the resolved path on every exit path, after the syscall's
//     errno has been captured, so releasing cannot alter it.
//
// Errors are relayed, not handled. The error a method returns is the bare
// unix.Errno the kernel produced for the resolved path: it compares equal
// to the error a direct golang.org/x/sys/unix call on the same absolute
// path returns, and the engine's own retry and reporting logic sees native
// semantics. Result codes follow the syscall convention: 0 or a
// descriptor on success, -1 on failure.
//
// With strict containment ([WithStrictContainment]) a relative path whose
// cleaned form leaves the root fails with EACCES without reaching the
// kernel. The default is the plain relay join; see lib/vroot for the
// difference.
package fsshim
