// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux && (amd64 || arm64)

package sigmask

import "golang.org/x/sys/unix"

const nativeSupported = true

// applyNative replaces the calling OS thread's mask. Callers that need
// the mask to stick run on a goroutine locked to its thread.
func applyNative(mask Set) error {
	var set unix.Sigset_t
	set.Val[0] = mask.bits
	return unix.PthreadSigmask(unix.SIG_SETMASK, &set, nil)
}
