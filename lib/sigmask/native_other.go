// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !(linux && (amd64 || arm64))

package sigmask

const nativeSupported = false

func applyNative(Set) error { return ErrNativeUnsupported }
