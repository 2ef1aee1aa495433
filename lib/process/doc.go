// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process holds the pglite binary's entrypoint helpers: the raw
// stderr writes that happen before the structured logger exists or after
// it can no longer be trusted.
package process
