// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the host configuration for an embedded engine.
//
// Configuration comes from a single file named by the PGLITE_CONFIG
// environment variable ([Load]) or a --config flag ([LoadFile]). There is
// no discovery and no fallback search path. YAML is the native format;
// files ending in .json or .jsonc are accepted too, with comments and
// trailing commas stripped by tidwall/jsonc before parsing.
//
// The file may carry development, staging and production sections that
// override base values when [Config].Environment matches. Production
// defaults to strict path containment when the file does not say
// otherwise.
//
// ${HOME}, ${PGLITE_DATA} and ${VAR:-default} are expanded in path
// fields after loading. No other environment variable overrides a value
// from the file.
//
// This package depends on no other pglite packages.
package config
