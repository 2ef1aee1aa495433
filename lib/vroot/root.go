// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package vroot

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var (
	// ErrEmptyRoot is returned by New for an empty directory.
	ErrEmptyRoot = errors.New("virtual root is empty")

	// ErrRelativeRoot is returned by New for a directory that is not
	// absolute.
	ErrRelativeRoot = errors.New("virtual root is not an absolute path")

	// ErrRootNotUTF8 is returned by New when the directory is not valid
	// UTF-8.
	ErrRootNotUTF8 = errors.New("virtual root is not valid UTF-8")

	// ErrRootContainsNUL is returned by New when the directory contains a
	// NUL byte and therefore cannot be passed to a syscall.
	ErrRootContainsNUL = errors.New("virtual root contains a NUL byte")

	// ErrEscapesRoot is returned by Root.Contain when the cleaned path
	// lies outside the root.
	ErrEscapesRoot = errors.New("path escapes the virtual root")
)

// Root is the virtual root directory. The zero value is not usable;
// construct one with New.
type Root struct {
	dir string

	// clean is filepath.Clean(dir), the form containment is decided on.
	clean string
}

// New validates dir and returns it as a Root. The directory is kept
// exactly as given (a trailing separator is trimmed, nothing else), so
// resolved paths carry the configured spelling as their prefix. New does
// not touch the filesystem: the directory need not exist yet.
func New(dir string) (Root, error) {
	switch {
	case dir == "":
		return Root{}, ErrEmptyRoot
	case !utf8.ValidString(dir):
		return Root{}, ErrRootNotUTF8
	case strings.IndexByte(dir, 0) >= 0:
		return Root{}, ErrRootContainsNUL
	case !filepath.IsAbs(dir):
		return Root{}, fmt.Errorf("%w: %q", ErrRelativeRoot, dir)
	}
	if trimmed := strings.TrimRight(dir, "/"); trimmed != "" {
		dir = trimmed
	}
	return Root{dir: dir, clean: filepath.Clean(dir)}, nil
}

// MustNew is New for roots known at compile time. It panics on error.
func MustNew(dir string) Root {
	root, err := New(dir)
	if err != nil {
		panic("vroot: " + err.Error())
	}
	return root
}

// Dir returns the root directory.
func (r Root) Dir() string { return r.dir }

// IsZero reports whether r was never initialized by New.
func (r Root) IsZero() bool { return r.dir == "" }

// String implements fmt.Stringer.
func (r Root) String() string { return r.dir }

// Resolve joins relative onto the root. See the package-level Resolve.
func (r Root) Resolve(relative string) ContainedPath {
	return Resolve(r, relative)
}

// Contain joins relative onto the root and verifies that the lexically
// cleaned join is the root itself or lies beneath it. Cleaning only
// decides containment: the returned ContainedPath is always the uncleaned
// join, exactly what Resolve returns, so the syscall still sees every
// component the engine wrote. Root spellings such as "/srv//pgdata" are
// compared in cleaned form.
//
// Contain does not resolve symlinks. A symlink inside the root that points
// outside it is followed by the subsequent syscall.
func (r Root) Contain(relative string) (ContainedPath, error) {
	joined := Resolve(r, relative)
	cleaned := filepath.Clean(joined.String())
	if cleaned != r.clean && !strings.HasPrefix(cleaned, r.prefix()) {
		return joined, fmt.Errorf("%w: %q resolves to %q outside %q",
			ErrEscapesRoot, relative, cleaned, r.clean)
	}
	return joined, nil
}

// prefix returns the cleaned root with exactly one trailing separator.
func (r Root) prefix() string {
	if r.clean == "/" {
		return r.clean
	}
	return r.clean + "/"
}

// Resolve returns root + "/" + relative. It performs no syscalls and no
// normalization, and allocates a new buffer on every call. An empty
// relative path resolves to the root followed by a separator.
func Resolve(root Root, relative string) ContainedPath {
	buffer := make([]byte, 0, len(root.dir)+1+len(relative))
	buffer = append(buffer, root.dir...)
	buffer = append(buffer, '/')
	buffer = append(buffer, relative...)
	return ContainedPath{buffer: buffer}
}

// ContainedPath is one resolved absolute path, valid for a single
// syscall.
type ContainedPath struct {
	buffer []byte
}

// String returns a copy of the resolved path. After Release it returns
// the empty string.
func (p ContainedPath) String() string { return string(p.buffer) }

// Released reports whether the buffer has been dropped.
func (p ContainedPath) Released() bool { return p.buffer == nil }

// Release zeroes and drops the buffer. Strings previously returned by
// String are unaffected. Safe to call more than once.
func (p *ContainedPath) Release() {
	clear(p.buffer)
	p.buffer = nil
}
