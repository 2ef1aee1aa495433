// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package host

import (
	"errors"
	"fmt"
)

// ExitThread is returned by Open when the engine called Exit with a
// non-zero code.
type ExitThread struct {
	Code int
}

func (e *ExitThread) Error() string {
	return fmt.Sprintf("engine exited with code %d", e.Code)
}

// Exit leaves the engine thread with code. Exit(0) is a clean shutdown
// and Open returns the Connection. Only call from engine code running
// under Open.
func Exit(code int) {
	panic(&ExitThread{Code: code})
}

// ErrAborted is returned by Open when the engine called Abort.
var ErrAborted = errors.New("engine aborted")

type abortSignal struct{}

// Abort leaves the engine thread abnormally.
func Abort() {
	panic(abortSignal{})
}

// AssertionFailure is returned by Open when an engine assertion failed.
type AssertionFailure struct {
	Condition string
	ErrorType string
	File      string
	Line      int
}

func (a *AssertionFailure) Error() string {
	return fmt.Sprintf("engine %s(%q, File: %q, Line: %d)", a.ErrorType, a.Condition, a.File, a.Line)
}

// Assert leaves the engine thread with an AssertionFailure when ok is
// false.
func Assert(ok bool, condition, file string, line int) {
	if ok {
		return
	}
	panic(&AssertionFailure{
		Condition: condition,
		ErrorType: "FailedAssertion",
		File:      file,
		Line:      line,
	})
}

// EngineFault is returned by Open when the engine panicked with anything
// other than Exit, Abort or Assert.
type EngineFault struct {
	Value any
	Stack []byte
}

func (f *EngineFault) Error() string {
	return fmt.Sprintf("engine panicked: %v", f.Value)
}

// Unwrap returns the panic value when it is an error.
func (f *EngineFault) Unwrap() error {
	if err, ok := f.Value.(error); ok {
		return err
	}
	return nil
}

// ExitCode returns the engine's exit code, so a binary can exit with it.
func (e *ExitThread) ExitCode() int { return e.Code }
