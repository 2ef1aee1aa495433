// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fsshim

import (
	"errors"
	"log/slog"
	"os"

	"golang.org/x/sys/unix"

	"github.com/bureau-foundation/pglite/lib/fstrace"
	"github.com/bureau-foundation/pglite/lib/vroot"
)

// Result is the outcome of one relayed syscall: a value (0, a descriptor,
// or -1) and the errno captured immediately after the call returned.
type Result struct {
	Value int
	Errno unix.Errno
}

// Failed reports whether the syscall set an errno.
func (r Result) Failed() bool { return r.Errno != 0 }

// Err returns the errno as an error, or nil on success. The returned
// error is the unix.Errno itself, never wrapped.
func (r Result) Err() error {
	if r.Errno == 0 {
		return nil
	}
	return r.Errno
}

func resultOf(value int, err error) Result {
	if err == nil {
		return Result{Value: value}
	}
	var errno unix.Errno
	if !errors.As(err, &errno) {
		// x/sys/unix only returns Errno values; anything else is a bug in
		// the syscall wrapper, reported as EIO rather than dropped.
		errno = unix.EIO
	}
	return Result{Value: -1, Errno: errno}
}

// Option configures a Shim.
type Option func(*Shim)

// WithTracer sets the tracer receiving one record per call. Defaults to
// an fstrace.SlogTracer on the shim's logger.
func WithTracer(tracer fstrace.Tracer) Option {
	return func(s *Shim) { s.tracer = tracer }
}

// WithLogger sets the logger used for the default tracer and for tracer
// failure warnings. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Shim) { s.logger = logger }
}

// WithStrictContainment makes the shim refuse relative paths that clean
// to a location outside the root.
func WithStrictContainment(strict bool) Option {
	return func(s *Shim) { s.strict = strict }
}

// Shim relays filesystem syscalls into a virtual root. A Shim holds no
// mutable state besides its tracer and is safe for concurrent use when
// the tracer is.
type Shim struct {
	root   vroot.Root
	strict bool
	logger *slog.Logger
	tracer fstrace.Tracer
	safe   *fstrace.SafeTracer
}

// New returns a Shim confined to root. It panics if root is the zero
// Root, which would resolve every relative path against "/".
func New(root vroot.Root, options ...Option) *Shim {
	if root.IsZero() {
		panic("fsshim: New called with a zero vroot.Root")
	}
	shim := &Shim{root: root}
	for _, option := range options {
		option(shim)
	}
	if shim.logger == nil {
		shim.logger = slog.Default()
	}
	if shim.tracer == nil {
		shim.tracer = fstrace.NewSlogTracer(shim.logger)
	}
	shim.safe = fstrace.Safe(shim.tracer, shim.logger)
	return shim
}

// Root returns the virtual root the shim resolves against.
func (s *Shim) Root() vroot.Root { return s.root }

// Strict reports whether strict containment is on.
func (s *Shim) Strict() bool { return s.strict }

// TraceFailures returns how many trace records the tracer rejected.
func (s *Shim) TraceFailures() uint64 { return s.safe.Failures() }

// relay runs call on the resolved form of relative. Resolution, tracing,
// the syscall and release happen in that order on every call.
func (s *Shim) relay(op, relative string, call func(path string) Result) Result {
	path, err := s.resolve(relative)
	defer path.Release()

	s.safe.Emit(fstrace.Record{Op: op, Path: path.String()})
	if err != nil {
		return Result{Value: -1, Errno: unix.EACCES}
	}
	return call(path.String())
}

func (s *Shim) resolve(relative string) (vroot.ContainedPath, error) {
	if s.strict {
		return s.root.Contain(relative)
	}
	return s.root.Resolve(relative), nil
}

// Mkdir creates the directory relative under the root with permission
// bits mode. Returns 0, or -1 and the errno.
func (s *Shim) Mkdir(relative string, mode uint32) (int, error) {
	result := s.MkdirResult(relative, mode)
	return result.Value, result.Err()
}

// MkdirResult is Mkdir returning the discriminated Result.
func (s *Shim) MkdirResult(relative string, mode uint32) Result {
	return s.relay(fstrace.OpMkdir, relative, func(path string) Result {
		return resultOf(0, unix.Mkdir(path, mode))
	})
}

// Stat fills out with the status of relative under the root. Returns 0,
// or -1 and the errno. out is only written on success.
func (s *Shim) Stat(relative string, out *unix.Stat_t) (int, error) {
	result := s.StatResult(relative, out)
	return result.Value, result.Err()
}

// StatResult is Stat returning the discriminated Result.
func (s *Shim) StatResult(relative string, out *unix.Stat_t) Result {
	return s.relay(fstrace.OpStat, relative, func(path string) Result {
		var buffer unix.Stat_t
		if err := unix.Stat(path, &buffer); err != nil {
			return resultOf(-1, err)
		}
		*out = buffer
		return Result{}
	})
}

// Open opens relative under the root with the given open(2) flags and
// creation mode. Returns the descriptor, or -1 and the errno. The caller
// owns the descriptor.
func (s *Shim) Open(relative string, flags int, mode uint32) (int, error) {
	result := s.OpenResult(relative, flags, mode)
	return result.Value, result.Err()
}

// OpenResult is Open returning the discriminated Result.
func (s *Shim) OpenResult(relative string, flags int, mode uint32) Result {
	return s.relay(fstrace.OpOpen, relative, func(path string) Result {
		return resultOf(unix.Open(path, flags, mode))
	})
}

// OpenDir opens a directory stream on relative under the root. Returns
// nil and the errno on failure.
func (s *Shim) OpenDir(relative string) (*DirStream, error) {
	var stream *DirStream
	result := s.relay(fstrace.OpOpenDir, relative, func(path string) Result {
		fd, err := unix.Open(path, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
		if err != nil {
			return resultOf(-1, err)
		}
		stream = &DirStream{file: os.NewFile(uintptr(fd), path)}
		return Result{Value: fd}
	})
	if result.Failed() {
		return nil, result.Err()
	}
	return stream, nil
}

// DirStream is an open directory, the handle OpenDir returns.
type DirStream struct {
	file *os.File
}

// Fd returns the underlying descriptor.
func (d *DirStream) Fd() int { return int(d.file.Fd()) }

// Path returns the resolved path the stream was opened on.
func (d *DirStream) Path() string { return d.file.Name() }

// ReadNames returns up to n entry names in directory order, or all
// remaining names when n <= 0. At the end of the directory it returns an
// empty slice and io.EOF when n > 0, matching os.File.Readdirnames.
func (d *DirStream) ReadNames(n int) ([]string, error) {
	return d.file.Readdirnames(n)
}

// Close closes the stream.
func (d *DirStream) Close() error {
	return d.file.Close()
}
