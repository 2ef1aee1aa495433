// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package host

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"

	"github.com/bureau-foundation/pglite/lib/elog"
	"github.com/bureau-foundation/pglite/lib/fsshim"
	"github.com/bureau-foundation/pglite/lib/fstrace"
	"github.com/bureau-foundation/pglite/lib/procmode"
	"github.com/bureau-foundation/pglite/lib/psdisplay"
	"github.com/bureau-foundation/pglite/lib/sigmask"
	"github.com/bureau-foundation/pglite/lib/vroot"
)

// DefaultBackend is the backend type attached to engine log records when
// Options.Backend is empty.
const DefaultBackend = "standalone backend"

// Engine is an embedded engine's entry point.
type Engine interface {
	Main(env *Env) error
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(env *Env) error

// Main calls f(env).
func (f EngineFunc) Main(env *Env) error { return f(env) }

// Env is everything the engine links against in place of the operating
// system.
type Env struct {
	FS      *fsshim.Shim
	Signals *sigmask.State
	Mode    *procmode.Variable
	Display *psdisplay.Display
	Logger  *slog.Logger

	// Args is the engine's argument vector after psdisplay.SaveArgs.
	Args []string

	backend string
}

// Report emits an engine error report through the Env's logger, tagged
// with the backend type.
func (e *Env) Report(report elog.Report) {
	if report.Backend == "" {
		report.Backend = e.backend
	}
	elog.Emit(e.Logger, report)
}

// Options configures Open.
type Options struct {
	// DataDir is the virtual root. Required, absolute.
	DataDir string

	// Args is handed to the engine as Env.Args. Optional.
	Args []string

	// Bootstrap forces bootstrap processing mode before the engine runs.
	Bootstrap bool

	// StrictContainment refuses engine paths that clean to a location
	// outside DataDir.
	StrictContainment bool

	// Signals selects emulated (default) or native signal masks.
	Signals sigmask.Capability

	// Tracer receives one record per filesystem shim call, in addition
	// to the trace-level log line. Optional; the caller owns it.
	Tracer fstrace.Tracer

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Backend names the engine backend in log records. Defaults to
	// DefaultBackend.
	Backend string
}

// OpenError reports a data directory Open cannot use.
type OpenError struct {
	DataDir string
	Err     error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("opening data directory %q: %v", e.DataDir, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// Connection is an engine that has completed its entry point against a
// data directory.
type Connection struct {
	env  *Env
	root vroot.Root
}

// DataDir returns the virtual root the engine ran in.
func (c *Connection) DataDir() string { return c.root.Dir() }

// Mode returns the engine's processing mode as the engine left it.
func (c *Connection) Mode() procmode.Mode { return c.env.Mode.Load() }

// Signals returns a snapshot of the engine's signal-mask state.
func (c *Connection) Signals() sigmask.Snapshot { return c.env.Signals.Snapshot() }

// Activity returns the last process-title activity the engine set.
func (c *Connection) Activity() string {
	_, activity := c.env.Display.Last()
	return activity
}

// TraceFailures returns how many trace records the tracer rejected.
func (c *Connection) TraceFailures() uint64 { return c.env.FS.TraceFailures() }

// Open runs engine against options.DataDir and waits for its entry point
// to return. ctx is checked before the engine starts; a running engine is
// not interrupted.
func Open(ctx context.Context, engine Engine, options Options) (*Connection, error) {
	root, err := vroot.New(options.DataDir)
	if err != nil {
		return nil, &OpenError{DataDir: options.DataDir, Err: err}
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	backend := options.Backend
	if backend == "" {
		backend = DefaultBackend
	}

	signals, err := sigmask.New(options.Signals, logger)
	if err != nil {
		return nil, fmt.Errorf("configuring signal masks: %w", err)
	}

	tracer := fstrace.Tracer(fstrace.NewSlogTracer(logger))
	if options.Tracer != nil {
		tracer = fstrace.Multi(tracer, options.Tracer)
	}

	env := &Env{
		FS: fsshim.New(root,
			fsshim.WithLogger(logger),
			fsshim.WithTracer(tracer),
			fsshim.WithStrictContainment(options.StrictContainment),
		),
		Signals: signals,
		Mode:    &procmode.Variable{},
		Display: &psdisplay.Display{},
		Logger:  logger,
		backend: backend,
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Debug("starting engine thread",
		"data_dir", root.Dir(),
		"bootstrap", options.Bootstrap,
		"strict_containment", options.StrictContainment,
		"signals", options.Signals.String(),
	)

	done := make(chan error, 1)
	go func() {
		// Never unlocked: the thread exits with the goroutine, along with
		// any signal mask the engine applied to it.
		runtime.LockOSThread()
		done <- runEngine(engine, env, options.Args, options.Bootstrap)
	}()

	if err := <-done; err != nil {
		return nil, err
	}
	return &Connection{env: env, root: root}, nil
}

// runEngine performs the engine-thread startup sequence and converts the
// engine's ways of leaving its thread into errors.
func runEngine(engine Engine, env *Env, args []string, bootstrap bool) (err error) {
	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}
		err = exitError(recovered)
	}()

	env.Args = psdisplay.SaveArgs(args)
	env.Signals.InitMask()
	if bootstrap {
		procmode.ForceBootstrap(env.Mode)
	}
	env.Display.Init(env.backend)

	if err := engine.Main(env); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	return nil
}

func exitError(recovered any) error {
	switch value := recovered.(type) {
	case *ExitThread:
		if value.Code == 0 {
			return nil
		}
		return value
	case abortSignal:
		return ErrAborted
	case *AssertionFailure:
		return value
	default:
		return &EngineFault{Value: recovered, Stack: debug.Stack()}
	}
}
