// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fstrace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bureau-foundation/pglite/lib/clock"
	"github.com/bureau-foundation/pglite/lib/elog"
)

// Operation names used by the filesystem shim.
const (
	OpMkdir   = "pglite_mkdir"
	OpOpenDir = "pglite_opendir"
	OpStat    = "pglite_stat"
	OpOpen    = "pglite_open"
)

// Record is one trace record.
type Record struct {
	// Seq is assigned by stream tracers, starting at 1. Zero when the
	// record has not passed through one.
	Seq uint64 `cbor:"seq,omitempty"`

	// Time is when the record was written. Stream tracers fill it from
	// their clock when it is zero.
	Time time.Time `cbor:"time"`

	// Op is the shim operation, one of the Op constants.
	Op string `cbor:"op"`

	// Path is the resolved absolute path handed to the syscall.
	Path string `cbor:"path"`
}

// String renders the record the way the engine's DEBUG1 line reads.
func (r Record) String() string {
	return r.Op + ": " + r.Path
}

// Tracer receives trace records.
type Tracer interface {
	Trace(Record) error
}

// TracerFunc adapts a function to the Tracer interface.
type TracerFunc func(Record) error

// Trace calls f(record).
func (f TracerFunc) Trace(record Record) error { return f(record) }

// Discard is a Tracer that drops every record.
var Discard Tracer = TracerFunc(func(Record) error { return nil })

// SlogTracer logs records through a *slog.Logger at elog.LevelDebug1.
type SlogTracer struct {
	logger *slog.Logger
}

// NewSlogTracer returns a tracer logging through logger.
func NewSlogTracer(logger *slog.Logger) *SlogTracer {
	return &SlogTracer{logger: logger}
}

// Trace implements Tracer.
func (t *SlogTracer) Trace(record Record) error {
	t.logger.LogAttrs(context.Background(), elog.LevelDebug1, record.Op,
		slog.String("path", record.Path))
	return nil
}

// Multi returns a Tracer that passes each record to every tracer in
// order. A failing tracer does not stop the others; their errors are
// joined.
func Multi(tracers ...Tracer) Tracer {
	return multiTracer(tracers)
}

type multiTracer []Tracer

func (m multiTracer) Trace(record Record) error {
	var errs []error
	for _, tracer := range m {
		if err := tracer.Trace(record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SafeTracer wraps a Tracer so that emitting a record can never fail or
// panic.
type SafeTracer struct {
	tracer   Tracer
	logger   *slog.Logger
	failures atomic.Uint64
	warnOnce sync.Once
}

// Safe wraps tracer. Failures are reported through logger, which may be
// nil to discard them. A nil tracer is treated as Discard.
func Safe(tracer Tracer, logger *slog.Logger) *SafeTracer {
	if tracer == nil {
		tracer = Discard
	}
	return &SafeTracer{tracer: tracer, logger: logger}
}

// Emit passes record to the wrapped tracer, swallowing errors and
// panics.
func (s *SafeTracer) Emit(record Record) {
	defer func() {
		if recovered := recover(); recovered != nil {
			s.fail(fmt.Errorf("tracer panicked: %v", recovered))
		}
	}()
	if err := s.tracer.Trace(record); err != nil {
		s.fail(err)
	}
}

// Failures returns how many records the wrapped tracer failed to accept.
func (s *SafeTracer) Failures() uint64 { return s.failures.Load() }

func (s *SafeTracer) fail(err error) {
	s.failures.Add(1)
	if s.logger == nil {
		return
	}
	s.warnOnce.Do(func() {
		s.logger.Warn("filesystem trace failed, further failures are not logged", "error", err)
	})
}

// stamp fills Seq and Time on records passing through a stream tracer.
type stamp struct {
	clock clock.Clock
	seq   uint64
}

func (s *stamp) apply(record *Record) {
	s.seq++
	record.Seq = s.seq
	if record.Time.IsZero() {
		record.Time = s.clock.Now()
	}
}
