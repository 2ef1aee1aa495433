// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source for trace records.
//
// Production code accepts a [Clock] instead of calling time.Now
// directly. [Real] returns the standard library behavior; [Fake] returns
// a clock that stands still until [FakeClock.Advance] is called, so
// tests can assert exact trace timestamps.
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	tracer := fstrace.NewStreamTracer(&buffer, fstrace.WithClock(c))
package clock
