// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fstrace

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/pglite/lib/clock"
	"github.com/bureau-foundation/pglite/lib/elog"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestSlogTracer(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buffer, &slog.HandlerOptions{Level: elog.LevelTrace}))

	if err := NewSlogTracer(logger).Trace(Record{Op: OpStat, Path: "/data/base"}); err != nil {
		t.Fatalf("Trace: %v", err)
	}

	var logged map[string]any
	if err := json.Unmarshal(buffer.Bytes(), &logged); err != nil {
		t.Fatalf("decoding log line %q: %v", buffer.String(), err)
	}
	if logged["msg"] != OpStat || logged["path"] != "/data/base" {
		t.Errorf("logged %v", logged)
	}
}

func TestSlogTracerBelowDebug(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buffer, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if err := NewSlogTracer(logger).Trace(Record{Op: OpOpen, Path: "/data/x"}); err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if buffer.Len() != 0 {
		t.Errorf("trace record visible at debug level: %q", buffer.String())
	}
}

func TestStreamTracerRoundTrip(t *testing.T) {
	t.Parallel()

	fake := clock.Fake(epoch)
	var buffer bytes.Buffer
	tracer := NewStreamTracer(&buffer, WithClock(fake))

	inputs := []Record{
		{Op: OpMkdir, Path: "/data/base"},
		{Op: OpStat, Path: "/data/base"},
		{Op: OpOpen, Path: "/data/PG_VERSION"},
	}
	for _, record := range inputs {
		if err := tracer.Trace(record); err != nil {
			t.Fatalf("Trace(%v): %v", record, err)
		}
		fake.Advance(time.Millisecond)
	}
	if err := tracer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	records, err := ReadAll(&buffer)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != len(inputs) {
		t.Fatalf("got %d records, want %d", len(records), len(inputs))
	}
	for index, record := range records {
		if record.Seq != uint64(index+1) {
			t.Errorf("record %d: Seq = %d", index, record.Seq)
		}
		if record.Op != inputs[index].Op || record.Path != inputs[index].Path {
			t.Errorf("record %d = %v, want %v", index, record, inputs[index])
		}
		want := epoch.Add(time.Duration(index) * time.Millisecond)
		if !record.Time.Equal(want) {
			t.Errorf("record %d: Time = %v, want %v", index, record.Time, want)
		}
	}
}

func TestStreamTracerClosed(t *testing.T) {
	t.Parallel()

	tracer := NewStreamTracer(&bytes.Buffer{})
	if err := tracer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := tracer.Trace(Record{Op: OpStat}); !errors.Is(err, ErrClosed) {
		t.Errorf("Trace after Close = %v, want ErrClosed", err)
	}
	if err := tracer.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestFileTracer(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"trace.cbor", "trace.cbor.zst"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), name)
			tracer, err := NewFileTracer(path, WithClock(clock.Fake(epoch)))
			if err != nil {
				t.Fatalf("NewFileTracer: %v", err)
			}
			for index := range 100 {
				record := Record{Op: OpOpen, Path: "/data/base/1/" + strings.Repeat("x", index)}
				if err := tracer.Trace(record); err != nil {
					t.Fatalf("Trace: %v", err)
				}
			}
			if err := tracer.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}

			records, err := OpenFile(path)
			if err != nil {
				t.Fatalf("OpenFile: %v", err)
			}
			if len(records) != 100 {
				t.Fatalf("got %d records, want 100", len(records))
			}
			if records[99].Seq != 100 || len(records[99].Path) != len("/data/base/1/")+99 {
				t.Errorf("last record = %+v", records[99])
			}

			items, err := DiagnoseFile(path)
			if err != nil {
				t.Fatalf("DiagnoseFile: %v", err)
			}
			if len(items) != 100 {
				t.Fatalf("got %d diagnostic items, want 100", len(items))
			}
			if !strings.Contains(items[0], `"op": "pglite_open"`) || !strings.Contains(items[0], `"seq": 1`) {
				t.Errorf("first item = %s", items[0])
			}
		})
	}
}

func TestMulti(t *testing.T) {
	t.Parallel()

	var seen []string
	collect := TracerFunc(func(record Record) error {
		seen = append(seen, record.Path)
		return nil
	})
	broken := TracerFunc(func(Record) error { return errors.New("sink full") })

	err := Multi(broken, collect, broken).Trace(Record{Op: OpStat, Path: "/data/a"})
	if err == nil || !strings.Contains(err.Error(), "sink full") {
		t.Errorf("Multi error = %v, want joined sink errors", err)
	}
	if len(seen) != 1 || seen[0] != "/data/a" {
		t.Errorf("collecting tracer saw %v", seen)
	}
}

func TestSafeSwallowsFailures(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buffer, nil))

	tests := []struct {
		name   string
		tracer Tracer
	}{
		{"error", TracerFunc(func(Record) error { return errors.New("disk full") })},
		{"panic", TracerFunc(func(Record) error { panic("nil sink") })},
	}
	for _, test := range tests {
		safe := Safe(test.tracer, logger)
		for range 3 {
			safe.Emit(Record{Op: OpMkdir, Path: "/data/base"})
		}
		if safe.Failures() != 3 {
			t.Errorf("%s: Failures() = %d, want 3", test.name, safe.Failures())
		}
	}

	if count := strings.Count(buffer.String(), "filesystem trace failed"); count != 2 {
		t.Errorf("warned %d times, want once per tracer (2):\n%s", count, buffer.String())
	}
}

func TestSafeNilTracer(t *testing.T) {
	t.Parallel()

	safe := Safe(nil, nil)
	safe.Emit(Record{Op: OpOpen, Path: "/data/x"})
	if safe.Failures() != 0 {
		t.Errorf("Failures() = %d for discard tracer", safe.Failures())
	}
}
