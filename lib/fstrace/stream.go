// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fstrace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/bureau-foundation/pglite/lib/clock"
	"github.com/bureau-foundation/pglite/lib/codec"
)

// ErrClosed is returned by StreamTracer.Trace after Close.
var ErrClosed = errors.New("trace stream closed")

// StreamOption configures a StreamTracer.
type StreamOption func(*StreamTracer)

// WithClock sets the clock used to timestamp records. Defaults to
// clock.Real().
func WithClock(c clock.Clock) StreamOption {
	return func(t *StreamTracer) { t.stamp.clock = c }
}

// StreamTracer writes records to an io.Writer as a CBOR sequence. Safe
// for concurrent use.
type StreamTracer struct {
	mu      sync.Mutex
	encoder *codec.Encoder
	stamp   stamp
	closers []io.Closer
	closed  bool
}

// NewStreamTracer returns a tracer encoding to w. Closing the tracer does
// not close w.
func NewStreamTracer(w io.Writer, options ...StreamOption) *StreamTracer {
	tracer := &StreamTracer{
		encoder: codec.NewEncoder(w),
		stamp:   stamp{clock: clock.Real()},
	}
	for _, option := range options {
		option(tracer)
	}
	return tracer
}

// NewFileTracer creates (or truncates) path and returns a tracer writing
// to it. A ".zst" suffix selects zstd compression. The file is closed by
// StreamTracer.Close.
func NewFileTracer(path string, options ...StreamOption) (*StreamTracer, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o640)
	if err != nil {
		return nil, fmt.Errorf("creating trace file: %w", err)
	}

	buffered := bufio.NewWriter(file)
	closers := []io.Closer{flushCloser{buffered}, file}
	var w io.Writer = buffered

	if strings.HasSuffix(path, ".zst") {
		compressor, err := zstd.NewWriter(buffered, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("creating zstd writer for %s: %w", path, err)
		}
		closers = append([]io.Closer{compressor}, closers...)
		w = compressor
	}

	tracer := NewStreamTracer(w, options...)
	tracer.closers = closers
	return tracer, nil
}

// Trace implements Tracer.
func (t *StreamTracer) Trace(record Record) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	t.stamp.apply(&record)
	if err := t.encoder.Encode(record); err != nil {
		return fmt.Errorf("encoding trace record %d: %w", record.Seq, err)
	}
	return nil
}

// Close flushes and releases everything NewFileTracer opened. Further
// Trace calls return ErrClosed.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true

	var errs []error
	for _, closer := range t.closers {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type flushCloser struct {
	writer *bufio.Writer
}

func (f flushCloser) Close() error { return f.writer.Flush() }

// ReadAll decodes every record in a CBOR trace sequence.
func ReadAll(r io.Reader) ([]Record, error) {
	decoder := codec.NewDecoder(r)
	var records []Record
	for {
		var record Record
		err := decoder.Decode(&record)
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, fmt.Errorf("decoding trace record %d: %w", len(records)+1, err)
		}
		records = append(records, record)
	}
}

// OpenFile reads a trace file written by NewFileTracer, decompressing it
// when the name ends in ".zst".
func OpenFile(path string) ([]Record, error) {
	var records []Record
	err := readFile(path, func(r io.Reader) error {
		var err error
		records, err = ReadAll(r)
		return err
	})
	return records, err
}

// DiagnoseFile returns the CBOR diagnostic notation of every item in a
// trace file, one string per record. It does not decode into Record, so
// it shows fields a newer writer added.
func DiagnoseFile(path string) ([]string, error) {
	var items []string
	err := readFile(path, func(r io.Reader) error {
		data, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("reading trace file: %w", err)
		}
		for len(data) > 0 {
			var item string
			item, data, err = codec.DiagnoseFirst(data)
			if err != nil {
				return fmt.Errorf("diagnosing trace record %d: %w", len(items)+1, err)
			}
			items = append(items, item)
		}
		return nil
	})
	return items, err
}

func readFile(path string, read func(io.Reader) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening trace file: %w", err)
	}
	defer file.Close()

	var r io.Reader = bufio.NewReader(file)
	if strings.HasSuffix(path, ".zst") {
		decompressor, err := zstd.NewReader(r)
		if err != nil {
			return fmt.Errorf("creating zstd reader for %s: %w", path, err)
		}
		defer decompressor.Close()
		r = decompressor
	}
	return read(r)
}
