// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/pglite/lib/fstrace"
)

func traceCmd(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 || args[0] != "show" {
		return errors.New("usage: pglite trace show [--diag] FILE")
	}

	var diagnostic bool
	flagSet := pflag.NewFlagSet("pglite trace show", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.BoolVar(&diagnostic, "diag", false, "print raw CBOR diagnostic notation")
	if err := flagSet.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagSet.NArg() != 1 {
		return errors.New("trace show: exactly one file is required")
	}
	path := flagSet.Arg(0)

	if diagnostic {
		items, err := fstrace.DiagnoseFile(path)
		for _, item := range items {
			fmt.Fprintln(stdout, item)
		}
		if err != nil {
			return fmt.Errorf("trace show: %w", err)
		}
		return nil
	}

	records, err := fstrace.OpenFile(path)
	for _, record := range records {
		fmt.Fprintf(stdout, "%6d %s %s\n", record.Seq, record.Time.UTC().Format(time.RFC3339Nano), record)
	}
	if err != nil {
		return fmt.Errorf("trace show: %w", err)
	}
	return nil
}
