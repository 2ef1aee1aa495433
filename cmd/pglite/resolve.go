// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/pglite/lib/vroot"
)

func resolveCmd(args []string, stdout, stderr io.Writer) error {
	var database string
	var strict bool
	flagSet := pflag.NewFlagSet("pglite resolve", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&database, "database", "d", "", "data directory (virtual root)")
	flagSet.BoolVar(&strict, "strict", false, "reject paths that leave the data directory")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagSet.NArg() == 0 {
		return errors.New("resolve: at least one path is required")
	}

	root, err := vroot.New(database)
	if err != nil {
		return fmt.Errorf("--database: %w", err)
	}

	escaped := 0
	for _, relative := range flagSet.Args() {
		if !strict {
			path := root.Resolve(relative)
			fmt.Fprintln(stdout, path.String())
			path.Release()
			continue
		}
		path, err := root.Contain(relative)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v (%s)\n", relative, err, path.String())
			escaped++
		} else {
			fmt.Fprintln(stdout, path.String())
		}
		path.Release()
	}

	if escaped > 0 {
		return fmt.Errorf("%d of %d paths escape %s", escaped, flagSet.NArg(), root)
	}
	return nil
}
