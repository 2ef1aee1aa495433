// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/bureau-foundation/pglite/lib/elog"
	"github.com/bureau-foundation/pglite/lib/host"
	"github.com/bureau-foundation/pglite/lib/process"
	"github.com/bureau-foundation/pglite/lib/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		process.Fatal(err)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		printUsage(stderr)
		return fmt.Errorf("no command given")
	}

	command, args := args[0], args[1:]
	switch command {
	case "open":
		return openCmd(ctx, args, stderr)
	case "resolve":
		return resolveCmd(args, stdout, stderr)
	case "trace":
		return traceCmd(args, stdout, stderr)
	case "version", "--version", "-v":
		fmt.Fprintf(stdout, "pglite %s\n", version.Full(host.CatalogVersion))
		return nil
	case "help", "--help", "-h":
		printUsage(stdout)
		return nil
	default:
		printUsage(stderr)
		return fmt.Errorf("unknown command %q", command)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `pglite - run the embedded engine against a data directory

USAGE
    pglite <command> [flags]

COMMANDS
    open          Run engine startup against a data directory
    resolve       Print the paths engine-relative names resolve to
    trace show    Print a filesystem trace file (--diag for raw CBOR)
    version       Show version

EXAMPLES
    # Create a new cluster
    pglite open --database /srv/pgdata --bootstrap

    # Start an existing cluster, recording every filesystem call
    pglite open --database /srv/pgdata --trace /tmp/startup.cbor.zst
    pglite trace show /tmp/startup.cbor.zst

    # See where engine paths land under strict containment
    pglite resolve --database /srv/pgdata --strict base/1 ../escape

ENVIRONMENT
    PGLITE_CONFIG    Path to a pglite.yaml (or .jsonc) config file
    PGLITE_DEBUG     "1" for debug logging, "trace" for per-call shim records
`)
}

// newLogger returns a text logger when w is a terminal and a JSON logger
// otherwise, at level.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}
	if file, ok := w.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		return slog.New(slog.NewTextHandler(w, options))
	}
	return slog.New(slog.NewJSONHandler(w, options))
}

// debugLevel returns the level PGLITE_DEBUG asks for, if any.
func debugLevel() (slog.Level, bool) {
	switch os.Getenv("PGLITE_DEBUG") {
	case "":
		return slog.LevelInfo, false
	case "trace":
		return elog.LevelTrace, true
	default:
		return slog.LevelDebug, true
	}
}
