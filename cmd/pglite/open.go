// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/pglite/lib/config"
	"github.com/bureau-foundation/pglite/lib/fstrace"
	"github.com/bureau-foundation/pglite/lib/host"
	"github.com/bureau-foundation/pglite/lib/sigmask"
)

type openFlags struct {
	database   string
	configPath string
	bootstrap  bool
	strict     bool
	signals    string
	trace      string
}

func openCmd(ctx context.Context, args []string, stderr io.Writer) error {
	var flags openFlags
	flagSet := pflag.NewFlagSet("pglite open", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&flags.database, "database", "d", "", "data directory (virtual root)")
	flagSet.StringVar(&flags.configPath, "config", "", "config file (default: $PGLITE_CONFIG)")
	flagSet.BoolVar(&flags.bootstrap, "bootstrap", false, "force bootstrap mode and create the cluster")
	flagSet.BoolVar(&flags.strict, "strict", false, "refuse engine paths that leave the data directory")
	flagSet.StringVar(&flags.signals, "signals", "", "signal masks: emulated or native")
	flagSet.StringVar(&flags.trace, "trace", "", "write a CBOR trace of filesystem calls to this file")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}

	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}
	applyOpenFlags(cfg, flagSet, flags)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	if debug, ok := debugLevel(); ok && debug < level {
		level = debug
	}
	logger := newLogger(stderr, level).With("command", "open", "data_dir", cfg.DataDir)

	capability, err := sigmask.ParseCapability(cfg.Signals)
	if err != nil {
		return err
	}

	if cfg.Bootstrap {
		if err := cfg.EnsureDataDir(); err != nil {
			return err
		}
	}

	options := host.Options{
		DataDir:           cfg.DataDir,
		Args:              append([]string{"pglite", "open"}, args...),
		Bootstrap:         cfg.Bootstrap,
		StrictContainment: cfg.StrictContainment(),
		Signals:           capability,
		Logger:            logger,
	}

	if cfg.Trace.File != "" {
		tracer, err := fstrace.NewFileTracer(cfg.Trace.File)
		if err != nil {
			return err
		}
		defer func() {
			if err := tracer.Close(); err != nil {
				logger.Error("closing trace file", "path", cfg.Trace.File, "error", err)
			}
		}()
		options.Tracer = tracer
	}

	connection, err := host.Open(ctx, host.ProbeEngine, options)
	if err != nil {
		return err
	}

	if cfg.Bootstrap {
		logger.Info("survived the bootstrap", "mode", connection.Mode().String())
	} else {
		logger.Info("opened data directory", "mode", connection.Mode().String())
	}
	if failures := connection.TraceFailures(); failures > 0 {
		logger.Warn("trace records were dropped", "count", failures)
	}
	return nil
}

// loadConfig loads path, or the file named by PGLITE_CONFIG when path is
// empty. With neither, the defaults are used and flags must supply the
// data directory.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	if os.Getenv("PGLITE_CONFIG") != "" {
		return config.Load()
	}
	return config.Default(), nil
}

func applyOpenFlags(cfg *config.Config, flagSet *pflag.FlagSet, flags openFlags) {
	if flagSet.Changed("database") {
		cfg.DataDir = flags.database
	}
	if flagSet.Changed("bootstrap") {
		cfg.Bootstrap = flags.bootstrap
	}
	if flagSet.Changed("strict") {
		if flags.strict {
			cfg.Containment = config.Strict
		} else {
			cfg.Containment = config.Relay
		}
	}
	if flagSet.Changed("signals") {
		cfg.Signals = flags.signals
	}
	if flagSet.Changed("trace") {
		cfg.Trace.File = flags.trace
	}
}
