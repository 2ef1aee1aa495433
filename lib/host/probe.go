// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package host

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/bureau-foundation/pglite/lib/elog"
	"github.com/bureau-foundation/pglite/lib/procmode"
	"github.com/bureau-foundation/pglite/lib/sigmask"
)

// CatalogVersion is the major version ProbeEngine writes to PG_VERSION.
const CatalogVersion = 17

// ClusterDirs are the directories ProbeEngine creates during bootstrap,
// in creation order.
var ClusterDirs = []string{"global", "base", "base/1", "pg_wal", "pg_xact"}

// ErrNotInitialized is returned by ProbeEngine outside bootstrap mode
// when the data directory holds no PG_VERSION file.
var ErrNotInitialized = errors.New("data directory is not initialized")

// ProbeEngine is a stand-in engine exercising the linkage the way engine
// startup does. It reads the processing mode first. In bootstrap mode it
// creates the cluster skeleton and PG_VERSION; in any other mode it
// requires PG_VERSION to exist. Either way it then lists the data
// directory root and walks the signal masks through startup.
var ProbeEngine Engine = EngineFunc(probe)

func probe(env *Env) error {
	mode := env.Mode.Load()
	env.Report(elog.Report{
		Severity: elog.Debug1,
		Message:  "processing mode " + mode.String(),
		File:     "probe.go",
		Func:     "probe",
	})

	env.Signals.SetMask(sigmask.Fill())

	if mode == procmode.Bootstrap {
		env.Display.Set("bootstrap")
		if err := createCluster(env); err != nil {
			return err
		}
	} else {
		env.Display.Set("startup")
		var stat unix.Stat_t
		if _, err := env.FS.Stat("PG_VERSION", &stat); err != nil {
			if errors.Is(err, unix.ENOENT) {
				return ErrNotInitialized
			}
			return fmt.Errorf("stat PG_VERSION: %w", err)
		}
	}

	names, err := listRoot(env)
	if err != nil {
		return err
	}
	env.Report(elog.Report{
		Severity: elog.Log,
		Message:  fmt.Sprintf("data directory holds %d entries", len(names)),
		File:     "probe.go",
		Func:     "probe",
	})

	env.Signals.SetMask(sigmask.Empty())
	env.Display.Set("idle")
	return nil
}

func createCluster(env *Env) error {
	for _, dir := range ClusterDirs {
		if _, err := env.FS.Mkdir(dir, 0o700); err != nil && !errors.Is(err, unix.EEXIST) {
			return fmt.Errorf("creating directory %q: %w", dir, err)
		}
	}

	fd, err := env.FS.Open("PG_VERSION", unix.O_WRONLY|unix.O_CREAT|unix.O_TRUNC|unix.O_CLOEXEC, 0o600)
	if err != nil {
		return fmt.Errorf("creating PG_VERSION: %w", err)
	}
	_, writeErr := unix.Write(fd, []byte(strconv.Itoa(CatalogVersion)+"\n"))
	closeErr := unix.Close(fd)
	if writeErr != nil {
		return fmt.Errorf("writing PG_VERSION: %w", writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing PG_VERSION: %w", closeErr)
	}
	return nil
}

func listRoot(env *Env) ([]string, error) {
	dir, err := env.FS.OpenDir(".")
	if err != nil {
		return nil, fmt.Errorf("opening data directory: %w", err)
	}
	defer dir.Close()

	names, err := dir.ReadNames(-1)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("listing data directory: %w", err)
	}
	slices.Sort(names)
	return names, nil
}
