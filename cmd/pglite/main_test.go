// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/pglite/lib/host"
	"github.com/bureau-foundation/pglite/lib/testutil"
)

func runCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err = run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestRun_NoCommand(t *testing.T) {
	_, stderr, err := runCommand(t)
	if err == nil {
		t.Fatal("expected error with no command")
	}
	if !strings.Contains(stderr, "USAGE") {
		t.Errorf("usage not printed: %q", stderr)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	_, _, err := runCommand(t, "vacuum")
	if err == nil || !strings.Contains(err.Error(), `"vacuum"`) {
		t.Errorf("error = %v, want unknown command", err)
	}
}

func TestRun_Version(t *testing.T) {
	stdout, _, err := runCommand(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(stdout, "pglite ") || !strings.Contains(stdout, "Catalog: 17") {
		t.Errorf("unexpected version output %q", stdout)
	}
}

func TestOpen_BootstrapThenStart(t *testing.T) {
	t.Setenv("PGLITE_CONFIG", "")
	t.Setenv("PGLITE_DEBUG", "")

	database := filepath.Join(testutil.VirtualRoot(t), "cluster")
	tracePath := filepath.Join(t.TempDir(), "startup.cbor.zst")

	_, stderr, err := runCommand(t, "open", "--database", database, "--bootstrap", "--trace", tracePath)
	if err != nil {
		t.Fatalf("open --bootstrap: %v\n%s", err, stderr)
	}
	if !strings.Contains(stderr, "survived the bootstrap") {
		t.Errorf("bootstrap log missing:\n%s", stderr)
	}
	if _, err := os.Stat(filepath.Join(database, "PG_VERSION")); err != nil {
		t.Errorf("PG_VERSION not created: %v", err)
	}

	stdout, _, err := runCommand(t, "trace", "show", tracePath)
	if err != nil {
		t.Fatalf("trace show: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != len(host.ClusterDirs)+2 {
		t.Fatalf("trace show printed %d lines, want %d:\n%s", len(lines), len(host.ClusterDirs)+2, stdout)
	}
	if !strings.HasSuffix(lines[0], "pglite_mkdir: "+database+"/global") {
		t.Errorf("first trace line = %q", lines[0])
	}
	if !strings.HasPrefix(strings.TrimSpace(lines[0]), "1 ") {
		t.Errorf("first trace line not numbered 1: %q", lines[0])
	}

	stdout, _, err = runCommand(t, "trace", "show", "--diag", tracePath)
	if err != nil {
		t.Fatalf("trace show --diag: %v", err)
	}
	if strings.Count(stdout, `"op": "pglite_mkdir"`) != len(host.ClusterDirs) {
		t.Errorf("diagnostic output lacks mkdir records:\n%s", stdout)
	}

	_, stderr, err = runCommand(t, "open", "--database", database)
	if err != nil {
		t.Fatalf("open: %v\n%s", err, stderr)
	}
	if !strings.Contains(stderr, "opened data directory") {
		t.Errorf("open log missing:\n%s", stderr)
	}
}

func TestOpen_Uninitialized(t *testing.T) {
	t.Setenv("PGLITE_CONFIG", "")

	_, _, err := runCommand(t, "open", "--database", testutil.VirtualRoot(t))
	if !errors.Is(err, host.ErrNotInitialized) {
		t.Errorf("error = %v, want ErrNotInitialized", err)
	}
}

func TestOpen_RequiresDatabase(t *testing.T) {
	t.Setenv("PGLITE_CONFIG", "")

	_, _, err := runCommand(t, "open")
	if err == nil || !strings.Contains(err.Error(), "data_dir is required") {
		t.Errorf("error = %v, want missing data_dir", err)
	}
}

func TestOpen_ConfigFileWithFlagOverride(t *testing.T) {
	t.Setenv("PGLITE_CONFIG", "")

	database := testutil.VirtualRoot(t)
	configPath := filepath.Join(t.TempDir(), "pglite.yaml")
	content := "data_dir: " + filepath.Join(t.TempDir(), "unused") + "\nsignals: emulated\nbootstrap: false\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	_, stderr, err := runCommand(t, "open", "--config", configPath, "--database", database, "--bootstrap", "--strict")
	if err != nil {
		t.Fatalf("open: %v\n%s", err, stderr)
	}
	if _, err := os.Stat(filepath.Join(database, "global")); err != nil {
		t.Errorf("flags did not override the config file: %v", err)
	}
}

func TestOpen_RejectsBadSignals(t *testing.T) {
	t.Setenv("PGLITE_CONFIG", "")

	_, _, err := runCommand(t, "open", "--database", testutil.VirtualRoot(t), "--signals", "realtime")
	if err == nil || !strings.Contains(err.Error(), "signals must be one of") {
		t.Errorf("error = %v, want signals validation error", err)
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCommand(t, "resolve", "--database", "/srv/pgdata", "base/1", "../escape")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if want := "/srv/pgdata/base/1\n/srv/pgdata/../escape\n"; stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestResolve_Strict(t *testing.T) {
	t.Parallel()

	stdout, stderr, err := runCommand(t, "resolve", "--database", "/srv/pgdata", "--strict", "base/./1", "../escape")
	if err == nil || !strings.Contains(err.Error(), "1 of 2 paths escape") {
		t.Errorf("error = %v, want escape count", err)
	}
	if stdout != "/srv/pgdata/base/./1\n" {
		t.Errorf("stdout = %q", stdout)
	}
	if !strings.Contains(stderr, "../escape") {
		t.Errorf("stderr does not name the escaping path: %q", stderr)
	}
}

func TestResolve_Errors(t *testing.T) {
	t.Parallel()

	if _, _, err := runCommand(t, "resolve", "--database", "/srv/pgdata"); err == nil {
		t.Error("expected error without paths")
	}
	if _, _, err := runCommand(t, "resolve", "--database", "relative", "base"); err == nil {
		t.Error("expected error for relative database")
	}
}

func TestTrace_Usage(t *testing.T) {
	t.Parallel()

	if _, _, err := runCommand(t, "trace"); err == nil {
		t.Error("expected usage error")
	}
	if _, _, err := runCommand(t, "trace", "show", filepath.Join(t.TempDir(), "missing.cbor")); err == nil {
		t.Error("expected error for missing file")
	}
}
