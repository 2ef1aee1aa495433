// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package elog bridges the engine's error-reporting severities onto
// log/slog.
//
// The engine reports through its own severity scale (DEBUG5 through
// PANIC). [Level] maps each severity to a slog level, and [Emit] sends an
// engine [Report] through a *slog.Logger with the backend type, source
// location and originating function attached as attributes. Severities
// below LOG map to [LevelTrace], which sits below slog.LevelDebug, so a
// host running at debug level does not see per-syscall traces unless it
// asks for them explicitly.
package elog

import (
	"context"
	"fmt"
	"log/slog"
)

// Severity is an engine error-report level.
type Severity int

// Engine severities, numbered as the engine numbers them.
const (
	Debug5            Severity = 10
	Debug4            Severity = 11
	Debug3            Severity = 12
	Debug2            Severity = 13
	Debug1            Severity = 14
	Log               Severity = 15
	LogServerOnly     Severity = 16
	Info              Severity = 17
	Notice            Severity = 18
	Warning           Severity = 19
	WarningClientOnly Severity = 20
	Error             Severity = 21
	Fatal             Severity = 22
	Panic             Severity = 23
)

var severityNames = map[Severity]string{
	Debug5:            "DEBUG5",
	Debug4:            "DEBUG4",
	Debug3:            "DEBUG3",
	Debug2:            "DEBUG2",
	Debug1:            "DEBUG1",
	Log:               "LOG",
	LogServerOnly:     "LOG_SERVER_ONLY",
	Info:              "INFO",
	Notice:            "NOTICE",
	Warning:           "WARNING",
	WarningClientOnly: "WARNING_CLIENT_ONLY",
	Error:             "ERROR",
	Fatal:             "FATAL",
	Panic:             "PANIC",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SEVERITY(%d)", int(s))
}

// LevelTrace is the slog level for engine DEBUG1 through DEBUG5.
const LevelTrace = slog.LevelDebug - 4

// LevelDebug1 is the level shim trace records are emitted at. It is the
// same level as LevelTrace; the separate name documents intent at call
// sites.
const LevelDebug1 = LevelTrace

// Level maps an engine severity to a slog level. The boolean is false for
// severities the engine does not define, in which case the level is
// slog.LevelError.
func Level(severity Severity) (slog.Level, bool) {
	switch severity {
	case Debug1, Debug2, Debug3, Debug4, Debug5:
		return LevelTrace, true
	case Log, LogServerOnly:
		return slog.LevelDebug, true
	case Info, Notice:
		return slog.LevelInfo, true
	case Warning, WarningClientOnly:
		return slog.LevelWarn, true
	case Error, Fatal, Panic:
		return slog.LevelError, true
	default:
		return slog.LevelError, false
	}
}

// Report is one engine error report.
type Report struct {
	Severity Severity
	Message  string

	// Backend is the engine's backend type ("standalone backend",
	// "checkpointer", ...). Empty for raw reports.
	Backend string

	// Source location of the report. Zero values are omitted.
	File string
	Line int
	Func string
}

// Module returns the logical module a report originates from:
// "pglite::<func>", or "pglite" when the function is unknown.
func (r Report) Module() string {
	if r.Func == "" {
		return "pglite"
	}
	return "pglite::" + r.Func
}

// Emit emits report through logger at the level mapped from its severity.
func Emit(logger *slog.Logger, report Report) {
	level, known := Level(report.Severity)
	ctx := context.Background()
	if !logger.Enabled(ctx, level) {
		return
	}

	attrs := make([]slog.Attr, 0, 6)
	if report.Backend != "" {
		attrs = append(attrs, slog.String("backend", report.Backend))
	}
	attrs = append(attrs, slog.String("module", report.Module()))
	if report.File != "" {
		attrs = append(attrs, slog.String("file", report.File))
	}
	if report.Line > 0 {
		attrs = append(attrs, slog.Int("line", report.Line))
	}
	if !known {
		attrs = append(attrs, slog.Int("severity", int(report.Severity)))
	}
	logger.LogAttrs(ctx, level, report.Message, attrs...)
}
