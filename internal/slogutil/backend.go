// Package slogutil wires a single decred/slog backend shared by every
// subsystem package, mirroring the per-package "log.go" convention used
// throughout exccd (backendLog.Logger("XXXX")).
package slogutil

import (
	"os"

	"github.com/decred/slog"
)

// backendLog is the process-wide log backend. Subsystems obtain a
// leveled, tagged logger from it instead of constructing their own.
var backendLog = slog.NewBackend(os.Stdout)

// NewSubsystemLogger returns a logger tagged with the given four-letter
// subsystem code (e.g. "CRYP", "CHAN", "PEER") at the default info level.
func NewSubsystemLogger(tag string) slog.Logger {
	l := backendLog.Logger(tag)
	l.SetLevel(slog.LevelInfo)
	return l
}

// SetLevel adjusts the level of every logger previously vended by this
// backend that shares the given tag. Subsystems call this indirectly
// through their own UseLogger-style setter; kept here so the host CLI
// (out of scope) has a single place to wire verbosity flags into.
func SetLevel(tag string, level slog.Level) {
	backendLog.Logger(tag).SetLevel(level)
}
