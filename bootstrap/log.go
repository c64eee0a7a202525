package bootstrap

import (
	"github.com/decred/slog"
	"github.com/purplecoin/pcore/internal/slogutil"
)

// log is the subsystem logger for the bootstrap cache, following the
// per-package logger convention used across this module.
var log = slogutil.NewSubsystemLogger("BTST")

// UseLogger sets the package-wide logger used by this package.
func UseLogger(logger slog.Logger) {
	log = logger
}
