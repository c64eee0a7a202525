package crypto

import (
	"github.com/decred/slog"
	"github.com/purplecoin/pcore/internal/slogutil"
)

// log is the subsystem logger for the crypto facade, following the
// per-package logger convention used across this module.
var log = slogutil.NewSubsystemLogger("CRYP")

// UseLogger sets the package-wide logger used by this package.
// This allows a caller to specify its own logging subsystem.
func UseLogger(logger slog.Logger) {
	log = logger
}
