package reactive

import (
	"log/slog"
	"sync/atomic"
)

// Debug holds development-time logging toggles. Set at startup; the
// flags are read on hot paths without synchronization.
var Debug struct {
	// LogEffects logs every effect run.
	LogEffects bool

	// LogFlushes logs every flush pass.
	LogFlushes bool
}

var debugLogger atomic.Pointer[slog.Logger]

// SetLogger replaces the logger used for debug output.
func SetLogger(l *slog.Logger) {
	debugLogger.Store(l)
}

func logger() *slog.Logger {
	if l := debugLogger.Load(); l != nil {
		return l
	}
	l := slog.Default().With("component", "reactive")
	debugLogger.Store(l)
	return l
}
