package remote

import "github.com/decred/slog"

// log is a package level logger. It defaults to a no-op until the caller
// requests logging via UseLogger.
var log = slog.Disabled

// UseLogger sets the package logger. This must be called before logging
// output is produced.
func UseLogger(l slog.Logger) {
	log = l
}
