package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"

	"github.com/mara/opsdesk/internal/remote"
	"github.com/mara/opsdesk/internal/service"
)

// logWriter implements an io.Writer that outputs to the write-end pipe of
// an initialized log rotator.
type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	if logRotator == nil {
		return len(p), nil
	}
	return logRotator.Write(p)
}

// Loggers per subsystem. A single backend logger is created and all
// subsystem loggers created from it will write to the backend.
//
// Loggers can not be used before the log rotator has been initialized
// with a log file. This is performed early during application startup by
// calling initLogRotator.
var (
	backendLog = slog.NewBackend(logWriter{})

	// logRotator is the logging output. It should be closed on
	// application shutdown.
	logRotator *rotator.Rotator

	appLog     = backendLog.Logger("APPL")
	serviceLog = backendLog.Logger("SRVC")
	remoteLog  = backendLog.Logger("REMO")
)

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]slog.Logger{
	"APPL": appLog,
	"SRVC": serviceLog,
	"REMO": remoteLog,
}

func init() {
	service.UseLogger(serviceLog)
	remote.UseLogger(remoteLog)
}

// initLogRotator initializes the logging rotator to write logs to logFile
// and create roll files in the same directory. It must be called before
// the package-global log rotator variables are used.
func initLogRotator(logFile string) error {
	logDir, _ := filepath.Split(logFile)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %w", err)
	}

	logRotator = r
	return nil
}

// setLogLevels sets the log level for all subsystem loggers to the passed
// level. Invalid levels default to info.
func setLogLevels(logLevel string) {
	level, _ := slog.LevelFromString(logLevel)
	for _, logger := range subsystemLoggers {
		logger.SetLevel(level)
	}
}

// closeLogRotator flushes and closes the log file on shutdown.
func closeLogRotator() {
	if logRotator != nil {
		logRotator.Close()
	}
}
