// Package log installs the process-wide slog logger and recovers panics.
package log

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	charmlog "github.com/charmbracelet/log"

	"simdscan/internal/logging"
)

var (
	initOnce    sync.Once
	initialized atomic.Bool
	current     *logging.LoggerCloser
)

// Setup routes slog through the charmbracelet logger configured by the
// SIMDSCAN_LOG_* variables. The debug flag raises the level to debug.
// Only the first call has an effect.
func Setup(debugFlag bool) *logging.LoggerCloser {
	initOnce.Do(func() {
		opts, debug := options(debugFlag)
		lc, err := logging.NewLogger(opts)
		lc.SetReportCaller(debug)
		slog.SetDefault(slog.New(lc.Logger))
		if err != nil {
			slog.Warn("Logging to stderr", "error", err)
		} else if lc.Path() != "" {
			slog.Debug("Logging to file", "path", lc.Path())
		}
		current = lc
		initialized.Store(true)
	})
	return current
}

// options merges the debug flag with the environment. Debug output, from
// either source, also reports the caller.
func options(debugFlag bool) (logging.Options, bool) {
	opts := logging.OptionsFromEnv()
	debug := debugFlag || logging.IsDebug()
	if debug {
		opts.Level = charmlog.DebugLevel
	}
	return opts, debug
}

func Initialized() bool {
	return initialized.Load()
}

// Close flushes and closes the log file opened by Setup.
func Close() error {
	if current == nil {
		return nil
	}
	return current.Close()
}

func RecoverPanic(name string, cleanup func()) {
	if r := recover(); r != nil {
		if Initialized() {
			slog.Error(fmt.Sprintf("Panic in %s", name),
				"panic", r,
				"stack", string(debug.Stack()))
		}
		if cleanup != nil {
			cleanup()
		}
	}
}
