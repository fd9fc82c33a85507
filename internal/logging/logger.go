// Package logging builds the charmbracelet logger used by simdscan. It is
// configured from the environment and can write to a timestamped file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const defaultPrefix = "simdscan "

// Options is the logger configuration read from the environment.
type Options struct {
	Level  log.Level
	Prefix string
	// ToFile sends output to simdscan-<timestamp>-debug.log in Dir.
	ToFile bool
	Dir    string
}

// OptionsFromEnv reads
// SIMDSCAN_LOG_LEVEL: debug, info, warn, error (default: info)
// SIMDSCAN_LOG_PREFIX: prefix for log messages (default: "simdscan ")
// SIMDSCAN_LOG_TO_FILE: "1" logs to a timestamped file in the working directory
func OptionsFromEnv() Options {
	opts := Options{
		Level:  log.InfoLevel,
		Prefix: defaultPrefix,
		ToFile: os.Getenv("SIMDSCAN_LOG_TO_FILE") == "1",
	}
	if s := os.Getenv("SIMDSCAN_LOG_LEVEL"); s != "" {
		if lvl, err := log.ParseLevel(strings.ToLower(s)); err == nil {
			opts.Level = lvl
		}
	}
	if p := os.Getenv("SIMDSCAN_LOG_PREFIX"); p != "" {
		opts.Prefix = p
	}
	return opts
}

// LoggerCloser wraps a logger and closes its log file, if any.
type LoggerCloser struct {
	*log.Logger
	closer io.Closer
	path   string
}

// Close closes the underlying writer if it's closeable
func (lc *LoggerCloser) Close() error {
	if lc.closer != nil {
		return lc.closer.Close()
	}
	return nil
}

// Path is the log file in use, or "" when logging to a stream.
func (lc *LoggerCloser) Path() string {
	return lc.path
}

// NewLoggerWithWriter creates a logger writing to w.
func NewLoggerWithWriter(w io.Writer, opts Options) *LoggerCloser {
	lg := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           opts.Level,
		Prefix:          strings.TrimSpace(opts.Prefix),
	})

	var closer io.Closer
	if c, ok := w.(io.Closer); ok && w != os.Stderr && w != os.Stdout {
		closer = c
	}
	return &LoggerCloser{Logger: lg, closer: closer}
}

// NewLogger creates a logger from opts. When the log file cannot be created
// it falls back to stderr and returns the open error alongside the logger.
func NewLogger(opts Options) (*LoggerCloser, error) {
	if !opts.ToFile {
		return NewLoggerWithWriter(os.Stderr, opts), nil
	}

	name := fmt.Sprintf("simdscan-%s-debug.log", time.Now().Format("20060102-150405"))
	path := filepath.Join(opts.Dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return NewLoggerWithWriter(os.Stderr, opts), fmt.Errorf("open log file: %w", err)
	}
	lc := NewLoggerWithWriter(f, opts)
	lc.path = path
	return lc, nil
}

// IsDebug reports whether SIMDSCAN_LOG_LEVEL asks for debug output.
func IsDebug() bool {
	return strings.EqualFold(os.Getenv("SIMDSCAN_LOG_LEVEL"), "debug")
}
