// Package xlog provides a verbosity-gated wrapper around the standard
// library logger, in the idiom of finove/fsp's Session.verbose.
package xlog

import (
	"io"
	"log"
)

// Logger gates log.Logger output behind a verbosity level.
type Logger struct {
	level int
	std   *log.Logger
}

// New returns a Logger that writes to w. Calls at or below level are emitted.
func New(w io.Writer, level int) *Logger {
	return &Logger{level: level, std: log.New(w, "", log.LstdFlags)}
}

// Default returns a Logger writing to the standard logger's default output
// at verbosity 0, for callers that do not need to configure logging.
func Default() *Logger {
	return &Logger{level: 0, std: log.Default()}
}

// V logs format/args when level is at or below the logger's threshold.
func (l *Logger) V(level int, format string, args ...any) {
	if l == nil || l.std == nil {
		return
	}
	if level > l.level {
		return
	}
	l.std.Printf(format, args...)
}

// SetLevel adjusts the verbosity threshold.
func (l *Logger) SetLevel(level int) {
	if l == nil {
		return
	}
	l.level = level
}
