// Package log provides the small logging facade used by the extraction
// and scoring pipelines.
package log

import (
	"github.com/kataras/golog"
)

// Logger is the printf-style interface pipelines log through.
type Logger interface {
	Debug(format string, v ...any)
	Info(format string, v ...any)
	Warn(format string, v ...any)
	Error(format string, v ...any)
}

// GologLogger implements Logger on top of kataras/golog.
type GologLogger struct {
	logger *golog.Logger
}

var _ Logger = (*GologLogger)(nil)

// New creates a golog-backed logger at the given level
// ("debug", "info", "warn", "error" or "disable").
func New(level string) *GologLogger {
	l := golog.New()
	l.SetLevel(level)
	return &GologLogger{logger: l}
}

// Debug logs debug messages.
func (l *GologLogger) Debug(format string, v ...any) {
	l.logger.Debugf(format, v...)
}

// Info logs informational messages.
func (l *GologLogger) Info(format string, v ...any) {
	l.logger.Infof(format, v...)
}

// Warn logs warning messages.
func (l *GologLogger) Warn(format string, v ...any) {
	l.logger.Warnf(format, v...)
}

// Error logs error messages.
func (l *GologLogger) Error(format string, v ...any) {
	l.logger.Errorf(format, v...)
}

// NoOpLogger discards everything. Useful in tests.
type NoOpLogger struct{}

var _ Logger = (*NoOpLogger)(nil)

// Debug does nothing.
func (NoOpLogger) Debug(format string, v ...any) {}

// Info does nothing.
func (NoOpLogger) Info(format string, v ...any) {}

// Warn does nothing.
func (NoOpLogger) Warn(format string, v ...any) {}

// Error does nothing.
func (NoOpLogger) Error(format string, v ...any) {}
