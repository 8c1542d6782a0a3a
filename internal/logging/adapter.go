package logging

import "log/slog"

// SlogAdapter bridges a *slog.Logger to the leveled key/value Logger
// interfaces used by lower-level packages (see k8s.Logger).
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates an adapter around the given logger. A nil logger
// falls back to slog.Default().
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

// Logger returns the underlying slog logger.
func (a *SlogAdapter) Logger() *slog.Logger {
	return a.logger
}

// Debug logs at debug level with alternating key/value args.
func (a *SlogAdapter) Debug(msg string, args ...interface{}) {
	a.logger.Debug(msg, args...)
}

// Info logs at info level with alternating key/value args.
func (a *SlogAdapter) Info(msg string, args ...interface{}) {
	a.logger.Info(msg, args...)
}

// Warn logs at warn level with alternating key/value args.
func (a *SlogAdapter) Warn(msg string, args ...interface{}) {
	a.logger.Warn(msg, args...)
}

// Error logs at error level with alternating key/value args.
func (a *SlogAdapter) Error(msg string, args ...interface{}) {
	a.logger.Error(msg, args...)
}
