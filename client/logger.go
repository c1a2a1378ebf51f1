package client

// Logger is an optional package logger used for warnings and progress.
type Logger interface {
	// Warnf logs a formatted warning message.
	Warnf(format string, args ...any)
	// Infof logs a formatted informational message.
	Infof(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any) {}
func (nopLogger) Infof(string, ...any) {}
