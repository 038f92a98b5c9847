package logging

// Logger is the observability port injected into every component. Pipeline
// stages emit structured events through it instead of a process-global
// logger, so they stay independently testable.
type Logger interface {
	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
	With(keysAndValues ...any) Logger
}

type nopLogger struct{}

func (nopLogger) Debugw(string, ...any) {}
func (nopLogger) Infow(string, ...any)  {}
func (nopLogger) Warnw(string, ...any)  {}
func (nopLogger) Errorw(string, ...any) {}
func (n nopLogger) With(...any) Logger  { return n }

// NewNop returns a logger that discards everything.
func NewNop() Logger {
	return nopLogger{}
}
