package usecases

import "fmt"

// ConfigError aborts a run before any network call. Status is an
// HTTP-status-like code surfaced to trigger callers.
type ConfigError struct {
	Status  int
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

func newConfigError(status int, format string, args ...any) *ConfigError {
	return &ConfigError{Status: status, Message: fmt.Sprintf(format, args...)}
}
