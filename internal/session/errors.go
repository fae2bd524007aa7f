package session

import (
	"errors"
	"fmt"
)

// Process exit statuses. Anything the target application signals non-zero is
// reported as an application failure.
const (
	ExitOK             = 0
	ExitConfig         = 1
	ExitApplication    = 2
	ExitTargetNotFound = 3
)

// ConfigError reports a bad argument, an un-openable scenario or a missing
// entry point, detected before any capture or replay side effects.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return "configuration: " + e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

// AppError reports an error raised by the target application during its own
// execution.
type AppError struct {
	Err error
}

func (e *AppError) Error() string { return "application: " + e.Err.Error() }
func (e *AppError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by Session.Run to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ExitConfig
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ExitApplication
	}
	return ExitConfig
}

func configErrorf(format string, args ...any) error {
	return &ConfigError{Err: fmt.Errorf(format, args...)}
}
