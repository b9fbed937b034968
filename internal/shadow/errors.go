package shadow

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSearchPath means the raw search path was missing or empty.
	ErrNoSearchPath = errors.New("search path is not set or empty")
	// ErrNoSeparator means no path list separator was supplied.
	ErrNoSeparator = errors.New("path list separator is not set")
)

// ConfigurationError is fatal for a run: there is nothing meaningful to scan.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error (%s): %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
