package planner

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPath indicates the path can't be planned on.
	ErrInvalidPath = errors.New("invalid path")
	// ErrInvalidLeadState indicates the lead car state is unusable for following.
	ErrInvalidLeadState = errors.New("invalid lead car state")
	// ErrInvalidSpeed indicates a negative or non-finite speed input.
	ErrInvalidSpeed = errors.New("invalid speed")
)

// PathError describes why a path is invalid.
type PathError struct {
	Reason string
	Index  int
}

// Error implements error.
func (e *PathError) Error() string {
	return fmt.Sprintf("invalid path: %s (at %d)", e.Reason, e.Index)
}

// Unwrap allows errors.Is(err, ErrInvalidPath).
func (e *PathError) Unwrap() error {
	return ErrInvalidPath
}

// ConfigError reports an out-of-range configuration value.
type ConfigError struct {
	Field  string
	Value  float64
	Reason string
}

// Error implements error.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s=%v: %s", e.Field, e.Value, e.Reason)
}
