package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrInvalidColor indicates a color value could not be parsed.
	ErrInvalidColor = errors.New("invalid color")

	// ErrValidationFailed indicates a setting has an unusable value.
	ErrValidationFailed = errors.New("validation failed")
)

// SettingError reports a problem with a single setting.
type SettingError struct {
	// Path is the dot-separated setting path.
	Path string
	// Value is the offending value.
	Value any
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *SettingError) Error() string {
	return fmt.Sprintf("setting %s = %v: %v", e.Path, e.Value, e.Err)
}

// Unwrap returns the underlying error.
func (e *SettingError) Unwrap() error {
	return e.Err
}
