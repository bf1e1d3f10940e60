package cloud

import (
	"errors"
	"fmt"
)

// Domain errors for cloud construction.
var (
	// ErrInvalidConfig indicates static configuration that cannot produce a cloud.
	ErrInvalidConfig = errors.New("cloud: invalid configuration")

	// ErrLengthMismatch indicates buffers that are not index-aligned.
	ErrLengthMismatch = errors.New("cloud: buffer length mismatch")

	// ErrEmptyText indicates a text silhouette request with nothing to draw.
	ErrEmptyText = errors.New("cloud: empty text")

	// ErrNoCandidates indicates a rasterized text with no lit pixels.
	ErrNoCandidates = errors.New("cloud: text produced no candidate points")

	// ErrSamplingStall indicates rejection sampling hit its attempt cap.
	ErrSamplingStall = errors.New("cloud: rejection sampling exceeded attempt cap")
)

// ConfigError wraps an invalid configuration value with its field name.
type ConfigError struct {
	Field   string
	Value   any
	Wrapped error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s = %v", e.Wrapped.Error(), e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}

// InvalidConfig builds a ConfigError wrapping ErrInvalidConfig.
func InvalidConfig(field string, value any) error {
	return &ConfigError{Field: field, Value: value, Wrapped: ErrInvalidConfig}
}
