package geometry

import "fmt"

// ConfigurationError reports invalid input detected before any per-pixel
// computation starts. A call that returns one produced no partial output.
type ConfigurationError struct {
	Operation string
	Err       error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration in %s: %v", e.Operation, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
