package config

import "fmt"

// ParseError reports an explicit configuration value that could not be
// converted to its target type.
type ParseError struct {
	Key   string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: %v", e.Value, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
