package core

import "fmt"

// DataSourceError reports a dataset that cannot be used at all: the file is
// missing or unreadable, required columns are absent, or most prices fail to parse.
type DataSourceError struct {
	Path    string
	Message string
	Cause   error
}

func (e *DataSourceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("data source %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("data source %s: %s", e.Path, e.Message)
}

func (e *DataSourceError) Unwrap() error { return e.Cause }

// ValidationError reports invalid user input such as a bad threshold,
// inverted range or malformed pattern.
type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// GenerationError reports an export that could not be produced.
type GenerationError struct {
	Format  string
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generate %s: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("generate %s: %s", e.Format, e.Message)
}

func (e *GenerationError) Unwrap() error { return e.Cause }

// NewValidationError is a shorthand for the common no-cause case.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
