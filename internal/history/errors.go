package history

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned for an id that is not in the history.
	ErrNotFound = errors.New("history: record not found")
	// ErrNothingSelected is returned by bulk actions on an empty selection.
	ErrNothingSelected = errors.New("history: no records selected")
)

// ValidationError rejects a filter or page-size value the user typed.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Message)
}

// ExportError wraps a failed write to the export sink.
type ExportError struct {
	Filename string
	Cause    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Filename, e.Cause)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}
