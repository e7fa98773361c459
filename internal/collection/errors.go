package collection

import "fmt"

// UnknownKeyError is returned under the Strict policy when a query names a
// filter or sort the view never registered.
type UnknownKeyError struct {
	Kind string // "filter" or "sort"
	Key  string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown %s key: %q", e.Kind, e.Key)
}

// PageSizeError is returned under the Strict policy for a page size below 1.
type PageSizeError struct {
	PerPage int
}

func (e *PageSizeError) Error() string {
	return fmt.Sprintf("items per page must be positive, got %d", e.PerPage)
}
