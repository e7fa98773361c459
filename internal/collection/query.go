package collection

import (
	"maps"
	"strings"
)

// All is the select-box value meaning "no constraint".
const All = "all"

// Filters maps a filter key to its current value.
type Filters map[string]string

// IsDefault reports whether value leaves its filter unconstrained.
func IsDefault(value string) bool {
	return strings.TrimSpace(value) == "" || value == All
}

// Clone returns an independent copy.
func (f Filters) Clone() Filters {
	if f == nil {
		return Filters{}
	}
	return maps.Clone(f)
}

// With returns a copy of f with key set to value.
func (f Filters) With(key, value string) Filters {
	out := f.Clone()
	out[key] = value
	return out
}

// Active returns only the keys that constrain the result.
func (f Filters) Active() Filters {
	out := Filters{}
	for k, v := range f {
		if !IsDefault(v) {
			out[k] = v
		}
	}
	return out
}

// Equal reports whether both sets constrain the same keys to the same values.
func (f Filters) Equal(other Filters) bool {
	return maps.Equal(f.Active(), other.Active())
}
