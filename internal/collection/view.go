// Package collection derives the visible page of an in-memory record list.
//
// Every page of the dashboard runs the same fixed pipeline over its records:
// filter, then stable sort, then paginate. Pages register their own
// predicates and comparators on a View and keep the rest of the logic here.
package collection

import (
	"maps"
	"slices"
)

// DefaultPerPage is the page size used when a page does not pick one.
const DefaultPerPage = 25

// Predicate reports whether item satisfies the filter for the given value.
// It is only called for non-default values.
type Predicate[T any] func(item T, value string) bool

// Compare orders two items the way slices.SortStableFunc expects.
type Compare[T any] func(a, b T) int

// Policy decides what Derive does with keys nobody registered.
type Policy int

const (
	// Strict rejects unknown filter and sort keys with an *UnknownKeyError.
	Strict Policy = iota
	// Lenient ignores unknown filters and keeps collection order for an
	// unknown sort key.
	Lenient
)

// Query is the full input of one derivation besides the records themselves.
type Query struct {
	Filters Filters
	Sort    string
	Page    int
	PerPage int
}

// Result is what a page renders.
type Result[T any] struct {
	Visible       []T
	FilteredCount int
	// TotalPages is 0 when nothing matched; pagination is not rendered then.
	TotalPages int
	// Page is the page actually returned after clamping.
	Page int
}

// View holds the filter and sort strategies of one page.
type View[T any] struct {
	policy  Policy
	filters map[string]Predicate[T]
	sorts   map[string]Compare[T]
}

// NewView creates an empty view with the given policy.
func NewView[T any](policy Policy) *View[T] {
	return &View[T]{
		policy:  policy,
		filters: make(map[string]Predicate[T]),
		sorts:   make(map[string]Compare[T]),
	}
}

// Filter registers a predicate under key and returns the view for chaining.
func (v *View[T]) Filter(key string, pred Predicate[T]) *View[T] {
	v.filters[key] = pred
	return v
}

// Sort registers a comparator under key. Direction is part of the key:
// "date-desc" and "date-asc" are two registrations.
func (v *View[T]) Sort(key string, cmp Compare[T]) *View[T] {
	v.sorts[key] = cmp
	return v
}

// Policy returns the unknown-key policy of the view.
func (v *View[T]) Policy() Policy {
	return v.policy
}

// HasFilter reports whether key is a registered filter.
func (v *View[T]) HasFilter(key string) bool {
	_, ok := v.filters[key]
	return ok
}

// HasSort reports whether key is a registered sort.
func (v *View[T]) HasSort(key string) bool {
	_, ok := v.sorts[key]
	return ok
}

// SortKeys returns the registered sort keys in lexical order.
func (v *View[T]) SortKeys() []string {
	return slices.Sorted(maps.Keys(v.sorts))
}

// FilterKeys returns the registered filter keys in lexical order.
func (v *View[T]) FilterKeys() []string {
	return slices.Sorted(maps.Keys(v.filters))
}

// Derive runs filter, sort and paginate over items. items is never modified.
func (v *View[T]) Derive(items []T, q Query) (Result[T], error) {
	perPage, err := v.pageSize(q.PerPage)
	if err != nil {
		return Result[T]{}, err
	}

	filtered, err := v.filter(items, q.Filters)
	if err != nil {
		return Result[T]{}, err
	}

	if err := v.order(filtered, q.Sort); err != nil {
		return Result[T]{}, err
	}

	return paginate(filtered, q.Page, perPage), nil
}

// Count returns how many items pass the filters, without sorting or paging.
func (v *View[T]) Count(items []T, filters Filters) (int, error) {
	filtered, err := v.filter(items, filters)
	if err != nil {
		return 0, err
	}
	return len(filtered), nil
}

func (v *View[T]) pageSize(perPage int) (int, error) {
	if perPage > 0 {
		return perPage, nil
	}
	if v.policy == Strict {
		return 0, &PageSizeError{PerPage: perPage}
	}
	return DefaultPerPage, nil
}

type activeFilter[T any] struct {
	pred  Predicate[T]
	value string
}

func (v *View[T]) filter(items []T, filters Filters) ([]T, error) {
	var active []activeFilter[T]
	// Sorted so the reported unknown key is deterministic.
	for _, key := range slices.Sorted(maps.Keys(filters)) {
		pred, ok := v.filters[key]
		if !ok {
			if v.policy == Strict {
				return nil, &UnknownKeyError{Kind: "filter", Key: key}
			}
			continue
		}
		if value := filters[key]; !IsDefault(value) {
			active = append(active, activeFilter[T]{pred: pred, value: value})
		}
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if matchesAll(item, active) {
			out = append(out, item)
		}
	}
	return out, nil
}

func matchesAll[T any](item T, active []activeFilter[T]) bool {
	for _, f := range active {
		if !f.pred(item, f.value) {
			return false
		}
	}
	return true
}

func (v *View[T]) order(items []T, key string) error {
	if key == "" {
		return nil
	}
	cmp, ok := v.sorts[key]
	if !ok {
		if v.policy == Strict {
			return &UnknownKeyError{Kind: "sort", Key: key}
		}
		return nil
	}
	slices.SortStableFunc(items, cmp)
	return nil
}

func paginate[T any](filtered []T, page, perPage int) Result[T] {
	total := TotalPages(len(filtered), perPage)
	page = ClampPage(page, total)

	start, end := Range(page, perPage, len(filtered))
	visible := make([]T, 0, end-start)
	visible = append(visible, filtered[start:end]...)

	return Result[T]{
		Visible:       visible,
		FilteredCount: len(filtered),
		TotalPages:    total,
		Page:          page,
	}
}
