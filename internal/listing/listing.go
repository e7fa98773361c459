// Package listing wires a collection.View, a collection.Pager and a
// selection.Tracker into the state every list page of the dashboard keeps.
//
// Each state change re-derives the visible page and reconciles the selection
// against it before returning, so a caller never observes a selected id that
// is not on screen.
package listing

import (
	"errors"
	"slices"

	"github.com/jonathan/image-classifier/internal/collection"
	"github.com/jonathan/image-classifier/internal/selection"
)

// ErrNotVisible is returned when selecting an id that is not on the current
// page.
var ErrNotVisible = errors.New("listing: item is not on the current page")

// Listing is the state of one list page. Not safe for concurrent use.
type Listing[T any, ID comparable] struct {
	view   *collection.View[T]
	pager  *collection.Pager
	sel    *selection.Tracker[ID]
	idOf   func(T) ID
	items  []T
	result collection.Result[T]
}

// New creates a listing over items, sorted by sort with perPage rows per
// page. It fails if the initial derivation fails.
func New[T any, ID comparable](view *collection.View[T], idOf func(T) ID, items []T, sort string, perPage int) (*Listing[T, ID], error) {
	l := &Listing[T, ID]{
		view:  view,
		pager: collection.NewPager(sort, perPage),
		sel:   selection.New[ID](),
		idOf:  idOf,
		items: slices.Clone(items),
	}
	if err := l.refresh(); err != nil {
		return nil, err
	}
	return l, nil
}

// Items returns a copy of the whole backing collection.
func (l *Listing[T, ID]) Items() []T {
	return slices.Clone(l.items)
}

// Len returns the size of the backing collection.
func (l *Listing[T, ID]) Len() int {
	return len(l.items)
}

// Find looks an item up by id in the backing collection.
func (l *Listing[T, ID]) Find(id ID) (T, bool) {
	for _, item := range l.items {
		if l.idOf(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Replace swaps the backing collection wholesale. The page position is kept
// and re-clamped; the selection is reconciled.
func (l *Listing[T, ID]) Replace(items []T) error {
	prev := l.items
	l.items = slices.Clone(items)
	if err := l.refresh(); err != nil {
		l.items = prev
		return err
	}
	return nil
}

// SetFilter changes one filter and returns to page 1.
func (l *Listing[T, ID]) SetFilter(key, value string) error {
	return l.apply(func(p *collection.Pager) { p.SetFilter(key, value) })
}

// SetFilters replaces every filter and returns to page 1.
func (l *Listing[T, ID]) SetFilters(f collection.Filters) error {
	return l.apply(func(p *collection.Pager) { p.SetFilters(f) })
}

// ClearFilters drops every filter and returns to page 1.
func (l *Listing[T, ID]) ClearFilters() error {
	return l.apply(func(p *collection.Pager) { p.ClearFilters() })
}

// SetSort changes the sort key and returns to page 1.
func (l *Listing[T, ID]) SetSort(key string) error {
	return l.apply(func(p *collection.Pager) { p.SetSort(key) })
}

// SetPage moves to page, clamped into range.
func (l *Listing[T, ID]) SetPage(page int) error {
	return l.apply(func(p *collection.Pager) { p.SetPage(page) })
}

// SetPerPage changes the page size, keeping the page when it still exists.
func (l *Listing[T, ID]) SetPerPage(perPage int) error {
	return l.apply(func(p *collection.Pager) { p.SetPerPage(perPage) })
}

// Toggle flips one visible item and reports whether it is now selected.
func (l *Listing[T, ID]) Toggle(id ID) (bool, error) {
	if !l.visible(id) {
		return false, ErrNotVisible
	}
	return l.sel.Toggle(id), nil
}

// Select adds one visible item to the selection.
func (l *Listing[T, ID]) Select(id ID) error {
	if !l.visible(id) {
		return ErrNotVisible
	}
	l.sel.Select(id)
	return nil
}

// Deselect removes id from the selection.
func (l *Listing[T, ID]) Deselect(id ID) {
	l.sel.Deselect(id)
}

// SelectAll selects exactly the items of the current page.
func (l *Listing[T, ID]) SelectAll() {
	l.sel.SelectAll(l.visibleIDs())
}

// DeselectAll empties the selection.
func (l *Listing[T, ID]) DeselectAll() {
	l.sel.Clear()
}

// Selected returns the selected ids in selection order.
func (l *Listing[T, ID]) Selected() []ID {
	return l.sel.Snapshot()
}

// SelectedItems returns the selected records in selection order.
func (l *Listing[T, ID]) SelectedItems() []T {
	ids := l.sel.Snapshot()
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if item, ok := l.Find(id); ok {
			out = append(out, item)
		}
	}
	return out
}

// Page is everything a list page renders.
type Page[T any, ID comparable] struct {
	Items         []T
	FilteredCount int
	Total         int
	TotalPages    int
	Page          int
	PerPage       int
	// Start and End are the 1-based "showing X–Y" bounds; both 0 when empty.
	Start, End int
	// Window is the page-number strip; collection.Ellipsis marks a gap.
	Window      []int
	Selected    []ID
	AllSelected bool
	Partial     bool
	State       collection.State
}

// Page returns a snapshot of the current page.
func (l *Listing[T, ID]) Page() Page[T, ID] {
	state := l.pager.State()
	start, end := collection.Range(l.result.Page, state.PerPage, l.result.FilteredCount)
	if end > start {
		start++
	} else {
		start, end = 0, 0
	}
	visible := len(l.result.Visible)
	return Page[T, ID]{
		Items:         slices.Clone(l.result.Visible),
		FilteredCount: l.result.FilteredCount,
		Total:         len(l.items),
		TotalPages:    l.result.TotalPages,
		Page:          l.result.Page,
		PerPage:       state.PerPage,
		Start:         start,
		End:           end,
		Window:        collection.PageWindow(l.result.Page, l.result.TotalPages, 2),
		Selected:      l.sel.Snapshot(),
		AllSelected:   l.sel.IsAllSelected(visible),
		Partial:       l.sel.IsPartialSelected(visible),
		State:         state,
	}
}

func (l *Listing[T, ID]) apply(change func(*collection.Pager)) error {
	prev := l.pager.State()
	change(l.pager)
	if err := l.refresh(); err != nil {
		l.pager.Restore(prev)
		return err
	}
	return nil
}

func (l *Listing[T, ID]) refresh() error {
	r, err := l.view.Derive(l.items, l.pager.Query())
	if err != nil {
		return err
	}
	collection.Observe(l.pager, r)
	l.result = r
	l.sel.Reconcile(l.visibleIDs())
	return nil
}

func (l *Listing[T, ID]) visibleIDs() []ID {
	ids := make([]ID, len(l.result.Visible))
	for i, item := range l.result.Visible {
		ids[i] = l.idOf(item)
	}
	return ids
}

func (l *Listing[T, ID]) visible(id ID) bool {
	return slices.Contains(l.visibleIDs(), id)
}
