// Package selection tracks which records of the visible page are checked.
//
// A Tracker only manages membership. Bulk actions are carried out by the page
// controller from a Snapshot, and the controller calls Reconcile every time
// the visible page changes so nothing stays selected off-screen.
package selection

import "slices"

// Tracker is a set of ids that remembers insertion order.
// The zero value is not usable; call New.
type Tracker[ID comparable] struct {
	members map[ID]struct{}
	order   []ID
}

// New returns an empty tracker.
func New[ID comparable]() *Tracker[ID] {
	return &Tracker[ID]{members: make(map[ID]struct{})}
}

// Select adds id. Selecting a member again is a no-op.
func (t *Tracker[ID]) Select(id ID) {
	if _, ok := t.members[id]; ok {
		return
	}
	t.members[id] = struct{}{}
	t.order = append(t.order, id)
}

// Deselect removes id if present.
func (t *Tracker[ID]) Deselect(id ID) {
	if _, ok := t.members[id]; !ok {
		return
	}
	delete(t.members, id)
	t.order = slices.DeleteFunc(t.order, func(x ID) bool { return x == id })
}

// Toggle flips membership of id and reports whether it is now selected.
func (t *Tracker[ID]) Toggle(id ID) bool {
	if t.IsSelected(id) {
		t.Deselect(id)
		return false
	}
	t.Select(id)
	return true
}

// SelectAll replaces the selection with exactly the visible ids.
// An empty list leaves the selection empty.
func (t *Tracker[ID]) SelectAll(visible []ID) {
	t.Clear()
	for _, id := range visible {
		t.Select(id)
	}
}

// Clear empties the selection.
func (t *Tracker[ID]) Clear() {
	clear(t.members)
	t.order = nil
}

// Reconcile drops every selected id that is not in visible and reports how
// many were dropped.
func (t *Tracker[ID]) Reconcile(visible []ID) int {
	keep := make(map[ID]struct{}, len(visible))
	for _, id := range visible {
		keep[id] = struct{}{}
	}

	before := len(t.order)
	t.order = slices.DeleteFunc(t.order, func(id ID) bool {
		if _, ok := keep[id]; ok {
			return false
		}
		delete(t.members, id)
		return true
	})
	return before - len(t.order)
}

// IsSelected reports whether id is selected.
func (t *Tracker[ID]) IsSelected(id ID) bool {
	_, ok := t.members[id]
	return ok
}

// Count returns the number of selected ids.
func (t *Tracker[ID]) Count() int {
	return len(t.order)
}

// IsAllSelected drives the header checkbox's checked state.
func (t *Tracker[ID]) IsAllSelected(visibleCount int) bool {
	return visibleCount > 0 && t.Count() == visibleCount
}

// IsPartialSelected drives the header checkbox's indeterminate state.
func (t *Tracker[ID]) IsPartialSelected(visibleCount int) bool {
	n := t.Count()
	return n > 0 && n < visibleCount
}

// Snapshot returns the selected ids in the order they were selected.
func (t *Tracker[ID]) Snapshot() []ID {
	return slices.Clone(t.order)
}
