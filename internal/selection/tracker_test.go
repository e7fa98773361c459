package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_SelectToggleDeselect(t *testing.T) {
	tr := New[int]()

	tr.Select(3)
	tr.Select(1)
	tr.Select(3)
	assert.Equal(t, 2, tr.Count())
	assert.Equal(t, []int{3, 1}, tr.Snapshot())

	assert.False(t, tr.Toggle(3))
	assert.True(t, tr.Toggle(7))
	assert.Equal(t, []int{1, 7}, tr.Snapshot())

	tr.Deselect(42)
	tr.Deselect(1)
	assert.Equal(t, []int{7}, tr.Snapshot())
	assert.True(t, tr.IsSelected(7))
	assert.False(t, tr.IsSelected(1))
}

func TestTracker_SelectAll(t *testing.T) {
	visible := []string{"a", "b", "c", "d"}

	tr := New[string]()
	tr.Select("zz")
	tr.SelectAll(visible)
	assert.Equal(t, len(visible), tr.Count())
	assert.Equal(t, visible, tr.Snapshot())
	assert.True(t, tr.IsAllSelected(len(visible)))

	tr.SelectAll(nil)
	assert.Equal(t, 0, tr.Count())
	assert.False(t, tr.IsAllSelected(0))
}

func TestTracker_CheckboxStates(t *testing.T) {
	tests := []struct {
		name         string
		selected     int
		visible      int
		expectAll    bool
		expectPartly bool
	}{
		{name: "nothing visible", selected: 0, visible: 0},
		{name: "nothing selected", selected: 0, visible: 5},
		{name: "one of five", selected: 1, visible: 5, expectPartly: true},
		{name: "four of five", selected: 4, visible: 5, expectPartly: true},
		{name: "all five", selected: 5, visible: 5, expectAll: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New[int]()
			for i := 0; i < tt.selected; i++ {
				tr.Select(i)
			}
			assert.Equal(t, tt.expectAll, tr.IsAllSelected(tt.visible))
			assert.Equal(t, tt.expectPartly, tr.IsPartialSelected(tt.visible))
		})
	}
}

func TestTracker_Reconcile(t *testing.T) {
	tr := New[int]()
	tr.SelectAll([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})

	newVisible := []int{2, 5, 11, 12}
	dropped := tr.Reconcile(newVisible)

	assert.Equal(t, 8, dropped)
	assert.LessOrEqual(t, tr.Count(), len(newVisible))
	for _, id := range tr.Snapshot() {
		assert.Contains(t, newVisible, id)
	}
	assert.Equal(t, []int{2, 5}, tr.Snapshot())
	assert.False(t, tr.IsSelected(1))

	tr.Reconcile(nil)
	assert.Equal(t, 0, tr.Count())
}

func TestTracker_SnapshotIsACopy(t *testing.T) {
	tr := New[int]()
	tr.SelectAll([]int{1, 2})

	snap := tr.Snapshot()
	snap[0] = 99
	assert.Equal(t, []int{1, 2}, tr.Snapshot())
}

func TestConfirmers(t *testing.T) {
	var asked string
	c := ConfirmFunc(func(p string) bool {
		asked = p
		return true
	})
	assert.True(t, c.Confirm("delete 3?"))
	assert.Equal(t, "delete 3?", asked)
	assert.True(t, Always.Confirm(""))
	assert.False(t, Never.Confirm(""))
}
