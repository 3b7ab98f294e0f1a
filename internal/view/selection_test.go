package view_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/daftarhq/daftar/internal/view"
)

func newIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}

	return ids
}

func TestSelection_Toggle(t *testing.T) {
	s := view.NewSelection()
	id := uuid.New()

	s.Toggle(id)
	assert.True(t, s.Selected(id))

	s.Toggle(id)
	assert.False(t, s.Selected(id))
}

func TestSelection_SelectAllVisibleRoundTrip(t *testing.T) {
	s := view.NewSelection()
	visible := newIDs(3)

	s.SelectAllVisible(visible)
	assert.True(t, s.AllVisibleSelected(visible))
	assert.Equal(t, 3, s.Count(visible))

	// Same visible set, nothing else changed: back to the prior state.
	s.SelectAllVisible(visible)
	assert.False(t, s.AllVisibleSelected(visible))
	assert.Equal(t, 0, s.Count(visible))
}

func TestSelection_SurvivesFilterChanges(t *testing.T) {
	s := view.NewSelection()
	live := newIDs(5)

	hidden := live[3]
	s.Toggle(hidden)

	// A different filter is active: only the first three are visible.
	visible := live[:3]
	s.SelectAllVisible(visible)

	assert.True(t, s.Selected(hidden))
	assert.Equal(t, 4, s.Count(live))

	// Toggling the visible set off leaves the hidden selection intact.
	s.SelectAllVisible(visible)
	assert.True(t, s.Selected(hidden))
	assert.Equal(t, 1, s.Count(live))
}

func TestSelection_PartialVisibleSelectsAll(t *testing.T) {
	s := view.NewSelection()
	visible := newIDs(3)

	s.Toggle(visible[0])
	assert.False(t, s.AllVisibleSelected(visible))

	// Not all selected yet, so the toggle adds the rest.
	s.SelectAllVisible(visible)
	assert.True(t, s.AllVisibleSelected(visible))
}

func TestSelection_EmptyVisibleSetIsNoop(t *testing.T) {
	s := view.NewSelection()
	id := uuid.New()
	s.Toggle(id)

	assert.False(t, s.AllVisibleSelected(nil))

	s.SelectAllVisible(nil)
	assert.True(t, s.Selected(id))
}

func TestSelection_StaleIDsAreAbsent(t *testing.T) {
	s := view.NewSelection()
	live := newIDs(2)
	deleted := uuid.New()

	s.Toggle(live[0])
	s.Toggle(deleted)

	assert.Equal(t, 1, s.Count(live))
	assert.Equal(t, []uuid.UUID{live[0]}, s.Present(live))
}

func TestSelection_PresentKeepsLiveOrder(t *testing.T) {
	s := view.NewSelection()
	live := newIDs(4)

	s.Toggle(live[2])
	s.Toggle(live[0])

	assert.Equal(t, []uuid.UUID{live[0], live[2]}, s.Present(live))
}

func TestSelection_Clear(t *testing.T) {
	s := view.NewSelection()
	live := newIDs(3)
	s.SelectAllVisible(live)

	s.Clear()
	assert.Equal(t, 0, s.Count(live))
	assert.False(t, s.Selected(live[0]))
}
