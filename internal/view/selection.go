package view

import "github.com/google/uuid"

// Selection tracks which order ids are selected across filter changes. It is
// session-scoped and only ever mutated by the single UI control flow; entries
// for ids no longer in the live set are treated as absent (lazy removal).
type Selection struct {
	ids map[uuid.UUID]struct{}
}

func NewSelection() *Selection {
	return &Selection{ids: make(map[uuid.UUID]struct{})}
}

// Toggle flips the selection state of one id.
func (s *Selection) Toggle(id uuid.UUID) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}

	s.ids[id] = struct{}{}
}

// Selected reports whether the id is in the selection.
func (s *Selection) Selected(id uuid.UUID) bool {
	_, ok := s.ids[id]
	return ok
}

// SelectAllVisible toggles selection over the visible subset only. If every
// visible id is already selected, exactly the visible set is deselected;
// otherwise every visible id is added. Selections outside the visible set
// are untouched either way, so selections made under one filter survive
// switching to another.
func (s *Selection) SelectAllVisible(visible []uuid.UUID) {
	if s.AllVisibleSelected(visible) {
		for _, id := range visible {
			delete(s.ids, id)
		}

		return
	}

	for _, id := range visible {
		s.ids[id] = struct{}{}
	}
}

// AllVisibleSelected reports whether every visible id is selected. An empty
// visible set reports false: there is nothing to toggle off.
func (s *Selection) AllVisibleSelected(visible []uuid.UUID) bool {
	if len(visible) == 0 {
		return false
	}

	for _, id := range visible {
		if _, ok := s.ids[id]; !ok {
			return false
		}
	}

	return true
}

// Present returns the selected ids that still exist in the live set, in live
// order. Stale entries are skipped, not removed.
func (s *Selection) Present(live []uuid.UUID) []uuid.UUID {
	var present []uuid.UUID

	for _, id := range live {
		if _, ok := s.ids[id]; ok {
			present = append(present, id)
		}
	}

	return present
}

// Count returns how many selected ids still exist in the live set.
func (s *Selection) Count(live []uuid.UUID) int {
	n := 0

	for _, id := range live {
		if _, ok := s.ids[id]; ok {
			n++
		}
	}

	return n
}

// Clear empties the selection. Called only after a confirmed batch delete.
func (s *Selection) Clear() {
	clear(s.ids)
}
