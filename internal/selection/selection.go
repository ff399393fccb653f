// Package selection implements multi-select semantics over an ordered,
// filtered view of items: toggle, additive range select, and tri-state
// select-all. Selection is session-scoped and disengages automatically when
// the visible list changes, so stale ids can never be acted on.
package selection

// Manager tracks selected item ids and the range-select anchor.
type Manager struct {
	selected map[string]bool
	anchor   string // "" = no anchor
	active   bool
	viewID   string
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{selected: map[string]bool{}}
}

// SyncView informs the manager which visible list it is operating on.
// When the list identity changes (folder switch, filter change, search
// change), all selection state is cleared and selection mode exits.
func (m *Manager) SyncView(viewID string) {
	if m.viewID == viewID {
		return
	}
	m.viewID = viewID
	m.Clear()
}

// Toggle flips membership of an id and makes it the range anchor.
func (m *Manager) Toggle(id string) {
	if m.selected[id] {
		delete(m.selected, id)
	} else {
		m.selected[id] = true
	}
	m.anchor = id
	m.active = true
}

// SelectRange selects the inclusive index range between the anchor and id
// in visible order, leaving selections outside the range untouched. The
// endpoints may appear in either order. Without a usable anchor it degrades
// to a plain Toggle.
func (m *Manager) SelectRange(id string, visible []string) {
	anchorIdx, targetIdx := -1, -1
	for i, v := range visible {
		if v == m.anchor {
			anchorIdx = i
		}
		if v == id {
			targetIdx = i
		}
	}
	if m.anchor == "" || anchorIdx == -1 || targetIdx == -1 {
		m.Toggle(id)
		return
	}

	lo, hi := anchorIdx, targetIdx
	if lo > hi {
		lo, hi = hi, lo
	}
	for i := lo; i <= hi; i++ {
		m.selected[visible[i]] = true
	}
	m.anchor = id
	m.active = true
}

// ToggleAll selects every visible item, or clears the selection when all
// visible items are already selected. Coverage is computed from the current
// selection, not a stored flag.
func (m *Manager) ToggleAll(visible []string) {
	if len(visible) == 0 {
		return
	}
	all := true
	for _, id := range visible {
		if !m.selected[id] {
			all = false
			break
		}
	}
	if all {
		m.Clear()
		return
	}
	for _, id := range visible {
		m.selected[id] = true
	}
	m.active = true
}

// Clear resets all selection state and exits selection mode.
func (m *Manager) Clear() {
	m.selected = map[string]bool{}
	m.anchor = ""
	m.active = false
}

// IsSelected returns true if the id is selected.
func (m *Manager) IsSelected(id string) bool {
	return m.selected[id]
}

// Count returns the number of selected items.
func (m *Manager) Count() int {
	return len(m.selected)
}

// Active reports whether selection mode is engaged.
func (m *Manager) Active() bool {
	return m.active
}

// IDs returns the selected ids in the order they appear in visible.
func (m *Manager) IDs(visible []string) []string {
	var result []string
	for _, id := range visible {
		if m.selected[id] {
			result = append(result, id)
		}
	}
	return result
}
