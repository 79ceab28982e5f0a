package projector

import "sync"

// Selection identifies one rendered point.
type Selection struct {
	Series int `json:"series"`
	Sample int `json:"sample"`
}

// HoverState tracks the point under the pointer. It is either idle or holds
// exactly one selection; a new Enter replaces the previous one.
type HoverState struct {
	mu       sync.RWMutex
	active   bool
	selected Selection
}

// Enter selects the point at (series, sample).
func (h *HoverState) Enter(series, sample int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.active = true
	h.selected = Selection{Series: series, Sample: sample}
}

// Leave returns to idle.
func (h *HoverState) Leave() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.active = false
	h.selected = Selection{}
}

// Selected returns the current selection, if any.
func (h *HoverState) Selected() (Selection, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.selected, h.active
}

// IsHovered reports whether (series, sample) is the current selection.
func (h *HoverState) IsHovered(series, sample int) bool {
	sel, ok := h.Selected()
	return ok && sel.Series == series && sel.Sample == sample
}
