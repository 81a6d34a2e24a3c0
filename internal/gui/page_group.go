// Package gui implements the GUI coordinator: namespaces, page groups, and
// per-page bindings that the render package turns into HTML.
package gui

import "fmt"

// PageGroup holds the ordered set of pages registered under one namespace,
// plus the stack of page indices that are currently "active" (shown). The
// front of the active-index stack is the page actually on screen.
type PageGroup struct {
	pageIDs     []string
	activeIdx   []int
}

// NewPageGroup returns an empty page group.
func NewPageGroup() *PageGroup {
	return &PageGroup{}
}

// validatePosition clamps position into [0, len] so inserts never panic on
// an out-of-range index from a malformed bus message.
func (g *PageGroup) validatePosition(position int) int {
	if position < 0 {
		return 0
	}
	if position > len(g.pageIDs) {
		return len(g.pageIDs)
	}
	return position
}

// indexOf returns the slice index of pageID, or -1.
func (g *PageGroup) indexOf(pageID string) int {
	for i, id := range g.pageIDs {
		if id == pageID {
			return i
		}
	}
	return -1
}

// InsertPage inserts pageID at position, clamped to the current length. If
// pageID already exists it is moved to the new position instead of
// duplicated.
func (g *PageGroup) InsertPage(pageID string, position int) {
	if existing := g.indexOf(pageID); existing >= 0 {
		g.pageIDs = append(g.pageIDs[:existing], g.pageIDs[existing+1:]...)
		g.shiftActiveIndicesAfterRemove(existing)
	}
	position = g.validatePosition(position)
	g.pageIDs = append(g.pageIDs, "")
	copy(g.pageIDs[position+1:], g.pageIDs[position:])
	g.pageIDs[position] = pageID
	g.shiftActiveIndicesAfterInsert(position)
}

// RemovePage deletes pageID if present, adjusting any active-index entries
// that pointed past it.
func (g *PageGroup) RemovePage(pageID string) {
	idx := g.indexOf(pageID)
	if idx < 0 {
		return
	}
	g.pageIDs = append(g.pageIDs[:idx], g.pageIDs[idx+1:]...)
	g.shiftActiveIndicesAfterRemove(idx)
}

// MovePage relocates pageID to a new position.
func (g *PageGroup) MovePage(pageID string, position int) {
	if g.indexOf(pageID) < 0 {
		return
	}
	g.InsertPage(pageID, position)
}

// GetPageID returns the page id at index, or "" if out of range.
func (g *PageGroup) GetPageID(index int) string {
	if index < 0 || index >= len(g.pageIDs) {
		return ""
	}
	return g.pageIDs[index]
}

// PageIDs returns a copy of the group's ordered page ids.
func (g *PageGroup) PageIDs() []string {
	out := make([]string, len(g.pageIDs))
	copy(out, g.pageIDs)
	return out
}

// Len returns the number of pages registered in the group.
func (g *PageGroup) Len() int {
	return len(g.pageIDs)
}

// ActivatePage pushes index onto the front of the active-index stack,
// making it the group's currently shown page.
func (g *PageGroup) ActivatePage(index int) error {
	if index < 0 || index >= len(g.pageIDs) {
		return fmt.Errorf("gui: page index %d out of range (len %d)", index, len(g.pageIDs))
	}
	g.activeIdx = append([]int{index}, g.activeIdx...)
	return nil
}

// DeactivatePage pops the front of the active-index stack and reinserts it
// one position down (rotate-one-down), so the page that was shown before it
// becomes active again while the deactivated page remains second in line.
func (g *PageGroup) DeactivatePage() {
	if len(g.activeIdx) == 0 {
		return
	}
	top := g.activeIdx[0]
	rest := g.activeIdx[1:]
	if len(rest) == 0 {
		g.activeIdx = nil
		return
	}
	out := make([]int, 0, len(rest)+1)
	out = append(out, rest[0], top)
	out = append(out, rest[1:]...)
	g.activeIdx = out
}

// GetActivePageIndex returns the index of the currently active page, or -1
// if no page in this group is active.
func (g *PageGroup) GetActivePageIndex() int {
	if len(g.activeIdx) == 0 {
		return -1
	}
	return g.activeIdx[0]
}

// GetActivePageID returns the id of the currently active page, or "".
func (g *PageGroup) GetActivePageID() string {
	idx := g.GetActivePageIndex()
	if idx < 0 {
		return ""
	}
	return g.GetPageID(idx)
}

// IsActive reports whether pageID is the currently active page.
func (g *PageGroup) IsActive(pageID string) bool {
	return g.GetActivePageID() == pageID
}

func (g *PageGroup) shiftActiveIndicesAfterInsert(position int) {
	for i, idx := range g.activeIdx {
		if idx >= position {
			g.activeIdx[i] = idx + 1
		}
	}
}

func (g *PageGroup) shiftActiveIndicesAfterRemove(position int) {
	out := g.activeIdx[:0]
	for _, idx := range g.activeIdx {
		switch {
		case idx == position:
			// dropped page was active; entry is discarded.
		case idx > position:
			out = append(out, idx-1)
		default:
			out = append(out, idx)
		}
	}
	g.activeIdx = out
}
