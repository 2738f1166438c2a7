package buffer

import (
	"fmt"

	"github.com/bethropolis/reflow/internal/types"
)

// Gravity decides where a marker ends up when text is inserted exactly at
// its offset.
type Gravity int

const (
	// RightGravity moves the marker past text inserted at its offset.
	RightGravity Gravity = iota
	// LeftGravity keeps the marker in front of text inserted at its offset.
	LeftGravity
)

// MarkerID is a handle into the buffer's marker table.
type MarkerID int

type marker struct {
	offset  int
	gravity Gravity
	live    bool
}

// markerTable is an arena of markers; released slots are reused.
type markerTable struct {
	slots []marker
	free  []MarkerID
}

func (t *markerTable) create(offset int, gravity Gravity) MarkerID {
	m := marker{offset: offset, gravity: gravity, live: true}
	if n := len(t.free); n > 0 {
		id := t.free[n-1]
		t.free = t.free[:n-1]
		t.slots[id] = m
		return id
	}
	t.slots = append(t.slots, m)
	return MarkerID(len(t.slots) - 1)
}

func (t *markerTable) get(id MarkerID) (*marker, error) {
	if id < 0 || int(id) >= len(t.slots) || !t.slots[id].live {
		return nil, fmt.Errorf("marker %d: %w", id, types.ErrMarkerReleased)
	}
	return &t.slots[id], nil
}

func (t *markerTable) release(id MarkerID) {
	if m, err := t.get(id); err == nil {
		m.live = false
		t.free = append(t.free, id)
	}
}

func (t *markerTable) count() int {
	return len(t.slots) - len(t.free)
}

// shiftInsert adjusts markers for n runes inserted at pos.
func (t *markerTable) shiftInsert(pos, n int) {
	for i := range t.slots {
		m := &t.slots[i]
		if !m.live {
			continue
		}
		if m.offset > pos || (m.offset == pos && m.gravity == RightGravity) {
			m.offset += n
		}
	}
}

// shiftDelete adjusts markers for the range [start, end) being removed.
// Markers inside the range collapse onto start.
func (t *markerTable) shiftDelete(start, end int) {
	for i := range t.slots {
		m := &t.slots[i]
		if !m.live {
			continue
		}
		switch {
		case m.offset >= end:
			m.offset -= end - start
		case m.offset > start:
			m.offset = start
		}
	}
}

// reset moves every live marker to offset 0, used when content is replaced.
func (t *markerTable) reset() {
	for i := range t.slots {
		t.slots[i].offset = 0
	}
}
