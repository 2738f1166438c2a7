package history

import (
	"fmt"
	"sync"

	"github.com/bethropolis/reflow/internal/logger"
)

const DefaultMaxHistory = 100

// Manager handles the undo/redo stack. Changes recorded between
// BeginGroup and the matching EndGroup form a single undo step.
type Manager struct {
	mutex        sync.Mutex
	groups       []group
	currentIndex int // Index of the next group to redo
	maxHistory   int
	depth        int // Nesting depth of open groups
	pending      group
}

// NewManager creates a history manager keeping at most maxHistory steps.
func NewManager(maxHistory int) *Manager {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &Manager{maxHistory: maxHistory}
}

// BeginGroup opens a (possibly nested) group.
func (m *Manager) BeginGroup() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.depth++
}

// EndGroup closes a group. Closing the outermost group commits everything
// recorded since it was opened as one step.
func (m *Manager) EndGroup() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.depth == 0 {
		logger.Warnf("History: EndGroup without BeginGroup")
		return
	}
	m.depth--
	if m.depth == 0 && len(m.pending) > 0 {
		m.push(m.pending)
		m.pending = nil
	}
}

// InGroup reports whether a group is open.
func (m *Manager) InGroup() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.depth > 0
}

// RecordChange adds a change, clearing any redo history.
func (m *Manager) RecordChange(change Change) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.depth > 0 {
		m.pending = append(m.pending, change)
		return
	}
	m.push(group{change})
}

// push appends a step; callers hold the mutex.
func (m *Manager) push(g group) {
	if m.currentIndex < len(m.groups) {
		m.groups = m.groups[:m.currentIndex]
	}
	m.groups = append(m.groups, g)
	if len(m.groups) > m.maxHistory {
		m.groups = m.groups[len(m.groups)-m.maxHistory:]
	}
	m.currentIndex = len(m.groups)
	logger.DebugTagf("history", "recorded step of %d change(s), index %d", len(g), m.currentIndex)
}

// Undo reverts the last step. It returns false if there was nothing to undo.
func (m *Manager) Undo(t Target) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.depth > 0 {
		return false, fmt.Errorf("undo inside an open edit group")
	}
	if m.currentIndex <= 0 {
		return false, nil
	}

	g := m.groups[m.currentIndex-1]
	for i := len(g) - 1; i >= 0; i-- {
		if err := revert(t, g[i]); err != nil {
			return false, fmt.Errorf("undo failed: %w", err)
		}
	}
	m.currentIndex--
	logger.DebugTagf("history", "undid step %d", m.currentIndex)
	return true, nil
}

// Redo reapplies the last undone step.
func (m *Manager) Redo(t Target) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.depth > 0 {
		return false, fmt.Errorf("redo inside an open edit group")
	}
	if m.currentIndex >= len(m.groups) {
		return false, nil
	}

	for _, c := range m.groups[m.currentIndex] {
		if err := apply(t, c); err != nil {
			return false, fmt.Errorf("redo failed: %w", err)
		}
	}
	m.currentIndex++
	logger.DebugTagf("history", "redid step, index %d", m.currentIndex)
	return true, nil
}

func apply(t Target, c Change) error {
	if c.Type == InsertAction {
		return t.ApplyInsert(c.Start, c.Text)
	}
	return t.ApplyDelete(c.Start, c.End())
}

func revert(t Target, c Change) error {
	if c.Type == InsertAction {
		return t.ApplyDelete(c.Start, c.End())
	}
	return t.ApplyInsert(c.Start, c.Text)
}

// Clear resets the history stack. Call this on file load.
func (m *Manager) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.groups = m.groups[:0]
	m.currentIndex = 0
	m.pending = nil
}

// CanUndo returns true if there are steps that can be undone.
func (m *Manager) CanUndo() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.currentIndex > 0
}

// CanRedo returns true if there are steps that can be redone.
func (m *Manager) CanRedo() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.currentIndex < len(m.groups)
}
