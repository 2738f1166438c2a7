// Package clipboard keeps the last reformatted text and optionally mirrors
// it to the system clipboard.
package clipboard

import (
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/bethropolis/reflow/internal/logger"
)

// Manager handles clipboard operations
type Manager struct {
	mu       sync.Mutex
	system   bool
	register string

	// writeAll is clipboard.WriteAll; tests replace it.
	writeAll func(string) error
}

// NewManager creates a clipboard manager. With system set, copies also go
// to the system clipboard.
func NewManager(system bool) *Manager {
	return &Manager{
		system:   system,
		writeAll: clipboard.WriteAll,
	}
}

// Copy stores text in the internal register and, when enabled and
// available, the system clipboard. The register is updated even when the
// system copy fails.
func (m *Manager) Copy(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.register = text
	logger.Debugf("ClipboardManager: copied %d bytes", len(text))

	if !m.system {
		return nil
	}
	if clipboard.Unsupported {
		logger.Warnf("ClipboardManager: system clipboard unsupported on this platform")
		return nil
	}
	if err := m.writeAll(text); err != nil {
		return fmt.Errorf("failed to copy to system clipboard: %w", err)
	}
	return nil
}

// Contents returns the internal register.
func (m *Manager) Contents() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.register
}

// System reports whether copies go to the system clipboard.
func (m *Manager) System() bool { return m.system }
