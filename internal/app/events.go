package app

import (
	"github.com/bethropolis/reflow/internal/event"
	"github.com/bethropolis/reflow/internal/logger"
)

// handleCursorMovedForStatus updates the status bar based on cursor position
func (a *App) handleCursorMovedForStatus(e event.Event) bool {
	if data, ok := e.Data.(event.CursorMovedData); ok {
		a.statusBar.SetCursorInfo(a.buf.PositionOf(data.Cursor))
	}
	return false // Not consumed
}

// handleBufferChangedForStatus refreshes the path and modified flag.
func (a *App) handleBufferChangedForStatus(e event.Event) bool {
	a.statusBar.SetFileInfo(a.buf.FilePath(), a.buf.IsModified())
	return false
}

func (a *App) handleCommandFinished(e event.Event) bool {
	data, ok := e.Data.(event.CommandFinishedData)
	if !ok {
		return false
	}
	if data.Err != nil {
		logger.Debugf("App: '%s' failed: %v (%s)", data.Name, data.Err, a.statusBar.Text())
	} else {
		logger.Infof("App: '%s' done (%s)", data.Name, a.statusBar.Text())
	}
	return false
}
