// internal/event/event.go
package event

import "github.com/bethropolis/reflow/internal/types"

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	// TypeBufferModified fires after every insert or delete.
	TypeBufferModified
	// TypeBufferLoaded fires after a buffer is loaded from disk.
	TypeBufferLoaded
	// TypeBufferSaved fires after a buffer is written to disk.
	TypeBufferSaved
	// TypeCursorMoved fires when a view moves its cursor or selection.
	TypeCursorMoved
	// TypeCommandFinished fires after a named action ran, successfully or not.
	TypeCommandFinished
)

func (t Type) String() string {
	switch t {
	case TypeBufferModified:
		return "BufferModified"
	case TypeBufferLoaded:
		return "BufferLoaded"
	case TypeBufferSaved:
		return "BufferSaved"
	case TypeCursorMoved:
		return "CursorMoved"
	case TypeCommandFinished:
		return "CommandFinished"
	}
	return "Unknown"
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type
	Data interface{}
}

// BufferModifiedData carries the edit for incremental re-parsing.
type BufferModifiedData struct {
	Edit types.EditInfo
}

// BufferLoadedData names the file that was loaded.
type BufferLoadedData struct {
	FilePath string
}

// BufferSavedData names the file that was written.
type BufferSavedData struct {
	FilePath string
}

// CursorMovedData carries the new cursor and selection bound offsets.
type CursorMovedData struct {
	Cursor         int
	SelectionBound int
}

// CommandFinishedData reports the outcome of a named action.
type CommandFinishedData struct {
	Name string
	Err  error
}
