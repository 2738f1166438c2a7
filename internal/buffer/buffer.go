// internal/buffer/buffer.go
package buffer

import "errors"

// ErrOffsetOutOfRange is returned for offsets outside 0..Len().
var ErrOffsetOutOfRange = errors.New("offset out of range")

// Buffer is the host text buffer the formatting commands operate on.
// All offsets are rune (character) offsets.
type Buffer interface {
	Len() int
	Text() string
	Slice(start, end int) string
	RuneAt(pos int) (rune, bool)

	// LineStart and LineEnd return the offsets of the start of the line
	// containing pos and of its terminating newline (or Len()).
	LineStart(pos int) int
	LineEnd(pos int) int
	// LineColumn is pos minus LineStart(pos).
	LineColumn(pos int) int

	Insert(pos int, text string) error
	Delete(start, end int) error

	// BeginUserAction and EndUserAction bracket edits that undo as one step.
	BeginUserAction()
	EndUserAction()

	CreateMarker(pos int, gravity Gravity) MarkerID
	MarkerOffset(id MarkerID) (int, error)
	MoveMarker(id MarkerID, pos int) error
	ReleaseMarker(id MarkerID)
}
