// internal/buffer/slice_buffer.go
package buffer

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/bethropolis/reflow/internal/event"
	"github.com/bethropolis/reflow/internal/history"
	"github.com/bethropolis/reflow/internal/logger"
	"github.com/bethropolis/reflow/internal/types"
	sitter "github.com/smacker/go-tree-sitter"
)

// SliceBuffer keeps the whole text as one rune slice. It tracks markers,
// records history and announces every mutation on the event bus.
type SliceBuffer struct {
	text     []rune
	filePath string
	modified bool // Track if buffer has unsaved changes

	markers markerTable
	history *history.Manager
	events  *event.Manager
}

// NewSliceBuffer creates an empty SliceBuffer.
func NewSliceBuffer() *SliceBuffer {
	return &SliceBuffer{
		history: history.NewManager(history.DefaultMaxHistory),
	}
}

// NewSliceBufferString creates a buffer holding text.
func NewSliceBufferString(text string) *SliceBuffer {
	sb := NewSliceBuffer()
	sb.text = []rune(text)
	return sb
}

// SetEventManager attaches the bus BufferModified events are sent to.
func (sb *SliceBuffer) SetEventManager(m *event.Manager) {
	sb.events = m
}

// Load reads a file into the buffer, replacing existing content.
// A missing file yields an empty buffer bound to that path.
func (sb *SliceBuffer) Load(filePath string) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to open file '%s': %w", filePath, err)
		}
		content = nil
	}
	if !utf8.Valid(content) {
		return fmt.Errorf("file '%s' is not valid UTF-8", filePath)
	}

	sb.text = []rune(string(content))
	sb.filePath = filePath
	sb.modified = false
	sb.markers.reset()
	sb.history.Clear()

	if sb.events != nil {
		sb.events.Dispatch(event.TypeBufferLoaded, event.BufferLoadedData{FilePath: filePath})
	}
	logger.Debugf("Buffer: loaded %d runes from %s", len(sb.text), filePath)
	return nil
}

// Save writes the buffer content to filePath, or to the loaded path when
// filePath is empty.
func (sb *SliceBuffer) Save(filePath string) error {
	path := sb.filePath
	if filePath != "" {
		path = filePath
	}
	if path == "" {
		return errors.New("no file path specified for saving")
	}

	if err := os.WriteFile(path, sb.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write file '%s': %w", path, err)
	}

	sb.filePath = path
	sb.modified = false
	if sb.events != nil {
		sb.events.Dispatch(event.TypeBufferSaved, event.BufferSavedData{FilePath: path})
	}
	return nil
}

func (sb *SliceBuffer) Bytes() []byte    { return []byte(string(sb.text)) }
func (sb *SliceBuffer) Text() string     { return string(sb.text) }
func (sb *SliceBuffer) Len() int         { return len(sb.text) }
func (sb *SliceBuffer) FilePath() string { return sb.filePath }

// IsModified returns true if the buffer has unsaved changes.
func (sb *SliceBuffer) IsModified() bool { return sb.modified }

// --- Reading ---

func (sb *SliceBuffer) clamp(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > len(sb.text) {
		return len(sb.text)
	}
	return pos
}

// Slice returns the text in [start, end), clamped to the buffer.
func (sb *SliceBuffer) Slice(start, end int) string {
	start, end = sb.clamp(start), sb.clamp(end)
	if start >= end {
		return ""
	}
	return string(sb.text[start:end])
}

// RuneAt returns the rune at pos; false at or past the end.
func (sb *SliceBuffer) RuneAt(pos int) (rune, bool) {
	if pos < 0 || pos >= len(sb.text) {
		return 0, false
	}
	return sb.text[pos], true
}

func (sb *SliceBuffer) LineStart(pos int) int {
	pos = sb.clamp(pos)
	for pos > 0 && sb.text[pos-1] != '\n' {
		pos--
	}
	return pos
}

func (sb *SliceBuffer) LineEnd(pos int) int {
	pos = sb.clamp(pos)
	for pos < len(sb.text) && sb.text[pos] != '\n' {
		pos++
	}
	return pos
}

func (sb *SliceBuffer) LineColumn(pos int) int {
	pos = sb.clamp(pos)
	return pos - sb.LineStart(pos)
}

// LineCount returns the number of lines; an empty buffer has one.
func (sb *SliceBuffer) LineCount() int {
	n := 1
	for _, r := range sb.text {
		if r == '\n' {
			n++
		}
	}
	return n
}

// PositionOf converts an offset into a line/column position.
func (sb *SliceBuffer) PositionOf(pos int) types.Position {
	pos = sb.clamp(pos)
	var p types.Position
	for _, r := range sb.text[:pos] {
		if r == '\n' {
			p.Line++
			p.Col = 0
		} else {
			p.Col++
		}
	}
	return p
}

// OffsetOf converts a line/column position into an offset, clamping the
// line to the buffer and the column to the line.
func (sb *SliceBuffer) OffsetOf(p types.Position) int {
	if p.Line < 0 {
		return 0
	}
	pos := 0
	for line := 0; line < p.Line; line++ {
		end := sb.LineEnd(pos)
		if end == len(sb.text) {
			return end
		}
		pos = end + 1
	}
	end := sb.LineEnd(pos)
	if p.Col < 0 {
		return pos
	}
	if pos+p.Col > end {
		return end
	}
	return pos + p.Col
}

// --- Modification ---

// Insert inserts text at pos.
func (sb *SliceBuffer) Insert(pos int, text string) error {
	if err := sb.insert(pos, text); err != nil {
		return err
	}
	sb.history.RecordChange(history.Change{Type: history.InsertAction, Text: text, Start: pos})
	return nil
}

// Delete removes [start, end). Reversed bounds are swapped and both ends
// are clamped to the buffer.
func (sb *SliceBuffer) Delete(start, end int) error {
	if start > end {
		start, end = end, start
	}
	start, end = sb.clamp(start), sb.clamp(end)
	if start == end {
		return nil
	}
	removed := string(sb.text[start:end])
	sb.delete(start, end)
	sb.history.RecordChange(history.Change{Type: history.DeleteAction, Text: removed, Start: start})
	return nil
}

func (sb *SliceBuffer) insert(pos int, text string) error {
	if pos < 0 || pos > len(sb.text) {
		return fmt.Errorf("insert at %d (len %d): %w", pos, len(sb.text), ErrOffsetOutOfRange)
	}
	if text == "" {
		return nil
	}
	ins := []rune(text)
	startByte, startPoint := sb.pointAt(pos)

	sb.text = append(sb.text[:pos], append(ins, sb.text[pos:]...)...)
	sb.modified = true
	sb.markers.shiftInsert(pos, len(ins))

	newEndByte, newEndPoint := sb.pointAt(pos + len(ins))
	sb.notify(types.EditInfo{
		StartIndex:     startByte,
		OldEndIndex:    startByte,
		NewEndIndex:    newEndByte,
		StartPosition:  startPoint,
		OldEndPosition: startPoint,
		NewEndPosition: newEndPoint,
	})
	return nil
}

func (sb *SliceBuffer) delete(start, end int) {
	startByte, startPoint := sb.pointAt(start)
	oldEndByte, oldEndPoint := sb.pointAt(end)

	sb.text = append(sb.text[:start], sb.text[end:]...)
	sb.modified = true
	sb.markers.shiftDelete(start, end)

	sb.notify(types.EditInfo{
		StartIndex:     startByte,
		OldEndIndex:    oldEndByte,
		NewEndIndex:    startByte,
		StartPosition:  startPoint,
		OldEndPosition: oldEndPoint,
		NewEndPosition: startPoint,
	})
}

// pointAt returns the byte offset and tree-sitter point of a rune offset.
func (sb *SliceBuffer) pointAt(pos int) (uint32, sitter.Point) {
	var byteOff, col uint32
	var row uint32
	for _, r := range sb.text[:pos] {
		n := uint32(utf8.RuneLen(r))
		byteOff += n
		if r == '\n' {
			row++
			col = 0
		} else {
			col += n
		}
	}
	return byteOff, sitter.Point{Row: row, Column: col}
}

func (sb *SliceBuffer) notify(edit types.EditInfo) {
	if sb.events != nil {
		sb.events.Dispatch(event.TypeBufferModified, event.BufferModifiedData{Edit: edit})
	}
}

// --- Edit groups & history ---

func (sb *SliceBuffer) BeginUserAction() { sb.history.BeginGroup() }
func (sb *SliceBuffer) EndUserAction()   { sb.history.EndGroup() }

// Undo reverts the last user action. It returns false if there was none.
func (sb *SliceBuffer) Undo() (bool, error) {
	return sb.history.Undo(replayer{sb})
}

// Redo reapplies the last undone user action.
func (sb *SliceBuffer) Redo() (bool, error) {
	return sb.history.Redo(replayer{sb})
}

// replayer applies history without recording it again.
type replayer struct{ sb *SliceBuffer }

func (r replayer) ApplyInsert(pos int, text string) error { return r.sb.insert(pos, text) }

func (r replayer) ApplyDelete(start, end int) error {
	if start < 0 || end > len(r.sb.text) || start > end {
		return fmt.Errorf("delete [%d,%d) (len %d): %w", start, end, len(r.sb.text), ErrOffsetOutOfRange)
	}
	r.sb.delete(start, end)
	return nil
}

// --- Markers ---

// CreateMarker registers a marker at pos (clamped). It must be released
// with ReleaseMarker once no longer needed.
func (sb *SliceBuffer) CreateMarker(pos int, gravity Gravity) MarkerID {
	return sb.markers.create(sb.clamp(pos), gravity)
}

// MarkerOffset returns the current offset of a live marker.
func (sb *SliceBuffer) MarkerOffset(id MarkerID) (int, error) {
	m, err := sb.markers.get(id)
	if err != nil {
		return 0, err
	}
	return m.offset, nil
}

// MoveMarker places a live marker at pos (clamped).
func (sb *SliceBuffer) MoveMarker(id MarkerID, pos int) error {
	m, err := sb.markers.get(id)
	if err != nil {
		return err
	}
	m.offset = sb.clamp(pos)
	return nil
}

// ReleaseMarker unregisters a marker. Releasing twice is a no-op.
func (sb *SliceBuffer) ReleaseMarker(id MarkerID) {
	sb.markers.release(id)
}

// MarkerCount returns the number of live markers.
func (sb *SliceBuffer) MarkerCount() int {
	return sb.markers.count()
}

// Ensure SliceBuffer satisfies the Buffer interface
var _ Buffer = (*SliceBuffer)(nil)
