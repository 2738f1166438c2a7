// Package editor binds a buffer to its cursor, selection and language.
package editor

import (
	"github.com/bethropolis/reflow/internal/buffer"
	"github.com/bethropolis/reflow/internal/event"
	"github.com/bethropolis/reflow/internal/logger"
	"github.com/bethropolis/reflow/internal/syntax"
	"github.com/bethropolis/reflow/internal/syntax/lang"
	"github.com/bethropolis/reflow/internal/types"
)

// View is the active text view commands operate on. The cursor ("insert")
// and the other end of the selection ("selection bound") are buffer
// markers, so they follow edits made anywhere in the buffer.
type View struct {
	buf      *buffer.SliceBuffer
	events   *event.Manager
	language *lang.Language
	classes  syntax.Classifier
	parser   *syntax.TreeSitter

	insert buffer.MarkerID
	bound  buffer.MarkerID
}

// NewView creates a view on buf with the cursor at offset 0. A nil
// language yields a view without comment/string detection whose content
// type is unknown.
func NewView(buf *buffer.SliceBuffer, language *lang.Language, events *event.Manager) (*View, error) {
	v := &View{
		buf:      buf,
		events:   events,
		language: language,
		classes:  syntax.None,
	}

	if language != nil && language.TreeSitterLang != nil {
		ts, err := syntax.NewTreeSitter(buf, language)
		if err != nil {
			return nil, err
		}
		if events != nil {
			ts.Attach(events)
		}
		v.parser = ts
		v.classes = ts
	}

	v.insert = buf.CreateMarker(0, buffer.RightGravity)
	v.bound = buf.CreateMarker(0, buffer.RightGravity)
	return v, nil
}

// Close releases the view's markers and parser.
func (v *View) Close() {
	v.buf.ReleaseMarker(v.insert)
	v.buf.ReleaseMarker(v.bound)
	if v.parser != nil {
		v.parser.Close()
		v.parser = nil
	}
}

func (v *View) Buffer() *buffer.SliceBuffer { return v.buf }

func (v *View) Classifier() syntax.Classifier { return v.classes }

// Language returns the detected language, or nil.
func (v *View) Language() *lang.Language { return v.language }

// ContentType returns the content type used for command dispatch.
func (v *View) ContentType() lang.ContentType {
	if v.language == nil {
		return lang.ContentUnknown
	}
	return v.language.ID
}

// Cursor returns the cursor offset.
func (v *View) Cursor() int {
	return v.offset(v.insert)
}

// CursorPosition returns the cursor as a line/column position.
func (v *View) CursorPosition() types.Position {
	return v.buf.PositionOf(v.Cursor())
}

// PlaceCursor moves the cursor to pos and clears the selection.
func (v *View) PlaceCursor(pos int) {
	v.SelectRange(pos, pos)
}

// SelectRange puts the cursor at ins and the selection bound at bound.
func (v *View) SelectRange(ins, bound int) {
	if err := v.buf.MoveMarker(v.insert, ins); err != nil {
		logger.Warnf("View.SelectRange: %v", err)
		return
	}
	if err := v.buf.MoveMarker(v.bound, bound); err != nil {
		logger.Warnf("View.SelectRange: %v", err)
		return
	}
	logger.DebugTagf("editor", "cursor %d, selection bound %d", v.Cursor(), v.offset(v.bound))

	if v.events != nil {
		v.events.Dispatch(event.TypeCursorMoved, event.CursorMovedData{
			Cursor:         v.Cursor(),
			SelectionBound: v.offset(v.bound),
		})
	}
}

// Selection returns the selected range with start <= end. ok is false when
// nothing is selected.
func (v *View) Selection() (start, end int, ok bool) {
	start, end = v.Cursor(), v.offset(v.bound)
	if start > end {
		start, end = end, start
	}
	return start, end, start != end
}

// HasSelection returns whether a non-empty range is selected.
func (v *View) HasSelection() bool {
	_, _, ok := v.Selection()
	return ok
}

// ClearSelection collapses the selection onto the cursor.
func (v *View) ClearSelection() {
	v.PlaceCursor(v.Cursor())
}

func (v *View) offset(id buffer.MarkerID) int {
	pos, err := v.buf.MarkerOffset(id)
	if err != nil {
		logger.Warnf("View: %v", err)
		return 0
	}
	return pos
}
