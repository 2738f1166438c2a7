package buffer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bethropolis/reflow/internal/event"
	"github.com/bethropolis/reflow/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for SliceBuffer:
// - reading helpers (Slice, RuneAt, line bounds, position conversion)
// - insert/delete mutate text, reject bad offsets, clamp/swap ranges
// - markers follow edits according to gravity and collapse on deletion
// - released markers are reported and their slots reused
// - user actions undo/redo as one step
// - BufferModified carries byte/point edit info
// - Load/Save round trip through the filesystem

func TestReading(t *testing.T) {
	sb := NewSliceBufferString("int a;\n  héllo(x);\n")

	assert.Equal(t, 19, sb.Len())
	assert.Equal(t, "héllo", sb.Slice(9, 14))
	assert.Equal(t, "", sb.Slice(5, 2))

	r, ok := sb.RuneAt(10)
	assert.True(t, ok)
	assert.Equal(t, 'é', r)
	_, ok = sb.RuneAt(19)
	assert.False(t, ok)

	assert.Equal(t, 7, sb.LineStart(12))
	assert.Equal(t, 18, sb.LineEnd(12))
	assert.Equal(t, 5, sb.LineColumn(12))
	assert.Equal(t, 3, sb.LineCount())

	assert.Equal(t, types.Position{Line: 1, Col: 5}, sb.PositionOf(12))
	assert.Equal(t, 12, sb.OffsetOf(types.Position{Line: 1, Col: 5}))
	assert.Equal(t, 18, sb.OffsetOf(types.Position{Line: 1, Col: 99}))
	assert.Equal(t, 19, sb.OffsetOf(types.Position{Line: 7, Col: 0}))
}

func TestInsertDelete(t *testing.T) {
	sb := NewSliceBufferString("f(a,b)")

	require.NoError(t, sb.Insert(4, " "))
	assert.Equal(t, "f(a, b)", sb.Text())
	assert.True(t, sb.IsModified())

	err := sb.Insert(99, "x")
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)

	require.NoError(t, sb.Delete(6, 2)) // swapped
	assert.Equal(t, "f()", sb.Text())

	require.NoError(t, sb.Delete(2, 100)) // clamped
	assert.Equal(t, "f(", sb.Text())
}

func TestMarkers_Gravity(t *testing.T) {
	sb := NewSliceBufferString("abcdef")
	left := sb.CreateMarker(3, LeftGravity)
	right := sb.CreateMarker(3, RightGravity)
	after := sb.CreateMarker(5, RightGravity)

	require.NoError(t, sb.Insert(3, "XYZ"))

	off, err := sb.MarkerOffset(left)
	require.NoError(t, err)
	assert.Equal(t, 3, off)
	off, _ = sb.MarkerOffset(right)
	assert.Equal(t, 6, off)
	off, _ = sb.MarkerOffset(after)
	assert.Equal(t, 8, off)

	// Deleting a range that contains a marker collapses it to the start.
	require.NoError(t, sb.Delete(2, 7))
	off, _ = sb.MarkerOffset(right)
	assert.Equal(t, 2, off)
	off, _ = sb.MarkerOffset(after)
	assert.Equal(t, 3, off)
	assert.Equal(t, "abef", sb.Text())
}

func TestMarkers_ReleaseAndReuse(t *testing.T) {
	sb := NewSliceBufferString("abc")
	a := sb.CreateMarker(1, RightGravity)
	b := sb.CreateMarker(2, RightGravity)
	assert.Equal(t, 2, sb.MarkerCount())

	sb.ReleaseMarker(a)
	sb.ReleaseMarker(a)
	assert.Equal(t, 1, sb.MarkerCount())

	_, err := sb.MarkerOffset(a)
	assert.ErrorIs(t, err, types.ErrMarkerReleased)
	assert.ErrorIs(t, sb.MoveMarker(a, 0), types.ErrMarkerReleased)

	c := sb.CreateMarker(99, LeftGravity)
	assert.Equal(t, a, c, "released slot is reused")
	off, _ := sb.MarkerOffset(c)
	assert.Equal(t, 3, off, "offset is clamped")

	require.NoError(t, sb.MoveMarker(b, 0))
	off, _ = sb.MarkerOffset(b)
	assert.Equal(t, 0, off)
}

func TestUserAction_UndoRedo(t *testing.T) {
	sb := NewSliceBufferString("f(a, b)")

	sb.BeginUserAction()
	require.NoError(t, sb.Delete(1, 6))
	require.NoError(t, sb.Insert(1, " (a,\n   b"))
	sb.EndUserAction()
	assert.Equal(t, "f (a,\n   b)", sb.Text())

	ok, err := sb.Undo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "f(a, b)", sb.Text())

	ok, err = sb.Redo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "f (a,\n   b)", sb.Text())
}

func TestBufferModified_EditInfo(t *testing.T) {
	sb := NewSliceBufferString("é\nab")
	events := event.NewManager()
	sb.SetEventManager(events)

	var edits []types.EditInfo
	events.Subscribe(event.TypeBufferModified, func(e event.Event) bool {
		edits = append(edits, e.Data.(event.BufferModifiedData).Edit)
		return false
	})

	require.NoError(t, sb.Insert(3, "xy"))
	require.NoError(t, sb.Delete(0, 2))
	require.Len(t, edits, 2)

	ins := edits[0]
	assert.Equal(t, uint32(4), ins.StartIndex) // 'é' is two bytes
	assert.Equal(t, uint32(6), ins.NewEndIndex)
	assert.Equal(t, uint32(1), ins.StartPosition.Row)
	assert.Equal(t, uint32(1), ins.StartPosition.Column)

	del := edits[1]
	assert.Equal(t, uint32(0), del.StartIndex)
	assert.Equal(t, uint32(3), del.OldEndIndex)
	assert.Equal(t, uint32(1), del.OldEndPosition.Row)
	assert.Equal(t, uint32(0), del.OldEndPosition.Column)
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "decl.h")
	require.NoError(t, os.WriteFile(path, []byte("int foo(void);\n"), 0o644))

	sb := NewSliceBuffer()
	require.NoError(t, sb.Load(path))
	assert.Equal(t, "int foo(void);\n", sb.Text())
	assert.False(t, sb.IsModified())

	require.NoError(t, sb.Insert(0, "extern "))
	out := filepath.Join(dir, "out.h")
	require.NoError(t, sb.Save(out))
	assert.False(t, sb.IsModified())
	assert.Equal(t, out, sb.FilePath())

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "extern int foo(void);\n", string(content))

	missing := NewSliceBuffer()
	require.NoError(t, missing.Load(filepath.Join(dir, "new.c")))
	assert.Equal(t, 0, missing.Len())
	assert.Error(t, NewSliceBuffer().Save(""))
}
