// Package history provides undo/redo over groups of buffer changes.
package history

// ActionType indicates whether text was inserted or deleted.
type ActionType int

const (
	InsertAction ActionType = iota
	DeleteAction
)

func (a ActionType) String() string {
	if a == InsertAction {
		return "insert"
	}
	return "delete"
}

// Change is a single reversible text operation in rune offsets.
type Change struct {
	Type  ActionType
	Text  string // Text inserted or text deleted
	Start int    // Offset where the change began
}

// End is the offset just past the affected text.
func (c Change) End() int {
	return c.Start + len([]rune(c.Text))
}

// Target is what changes are replayed against. Implementations must not
// record the replayed edits into history again.
type Target interface {
	ApplyInsert(pos int, text string) error
	ApplyDelete(start, end int) error
}

// group is one undo step.
type group []Change
