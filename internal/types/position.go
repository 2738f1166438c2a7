// internal/types/position.go
package types

import "fmt"

// Position is a line/column location in a buffer.
// Line is the 0-based line index.
// Col is the 0-based rune index within the line.
type Position struct {
	Line int
	Col  int // Rune index
}

// String renders the position 1-based, the way editors show it to users.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Col+1)
}

// Compare returns -1, 0 or 1 depending on whether p sorts before, equal to,
// or after other.
func (p Position) Compare(other Position) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Col < other.Col:
		return -1
	case p.Col > other.Col:
		return 1
	}
	return 0
}
