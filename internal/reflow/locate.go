// Package reflow breaks a call's argument list across lines.
package reflow

import (
	"strings"

	"github.com/bethropolis/reflow/internal/buffer"
	"github.com/bethropolis/reflow/internal/scan"
	"github.com/bethropolis/reflow/internal/syntax"
	"github.com/bethropolis/reflow/internal/types"
)

// Call is the argument list of a call found on a line.
type Call struct {
	LineStart int // start of the line the call is on
	WordStart int // first non-space character of that line
	Open      int // offset of '('
	Close     int // offset of the matching ')'
	// Commas holds the depth-0 separators, relative to Open.
	Commas []int
}

// args splits text, the buffer slice [Open, Close], into trimmed arguments.
func (c *Call) args(text []rune) []string {
	breaks := make([]int, 0, len(c.Commas)+2)
	breaks = append(breaks, 0)
	breaks = append(breaks, c.Commas...)
	breaks = append(breaks, len(text)-1)

	parts := make([]string, 0, len(breaks)-1)
	for i := 1; i < len(breaks); i++ {
		parts = append(parts, strings.TrimSpace(string(text[breaks[i-1]+1:breaks[i]])))
	}
	return parts
}

// Locate finds the call on the line containing pos: the first '(' on that
// line, its matching ')' and the commas between them at depth 0.
func Locate(buf buffer.Buffer, classes syntax.Classifier, pos int) (*Call, error) {
	lineStart := buf.LineStart(pos)
	lineEnd := buf.LineEnd(pos)

	wordStart, ok := scan.SkipSpace(buf, lineStart, lineEnd)
	if !ok {
		return nil, types.Failf(types.ErrStructureNotFound, "Nothing to indent")
	}

	s := scan.New(buf, classes)

	open, err := s.Scan(wordStart, '(', scan.Options{Boundary: lineEnd})
	if err != nil {
		return nil, types.Failf(types.ErrStructureNotFound, "No function call on this line")
	}

	closeParen, err := s.Scan(open+1, ')', scan.Options{Open: '(', Close: ')'})
	if err != nil {
		return nil, types.Failf(types.ErrUnbalanced, "Could not find the closing parenthesis: %v", err)
	}

	call := &Call{
		LineStart: lineStart,
		WordStart: wordStart,
		Open:      open,
		Close:     closeParen,
	}

	next := open + 1
	for {
		comma, err := s.Scan(next, ',', scan.Options{Boundary: closeParen, Open: '(', Close: ')'})
		if err != nil {
			break
		}
		call.Commas = append(call.Commas, comma-open)
		next = comma + 1
	}

	if len(call.Commas) == 0 {
		return nil, types.Failf(types.ErrStructureNotFound, "Nothing to break: the call has fewer than two arguments")
	}
	return call, nil
}
