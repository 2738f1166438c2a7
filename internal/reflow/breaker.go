package reflow

import (
	"strings"

	"github.com/bethropolis/reflow/internal/buffer"
	"github.com/bethropolis/reflow/internal/logger"
	"github.com/bethropolis/reflow/internal/syntax"
	"github.com/rivo/uniseg"
)

// Options control the layout of a broken call.
type Options struct {
	// SpaceBeforeParen inserts a space between the function name and '('
	// when there is none.
	SpaceBeforeParen bool
}

// BreakCall rewrites the call on the line containing pos so every argument
// after the first starts on its own line, aligned under the first one:
//
//	foo (alpha,
//	     beta,
//	     gamma)
//
// Nothing is edited when the call cannot be located.
func BreakCall(buf buffer.Buffer, classes syntax.Classifier, pos int, opts Options) (*Call, error) {
	call, err := Locate(buf, classes, pos)
	if err != nil {
		return nil, err
	}

	parts := call.args([]rune(buf.Slice(call.Open, call.Close+1)))

	// Continuation lines start one column past '(' of the call.
	numSpaces := columns(buf.Slice(call.WordStart, call.Open)) + 1

	paren := "("
	if opts.SpaceBeforeParen && call.Open > call.WordStart {
		if r, ok := buf.RuneAt(call.Open - 1); ok && r != ' ' {
			paren = " ("
			numSpaces++
		}
	}

	indent := buf.Slice(call.LineStart, call.WordStart) + strings.Repeat(" ", numSpaces)
	text := paren + strings.Join(parts, ",\n"+indent)

	buf.BeginUserAction()
	defer buf.EndUserAction()

	if err := buf.Delete(call.Open, call.Close); err != nil {
		return nil, err
	}
	if err := buf.Insert(call.Open, text); err != nil {
		return nil, err
	}

	logger.DebugTagf("reflow", "broke call at %d into %d arguments", call.Open, len(parts))
	return call, nil
}

// columns is the display width of s with a tab counted as one column.
func columns(s string) int {
	return uniseg.StringWidth(strings.ReplaceAll(s, "\t", " "))
}
