// Package align lines up the columns of consecutive C function declarations.
package align

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bethropolis/reflow/internal/buffer"
	"github.com/bethropolis/reflow/internal/logger"
	"github.com/bethropolis/reflow/internal/scan"
	"github.com/bethropolis/reflow/internal/syntax"
	"github.com/bethropolis/reflow/internal/types"
)

var (
	// type, pointer stars, name, parameter list, up to and including ';'
	declPattern = regexp.MustCompile(`\s*([^(]+?)(\**)([A-Za-z_][A-Za-z0-9_]*\s*)\(([^)]*)\)[^;]*;\s*`)
	argPattern  = regexp.MustCompile(`^(.+?)([ *]+)([A-Za-z_][A-Za-z0-9_]*)$`)
	spaceRun    = regexp.MustCompile(`\s+`)
)

// Argument is one parameter of a declaration. A parameter without a name,
// such as void, has only a Type.
type Argument struct {
	Type    string
	Pointer string
	Name    string
}

// Declaration is a parsed function declaration. The spans track the text
// each column occupies in the buffer.
type Declaration struct {
	Type    string
	Pointer string
	Name    string
	Args    []Argument

	typeSpan span
	nameSpan span
	argsSpan span
}

type span struct {
	start, end buffer.MarkerID
}

// Region is the text to parse: a selection, or a cursor position when
// Selected is false.
type Region struct {
	Start, End int
	Selected   bool
}

// Batch is a set of declarations parsed from one region. Its markers stay
// registered with the buffer until Release.
type Batch struct {
	Decls []*Declaration

	buf      buffer.Buffer
	selected bool
	start    buffer.MarkerID
	end      buffer.MarkerID
	markers  []buffer.MarkerID
}

// Parse collects the declarations in r. Without a selection the region runs
// from the cursor to the next ';' outside comments and strings. The region
// is widened to whole lines before matching.
func Parse(buf buffer.Buffer, classes syntax.Classifier, r Region) (*Batch, error) {
	start, end := r.Start, r.End
	if start > end {
		start, end = end, start
	}
	if !r.Selected {
		semi, err := scan.New(buf, classes).Scan(start, ';', scan.Options{})
		if err != nil {
			return nil, types.Failf(types.ErrStructureNotFound, "Could not find end of line to indent")
		}
		end = semi
	}

	b := &Batch{buf: buf, selected: r.Selected}
	b.start = b.mark(start, buffer.LeftGravity)
	b.end = b.mark(end, buffer.RightGravity)

	// A selection ending at the start of a line does not include that line.
	last := end
	if r.Selected && last > start && last == buf.LineStart(last) {
		last--
	}
	from := buf.LineStart(start)
	text := buf.Slice(from, buf.LineEnd(last))

	for _, m := range declPattern.FindAllStringSubmatchIndex(text, -1) {
		at := func(byteOff int) int {
			return from + utf8.RuneCountInString(text[:byteOff])
		}

		d := &Declaration{
			Type:    normalize(text[m[2]:m[3]]),
			Pointer: strings.TrimSpace(text[m[4]:m[5]]),
			Name:    strings.TrimSpace(text[m[6]:m[7]]),
			Args:    parseArgs(text[m[8]:m[9]]),
		}
		d.typeSpan = b.span(b.snapToLineStart(at(m[2])), at(m[5]))
		d.nameSpan = b.span(at(m[6]), at(m[7]))
		d.argsSpan = b.span(at(m[8]), at(m[9]))
		b.Decls = append(b.Decls, d)
	}

	if len(b.Decls) == 0 {
		b.Release()
		return nil, types.Failf(types.ErrStructureNotFound, "No declarations found")
	}
	logger.DebugTagf("align", "parsed %d declarations in [%d,%d)", len(b.Decls), start, end)
	return b, nil
}

// parseArgs splits a parameter list on commas. Nested parentheses, such as
// function pointer parameters, are not supported.
func parseArgs(list string) []Argument {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	pieces := strings.Split(list, ",")
	args := make([]Argument, 0, len(pieces))
	for _, piece := range pieces {
		args = append(args, parseArg(strings.TrimSpace(piece)))
	}
	return args
}

func parseArg(arg string) Argument {
	if arg == "void" {
		return Argument{Type: arg}
	}
	m := argPattern.FindStringSubmatch(arg)
	if m == nil {
		return Argument{Type: normalize(arg)}
	}
	return Argument{
		Type:    normalize(m[1]),
		Pointer: strings.ReplaceAll(m[2], " ", ""),
		Name:    m[3],
	}
}

func normalize(s string) string {
	return spaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

// snapToLineStart moves pos to the start of its line when only whitespace
// precedes it, so realignment also drops indentation.
func (b *Batch) snapToLineStart(pos int) int {
	lineStart := b.buf.LineStart(pos)
	if strings.TrimSpace(b.buf.Slice(lineStart, pos)) == "" {
		return lineStart
	}
	return pos
}

func (b *Batch) mark(pos int, gravity buffer.Gravity) buffer.MarkerID {
	id := b.buf.CreateMarker(pos, gravity)
	b.markers = append(b.markers, id)
	return id
}

func (b *Batch) span(start, end int) span {
	return span{
		start: b.mark(start, buffer.RightGravity),
		end:   b.mark(end, buffer.RightGravity),
	}
}

// Release unregisters every marker of the batch. It is safe to call twice.
func (b *Batch) Release() {
	for _, id := range b.markers {
		b.buf.ReleaseMarker(id)
	}
	b.markers = nil
}
