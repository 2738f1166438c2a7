package align

import (
	"strings"

	"github.com/bethropolis/reflow/internal/buffer"
	"github.com/bethropolis/reflow/internal/logger"
	"github.com/rivo/uniseg"
)

// ColumnWidths are the widest values of each column across a batch. The
// argument columns are pooled over every argument of every declaration.
type ColumnWidths struct {
	Type       int
	Pointer    int
	Name       int
	ArgType    int
	ArgPointer int
	ArgName    int
}

// Measure computes the column widths of decls. Arguments without a name
// do not contribute to the argument columns.
func Measure(decls []*Declaration) ColumnWidths {
	var w ColumnWidths
	for _, d := range decls {
		w.Type = max(w.Type, width(d.Type))
		w.Pointer = max(w.Pointer, width(d.Pointer))
		w.Name = max(w.Name, width(d.Name))
		for _, a := range d.Args {
			// void and bare types are written as is.
			if a.Name == "" {
				continue
			}
			w.ArgType = max(w.ArgType, width(a.Type))
			w.ArgPointer = max(w.ArgPointer, width(a.Pointer))
			w.ArgName = max(w.ArgName, width(a.Name))
		}
	}
	return w
}

// Result is where the aligned region ended up.
type Result struct {
	Start, End int
	// Selected reports whether the region came from a selection, which
	// should be restored over Start..End; otherwise the cursor goes to Start.
	Selected bool
}

// Align rewrites every declaration in b padded to the batch's column
// widths, as one undoable edit:
//
//	void         foo (int   x);
//	static char *bar (int   y,
//	                  char *z);
//
// The batch's markers are released on return.
func Align(b *Batch) (Result, error) {
	defer b.Release()

	w := Measure(b.Decls)
	logger.DebugTagf("align", "column widths %+v", w)

	b.buf.BeginUserAction()
	defer b.buf.EndUserAction()

	for _, d := range b.Decls {
		if err := d.align(b.buf, w); err != nil {
			return Result{}, err
		}
	}

	start, err := b.buf.MarkerOffset(b.start)
	if err != nil {
		return Result{}, err
	}
	end, err := b.buf.MarkerOffset(b.end)
	if err != nil {
		return Result{}, err
	}
	return Result{Start: start, End: end, Selected: b.selected}, nil
}

func (d *Declaration) align(buf buffer.Buffer, w ColumnWidths) error {
	typ := d.Type + " " + pad(w.Type-width(d.Type)+w.Pointer-width(d.Pointer)) + d.Pointer
	if err := replace(buf, d.typeSpan, typ); err != nil {
		return err
	}

	name := d.Name + pad(w.Name-width(d.Name)) + " "
	if err := replace(buf, d.nameSpan, name); err != nil {
		return err
	}

	argsStart, err := buf.MarkerOffset(d.argsSpan.start)
	if err != nil {
		return err
	}
	column := width(buf.Slice(buf.LineStart(argsStart), argsStart))

	args := make([]string, 0, len(d.Args))
	for i, a := range d.Args {
		var sb strings.Builder
		if i > 0 {
			sb.WriteString(pad(column))
		}
		if a.Name != "" {
			sb.WriteString(a.Type)
			sb.WriteString(" ")
			sb.WriteString(pad(w.ArgType - width(a.Type) + w.ArgPointer - width(a.Pointer)))
			sb.WriteString(a.Pointer)
			sb.WriteString(a.Name)
		} else {
			sb.WriteString(a.Type)
		}
		args = append(args, sb.String())
	}
	return replace(buf, d.argsSpan, strings.Join(args, ",\n"))
}

// replace swaps the text between a span's markers for s.
func replace(buf buffer.Buffer, sp span, s string) error {
	start, err := buf.MarkerOffset(sp.start)
	if err != nil {
		return err
	}
	end, err := buf.MarkerOffset(sp.end)
	if err != nil {
		return err
	}
	if err := buf.Delete(start, end); err != nil {
		return err
	}
	return buf.Insert(start, s)
}

func width(s string) int {
	return uniseg.StringWidth(s)
}

func pad(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
