package align

import (
	"strings"
	"testing"

	"github.com/bethropolis/reflow/internal/buffer"
	"github.com/bethropolis/reflow/internal/syntax"
	"github.com/bethropolis/reflow/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Parse/Align:
// - declarations decompose into type, pointer, name and arguments
// - aligned output for the documented examples, names on one column
// - running twice changes nothing
// - cursor mode stops at the next ';' and indentation is dropped
// - no marker outlives a call, on success or failure
// - the batch undoes as one step

func alignAll(t *testing.T, sb *buffer.SliceBuffer) Result {
	t.Helper()
	b, err := Parse(sb, nil, Region{Start: 0, End: sb.Len(), Selected: true})
	require.NoError(t, err)
	res, err := Align(b)
	require.NoError(t, err)
	assert.Zero(t, sb.MarkerCount())
	return res
}

func TestParseDeclarations(t *testing.T) {
	sb := buffer.NewSliceBufferString("const char **name_of (GObject *obj, guint  n);\nvoid reset(void);\nint  now();\n")
	b, err := Parse(sb, nil, Region{Start: 0, End: sb.Len(), Selected: true})
	require.NoError(t, err)
	defer b.Release()

	require.Len(t, b.Decls, 3)

	d := b.Decls[0]
	assert.Equal(t, "const char", d.Type)
	assert.Equal(t, "**", d.Pointer)
	assert.Equal(t, "name_of", d.Name)
	assert.Equal(t, []Argument{
		{Type: "GObject", Pointer: "*", Name: "obj"},
		{Type: "guint", Pointer: "", Name: "n"},
	}, d.Args)

	assert.Equal(t, []Argument{{Type: "void"}}, b.Decls[1].Args)
	assert.Empty(t, b.Decls[2].Args)

	w := Measure(b.Decls)
	assert.Equal(t, ColumnWidths{Type: 10, Pointer: 2, Name: 7, ArgType: 7, ArgPointer: 1, ArgName: 3}, w)
}

func TestParseArgumentFallback(t *testing.T) {
	assert.Equal(t, Argument{Type: "unsigned int", Name: "x"}, parseArg("unsigned   int  x"))
	assert.Equal(t, Argument{Type: "char", Pointer: "**", Name: "argv"}, parseArg("char * *argv"))
	assert.Equal(t, Argument{Type: "int"}, parseArg("int"))
	assert.Equal(t, Argument{Type: "..."}, parseArg("..."))
}

func TestAlignPointerDeclarations(t *testing.T) {
	sb := buffer.NewSliceBufferString("void foo(int x);\nstatic char *bar(int y, char *z);\n")
	alignAll(t, sb)

	want := "void         foo (int   x);\n" +
		"static char *bar (int   y,\n" +
		"                  char *z);\n"
	assert.Equal(t, want, sb.Text())

	lines := strings.Split(sb.Text(), "\n")
	assert.Equal(t, strings.Index(lines[0], "foo"), strings.Index(lines[1], "bar"))
	assert.Equal(t, strings.Index(lines[1], "*")+1, strings.Index(lines[1], "bar"))
}

func TestAlignTypeColumn(t *testing.T) {
	sb := buffer.NewSliceBufferString("int foo(char c);\nunsigned long bar(int x, char *y);")
	alignAll(t, sb)

	want := "int           foo (char  c);\n" +
		"unsigned long bar (int   x,\n" +
		"                   char *y);"
	assert.Equal(t, want, sb.Text())

	lines := strings.Split(sb.Text(), "\n")
	assert.Equal(t, len("unsigned long")+1, strings.Index(lines[0], "foo"))
	assert.Equal(t, strings.Index(lines[0], "foo"), strings.Index(lines[1], "bar"))
}

func TestAlignIsIdempotent(t *testing.T) {
	inputs := []string{
		"void foo(int x);\nstatic char *bar(int y, char *z);\n",
		"int foo(char c);\nunsigned long bar(int x, char *y);",
		"GtkWidget *gtk_label_new (const gchar *str);\nvoid gtk_label_set_text (GtkLabel *label, const gchar *str);\nvoid gtk_label_clear(void);\n",
	}
	for _, src := range inputs {
		sb := buffer.NewSliceBufferString(src)
		alignAll(t, sb)
		once := sb.Text()
		alignAll(t, sb)
		assert.Equal(t, once, sb.Text())
	}
}

func TestAlignDropsIndentation(t *testing.T) {
	sb := buffer.NewSliceBufferString("  int a(void);\n  long bb(void);\n")
	alignAll(t, sb)
	assert.Equal(t, "int  a  (void);\nlong bb (void);\n", sb.Text())
}

func TestAlignAtCursor(t *testing.T) {
	src := "int  foo (void);\nlong other(int x);\n"
	sb := buffer.NewSliceBufferString(src)

	b, err := Parse(sb, nil, Region{Start: 3})
	require.NoError(t, err)
	require.Len(t, b.Decls, 1)

	res, err := Align(b)
	require.NoError(t, err)
	assert.Equal(t, "int foo (void);\nlong other(int x);\n", sb.Text())
	assert.False(t, res.Selected)
	assert.Equal(t, 0, res.Start)
	assert.Zero(t, sb.MarkerCount())
}

func TestAlignRestoresSelection(t *testing.T) {
	sb := buffer.NewSliceBufferString("int a(int x);\nlong b(long y);\n")
	res := alignAll(t, sb)
	assert.True(t, res.Selected)
	assert.Equal(t, 0, res.Start)
	assert.Equal(t, sb.Len(), res.End)
}

func TestParseSemicolonInComment(t *testing.T) {
	src := "int f(int a) /* ; */;\n"
	sb := buffer.NewSliceBufferString(src)
	classes := syntax.NewSpans(syntax.Span{Start: 13, End: 20, Class: syntax.ClassComment})

	b, err := Parse(sb, classes, Region{Start: 0})
	require.NoError(t, err)
	defer b.Release()
	assert.Len(t, b.Decls, 1)
}

func TestParseFailures(t *testing.T) {
	t.Run("no terminator", func(t *testing.T) {
		sb := buffer.NewSliceBufferString("int foo(void)")
		_, err := Parse(sb, nil, Region{Start: 0})
		assert.ErrorIs(t, err, types.ErrStructureNotFound)
		assert.EqualError(t, err, "Could not find end of line to indent")
		assert.Zero(t, sb.MarkerCount())
	})

	t.Run("no declaration", func(t *testing.T) {
		sb := buffer.NewSliceBufferString("int x;\nchar y;\n")
		_, err := Parse(sb, nil, Region{Start: 0, End: sb.Len(), Selected: true})
		assert.ErrorIs(t, err, types.ErrStructureNotFound)
		assert.Zero(t, sb.MarkerCount())
		assert.False(t, sb.IsModified())
	})
}

func TestAlignUndoesAtOnce(t *testing.T) {
	src := "void foo(int x);\nstatic char *bar(int y, char *z);\n"
	sb := buffer.NewSliceBufferString(src)
	alignAll(t, sb)
	require.NotEqual(t, src, sb.Text())

	undone, err := sb.Undo()
	require.NoError(t, err)
	assert.True(t, undone)
	assert.Equal(t, src, sb.Text())
}

func TestAlignVoidAddsNoArgumentWidth(t *testing.T) {
	sb := buffer.NewSliceBufferString("void foo(void);\nint bar(int x);\nchar baz(int);\n")
	alignAll(t, sb)

	want := "void foo (void);\n" +
		"int  bar (int x);\n" +
		"char baz (int);\n"
	assert.Equal(t, want, sb.Text())
}

func TestParseSelectionEndingAtLineStart(t *testing.T) {
	sb := buffer.NewSliceBufferString("int a(int x);\nlong bb(long y);\nchar c(void);\n")
	end := sb.LineStart(len("int a(int x);\n"))

	b, err := Parse(sb, nil, Region{Start: 0, End: end, Selected: true})
	require.NoError(t, err)
	require.Len(t, b.Decls, 1)

	res, err := Align(b)
	require.NoError(t, err)
	assert.Equal(t, "int a (int x);\nlong bb(long y);\nchar c(void);\n", sb.Text())
	assert.Equal(t, 0, res.Start)
	assert.Equal(t, len("int a (int x);\n"), res.End)
}
