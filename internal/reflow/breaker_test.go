package reflow

import (
	"strings"
	"testing"

	"github.com/bethropolis/reflow/internal/buffer"
	"github.com/bethropolis/reflow/internal/syntax"
	"github.com/bethropolis/reflow/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for BreakCall:
// - the documented process_data layout with and without the space before '('
// - nested calls and commented commas stay inside their argument
// - arguments survive the rewrite verbatim
// - single-argument, blank, paren-less and unbalanced lines edit nothing
// - the whole rewrite undoes in one step

func TestBreakCallProcessData(t *testing.T) {
	src := "  process_data(input_buffer, output_buffer, length, flags);\n"

	t.Run("no space before paren", func(t *testing.T) {
		sb := buffer.NewSliceBufferString(src)
		_, err := BreakCall(sb, nil, 5, Options{})
		require.NoError(t, err)

		want := "  process_data(input_buffer,\n" +
			"               output_buffer,\n" +
			"               length,\n" +
			"               flags);\n"
		assert.Equal(t, want, sb.Text())

		lines := strings.Split(strings.TrimSuffix(sb.Text(), "\n"), "\n")
		require.Len(t, lines, 4)
		col := strings.Index(lines[0], "(") + 1
		for _, l := range lines[1:] {
			assert.Equal(t, col, len(l)-len(strings.TrimLeft(l, " ")))
		}
	})

	t.Run("space before paren", func(t *testing.T) {
		sb := buffer.NewSliceBufferString(src)
		_, err := BreakCall(sb, nil, 5, Options{SpaceBeforeParen: true})
		require.NoError(t, err)

		want := "  process_data (input_buffer,\n" +
			"                output_buffer,\n" +
			"                length,\n" +
			"                flags);\n"
		assert.Equal(t, want, sb.Text())
	})
}

func TestBreakCallNested(t *testing.T) {
	sb := buffer.NewSliceBufferString("\tx = f(g(a, b), c);")
	call, err := BreakCall(sb, nil, 0, Options{SpaceBeforeParen: true})
	require.NoError(t, err)
	assert.Equal(t, []int{8}, call.Commas)
	assert.Equal(t, "\tx = f (g(a, b),\n\t       c);", sb.Text())
}

func TestBreakCallCountsEmbeddedTab(t *testing.T) {
	sb := buffer.NewSliceBufferString("x =\tf(a, b);")
	_, err := BreakCall(sb, nil, 0, Options{SpaceBeforeParen: true})
	require.NoError(t, err)
	assert.Equal(t, "x =\tf (a,\n       b);", sb.Text())
}

func TestBreakCallSkipsComments(t *testing.T) {
	src := "f(a /* , */, b);"
	sb := buffer.NewSliceBufferString(src)
	classes := syntax.NewSpans(syntax.Span{Start: 4, End: 11, Class: syntax.ClassComment})

	_, err := BreakCall(sb, classes, 0, Options{})
	require.NoError(t, err)
	assert.Equal(t, "f(a /* , */,\n  b);", sb.Text())
}

func TestBreakCallPreservesArguments(t *testing.T) {
	calls := []string{
		"f(a, b, c)",
		"compute( x+1 ,  y * 2, z[3] )",
		"outer(inner(1, 2),\n      other(3), last)",
		`log("%d, %d", a, b)`,
	}
	for _, src := range calls {
		t.Run(src, func(t *testing.T) {
			sb := buffer.NewSliceBufferString(src)
			classes := syntax.None
			if i := strings.Index(src, `"`); i >= 0 {
				end := strings.LastIndex(src, `"`) + 1
				classes = syntax.NewSpans(syntax.Span{Start: i, End: end, Class: syntax.ClassString})
			}

			before, err := Locate(sb, classes, 0)
			require.NoError(t, err)
			want := before.args([]rune(sb.Slice(before.Open, before.Close+1)))

			_, err = BreakCall(sb, classes, 0, Options{})
			require.NoError(t, err)

			open := strings.Index(sb.Text(), "(")
			inner := sb.Slice(open+1, strings.LastIndex(sb.Text(), ")"))
			var got []string
			for _, line := range strings.Split(inner, ",\n") {
				got = append(got, strings.TrimSpace(line))
			}
			assert.Equal(t, want, got)
			assert.Equal(t, collapse(strings.Join(want, ",")), collapse(inner))
		})
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func TestBreakCallFailures(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"single argument", "foo(x);", types.ErrStructureNotFound},
		{"empty call", "foo();", types.ErrStructureNotFound},
		{"nested single argument", "foo(bar(a, b));", types.ErrStructureNotFound},
		{"blank line", "    \nfoo(a, b);", types.ErrStructureNotFound},
		{"no call", "int x = 1;", types.ErrStructureNotFound},
		{"paren on next line", "foo\n(a, b);", types.ErrStructureNotFound},
		{"unbalanced", "foo(a, b;", types.ErrUnbalanced},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sb := buffer.NewSliceBufferString(tt.src)
			_, err := BreakCall(sb, nil, 0, Options{SpaceBeforeParen: true})
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.src, sb.Text())
			assert.False(t, sb.IsModified())
		})
	}
}

func TestBreakCallUndoesAtOnce(t *testing.T) {
	src := "call(one, two, three);"
	sb := buffer.NewSliceBufferString(src)

	_, err := BreakCall(sb, nil, 0, Options{SpaceBeforeParen: true})
	require.NoError(t, err)
	require.NotEqual(t, src, sb.Text())

	undone, err := sb.Undo()
	require.NoError(t, err)
	assert.True(t, undone)
	assert.Equal(t, src, sb.Text())
}

func TestLocateMultiLineArguments(t *testing.T) {
	sb := buffer.NewSliceBufferString("foo(a,\n    b)")
	call, err := Locate(sb, nil, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, call.Open)
	assert.Equal(t, 12, call.Close)
	assert.Equal(t, []int{2}, call.Commas)
}
