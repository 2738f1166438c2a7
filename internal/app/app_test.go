package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bethropolis/reflow/internal/config"
	"github.com/bethropolis/reflow/internal/prompt"
	"github.com/bethropolis/reflow/internal/statusbar"
	"github.com/bethropolis/reflow/internal/types"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	path   string
	stdout bytes.Buffer
	info   bytes.Buffer
	errs   bytes.Buffer
}

func newHarness(t *testing.T, name, content string) *harness {
	t.Helper()
	h := &harness{path: filepath.Join(t.TempDir(), name)}
	require.NoError(t, os.WriteFile(h.path, []byte(content), 0o644))
	return h
}

func (h *harness) options(opts Options) Options {
	opts.FilePath = h.path
	opts.Stdout = &h.stdout
	info := color.New(color.FgCyan)
	info.DisableColor()
	fail := color.New(color.FgRed)
	fail.DisableColor()
	opts.Status = statusbar.Config{Out: &h.info, Err: &h.errs, Info: info, Error: fail}
	return opts
}

func (h *harness) run(t *testing.T, cfg *config.Config, p prompt.Prompter, opts Options, name string, args ...string) error {
	t.Helper()
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	a, err := New(cfg, p, h.options(opts))
	require.NoError(t, err)
	defer a.Close()
	return a.Run(context.Background(), name, args...)
}

func TestIndentSourcePrintsResult(t *testing.T) {
	src := "void f(void)\n{\n  process_data(input_buffer, output_buffer, length, flags);\n}\n"
	h := newHarness(t, "main.c", src)

	cfg := config.NewDefaultConfig()
	cfg.Format.SpaceBeforeParen = true
	require.NoError(t, h.run(t, cfg, nil, Options{Line: 3, Col: 5}, "indent"))

	want := "void f(void)\n{\n" +
		"  process_data (input_buffer,\n" +
		"                output_buffer,\n" +
		"                length,\n" +
		"                flags);\n}\n"
	assert.Equal(t, want, h.stdout.String())
	assert.Equal(t, "Broke call over 4 lines\n", h.info.String())
	assert.Empty(t, h.errs.String())

	onDisk, err := os.ReadFile(h.path)
	require.NoError(t, err)
	assert.Equal(t, src, string(onDisk))
}

func TestAlignHeaderWritesBack(t *testing.T) {
	src := "#include <glib.h>\n\nvoid foo(int x);\nstatic char *bar(int y, char *z);\n"
	h := newHarness(t, "foo.h", src)

	require.NoError(t, h.run(t, nil, nil, Options{
		Selection: &LineRange{First: 3, Last: 4},
		Write:     true,
	}, "indent"))

	want := "#include <glib.h>\n\n" +
		"void         foo (int   x);\n" +
		"static char *bar (int   y,\n" +
		"                  char *z);\n"
	onDisk, err := os.ReadFile(h.path)
	require.NoError(t, err)
	assert.Equal(t, want, string(onDisk))
	assert.Empty(t, h.stdout.String())
}

func TestAlignSelectionKeepsLinesOutside(t *testing.T) {
	src := "int a(int x);\nlong bb(long y);\nchar c(void);\n"
	h := newHarness(t, "sel.h", src)

	require.NoError(t, h.run(t, nil, nil, Options{
		Selection: &LineRange{First: 1, Last: 1},
		Write:     true,
	}, "indent"))

	onDisk, err := os.ReadFile(h.path)
	require.NoError(t, err)
	assert.Equal(t, "int a (int x);\nlong bb(long y);\nchar c(void);\n", string(onDisk))
	assert.Equal(t, "Aligned 1 declaration(s)\n", h.info.String())
}

func TestBreakFunctionIgnoresQuotedCommas(t *testing.T) {
	tests := []struct {
		name string
		call string
		want string
	}{
		{"comment", "\tf(a /* , */, b);", "\tf (a /* , */,\n\t   b);"},
		{"string", "\tlog(\"%d, %d\", x);", "\tlog (\"%d, %d\",\n\t     x);"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "call.c", "void g(void)\n{\n"+tt.call+"\n}\n")
			require.NoError(t, h.run(t, nil, nil, Options{Line: 3, Col: 2}, "break-function"))
			assert.Equal(t, "void g(void)\n{\n"+tt.want+"\n}\n", h.stdout.String())
			assert.Equal(t, "Broke call over 2 lines\n", h.info.String())
		})
	}
}

func TestRunCopiesToClipboard(t *testing.T) {
	h := newHarness(t, "x.c", "g(a, b);\n")
	a, err := New(config.NewDefaultConfig(), nil, h.options(Options{}))
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Run(context.Background(), "break-function"))
	assert.Equal(t, "g (a,\n   b);\n", a.Clipboard().Contents())
	assert.False(t, a.Clipboard().System())
	assert.Contains(t, a.StatusText(), "x.c [Modified] -- Line: 1")
}

func TestRunReportsFailures(t *testing.T) {
	t.Run("unsupported content", func(t *testing.T) {
		h := newHarness(t, "notes.txt", "f(a, b);\n")
		err := h.run(t, nil, nil, Options{}, "indent")
		assert.ErrorIs(t, err, types.ErrUnsupportedContent)
		assert.Equal(t, "Indentation rules not available for this language\n", h.errs.String())
		assert.Empty(t, h.stdout.String())
	})

	t.Run("bad range", func(t *testing.T) {
		h := newHarness(t, "a.h", "int a(void);\n")
		err := h.run(t, nil, nil, Options{Selection: &LineRange{First: 2, Last: 1}}, "indent")
		assert.ErrorIs(t, err, types.ErrInvalidArgument)
		assert.Equal(t, "Invalid line range 2:1\n", h.errs.String())
	})

	t.Run("cancelled prompt", func(t *testing.T) {
		src := "G_DEFINE_TYPE (GeditFooBar, gedit_foo_bar, G_TYPE_OBJECT)\n"
		h := newHarness(t, "foo.c", src)
		err := h.run(t, nil, nil, Options{}, "gobj.add-prop", "title", "string")
		assert.ErrorIs(t, err, types.ErrUserCancelled)

		onDisk, rerr := os.ReadFile(h.path)
		require.NoError(t, rerr)
		assert.Equal(t, src, string(onDisk))
	})
}

func TestCommands(t *testing.T) {
	h := newHarness(t, "a.c", "")
	a, err := New(config.NewDefaultConfig(), nil, h.options(Options{}))
	require.NoError(t, err)
	defer a.Close()
	assert.Contains(t, a.Commands(), "indent")
	assert.Contains(t, a.Commands(), "gobj.add-prop")
}
