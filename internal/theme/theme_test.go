package theme

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestGetStyleFallbacks(t *testing.T) {
	th := &Theme{Name: "t", Styles: map[string]tcell.Style{
		StyleDefault: tcell.StyleDefault.Foreground(tcell.ColorWhite),
		"Prompt":     tcell.StyleDefault.Foreground(tcell.ColorRed),
	}}

	assert.Equal(t, th.Styles["Prompt"], th.GetStyle(StyleLabel))
	assert.Equal(t, th.Styles[StyleDefault], th.GetStyle("Other"))
	assert.Equal(t, tcell.StyleDefault, (&Theme{}).GetStyle(StyleHint))
}

func TestFromDefs(t *testing.T) {
	th, err := FromDefs(nil)
	require.NoError(t, err)
	assert.Equal(t, Builtin(), th)

	th, err = FromDefs(map[string]StyleDef{
		StyleDefault: {Bg: ptr("#102030")},
		StyleLabel:   {Fg: ptr("yellow"), Bold: ptr(false)},
		StyleHint:    {Fg: ptr("Reset"), Italic: ptr(true)},
	})
	require.NoError(t, err)

	fg, bg, attrs := th.GetStyle(StyleLabel).Decompose()
	assert.Equal(t, tcell.ColorYellow, fg)
	assert.Equal(t, tcell.NewHexColor(0x102030), bg)
	assert.Zero(t, attrs&tcell.AttrBold)

	fg, bg, attrs = th.GetStyle(StyleHint).Decompose()
	assert.Equal(t, tcell.ColorReset, fg)
	assert.Equal(t, tcell.NewHexColor(0x102030), bg)
	assert.NotZero(t, attrs&tcell.AttrItalic)

	_, bg, _ = th.GetStyle(StyleInput).Decompose()
	assert.Equal(t, tcell.ColorDefault, bg)
}

func TestFromDefsErrors(t *testing.T) {
	_, err := FromDefs(map[string]StyleDef{StyleLabel: {Fg: ptr("#12")}})
	assert.ErrorContains(t, err, "must be #RRGGBB")

	_, err = FromDefs(map[string]StyleDef{StyleDefault: {Bg: ptr("plaid")}})
	assert.ErrorContains(t, err, "unknown color format or name 'plaid'")
}
