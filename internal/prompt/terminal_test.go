package prompt

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bethropolis/reflow/internal/theme"
	"github.com/bethropolis/reflow/internal/types"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("")
	require.NoError(t, s.Init())
	s.SetSize(40, 4)
	t.Cleanup(s.Fini)
	return s
}

// typeKeys feeds events to the screen from a goroutine so a full event
// queue never drops keys.
func typeKeys(s tcell.SimulationScreen, events ...*tcell.EventKey) {
	go func() {
		for _, ev := range events {
			s.PostEventWait(ev)
		}
	}()
}

func runeKeys(text string) []*tcell.EventKey {
	var evs []*tcell.EventKey
	for _, r := range text {
		evs = append(evs, tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
	return evs
}

func row(s tcell.SimulationScreen, y int) string {
	cells, width, _ := s.GetContents()
	var sb strings.Builder
	for x := 0; x < width; x++ {
		for _, r := range cells[y*width+x].Runes {
			sb.WriteRune(r)
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

func TestTerminalPrompt(t *testing.T) {
	s := newSimScreen(t)
	term := NewTerminalOnScreen(s)

	keys := runeKeys("fooo")
	keys = append(keys,
		tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone),
	)
	typeKeys(s, keys...)

	reply, err := term.Prompt(context.Background(), Request{Label: "Name:"})
	require.NoError(t, err)
	assert.Equal(t, "foo", reply.Text)
	assert.Equal(t, []string{"foo"}, reply.Words)
}

func TestTerminalTabCompletion(t *testing.T) {
	s := newSimScreen(t)
	term := NewTerminalOnScreen(s)

	keys := runeKeys("flo")
	keys = append(keys,
		tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone),
	)
	typeKeys(s, keys...)

	reply, err := term.Prompt(context.Background(), Request{
		Label:       "Type:",
		Completions: []string{"flags", "float"},
	})
	require.NoError(t, err)
	assert.Equal(t, "float", reply.Text)
	assert.Equal(t, "Type: float", row(s, 3))
}

func TestTerminalEscapeCancels(t *testing.T) {
	s := newSimScreen(t)
	term := NewTerminalOnScreen(s)

	typeKeys(s, tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))

	_, err := term.Prompt(context.Background(), Request{Label: "Nick:"})
	assert.ErrorIs(t, err, types.ErrUserCancelled)
}

func TestTerminalContextCancels(t *testing.T) {
	s := newSimScreen(t)
	term := NewTerminalOnScreen(s)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := term.Prompt(ctx, Request{Label: "Blurb:"})
	assert.ErrorIs(t, err, types.ErrUserCancelled)
}

func TestTerminalTheme(t *testing.T) {
	s := newSimScreen(t)
	term := NewTerminalOnScreen(s)

	red := "red"
	th, err := theme.FromDefs(map[string]theme.StyleDef{theme.StyleLabel: {Fg: &red}})
	require.NoError(t, err)
	term.SetTheme(th)

	typeKeys(s, append(runeKeys("x"), tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))...)
	_, err = term.Prompt(context.Background(), Request{Label: "Name:"})
	require.NoError(t, err)

	cells, width, height := s.GetContents()
	label := cells[(height-1)*width]
	fg, _, _ := label.Style.Decompose()
	assert.Equal(t, tcell.ColorRed, fg)

	input := cells[(height-1)*width+6]
	assert.Equal(t, []rune("x"), input.Runes)
	fg, _, _ = input.Style.Decompose()
	assert.Equal(t, tcell.ColorDefault, fg)
}
