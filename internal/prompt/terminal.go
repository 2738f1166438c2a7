package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/bethropolis/reflow/internal/logger"
	"github.com/bethropolis/reflow/internal/theme"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// Terminal prompts on the bottom row of a tcell screen. Tab completes,
// Enter confirms, Escape or Ctrl-C cancels.
type Terminal struct {
	screen tcell.Screen
	owned  bool

	labelStyle tcell.Style
	inputStyle tcell.Style
	hintStyle  tcell.Style
}

// NewTerminal opens the controlling terminal.
func NewTerminal() (*Terminal, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create tcell screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize tcell screen: %w", err)
	}
	t := NewTerminalOnScreen(s)
	t.owned = true
	return t, nil
}

// NewTerminalOnScreen prompts on an initialized screen owned by the caller.
func NewTerminalOnScreen(s tcell.Screen) *Terminal {
	t := &Terminal{screen: s}
	t.SetTheme(theme.Builtin())
	return t
}

// SetTheme picks the label, input and hint styles from th.
func (t *Terminal) SetTheme(th *theme.Theme) {
	t.labelStyle = th.GetStyle(theme.StyleLabel)
	t.inputStyle = th.GetStyle(theme.StyleInput)
	t.hintStyle = th.GetStyle(theme.StyleHint)
}

// Close finalizes the screen if the terminal opened it.
func (t *Terminal) Close() {
	if t.owned && t.screen != nil {
		t.screen.Fini()
	}
}

func (t *Terminal) Prompt(ctx context.Context, req Request) (Reply, error) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			t.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-done:
		}
	}()

	input := ""
	var hints []string
	for {
		t.draw(req.Label, input, hints)

		switch ev := t.screen.PollEvent().(type) {
		case nil:
			return Reply{}, cancelled(req)
		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				return Reply{}, cancelled(req)
			}
		case *tcell.EventResize:
			t.screen.Sync()
		case *tcell.EventKey:
			hints = nil
			switch ev.Key() {
			case tcell.KeyEnter:
				logger.DebugTagf("prompt", "%s -> %q", req.Label, input)
				return NewReply(input, ev.Modifiers()), nil
			case tcell.KeyEscape, tcell.KeyCtrlC:
				return Reply{}, cancelled(req)
			case tcell.KeyBackspace, tcell.KeyBackspace2:
				if r := []rune(input); len(r) > 0 {
					input = string(r[:len(r)-1])
				}
			case tcell.KeyTab:
				input, hints = Complete(input, req.Completions)
				if len(hints) < 2 {
					hints = nil
				}
			case tcell.KeyRune:
				input += string(ev.Rune())
			}
		}
	}
}

// draw renders the prompt row and, above it, the completion candidates.
func (t *Terminal) draw(label, input string, hints []string) {
	width, height := t.screen.Size()
	if height <= 0 || width <= 0 {
		return
	}
	row := height - 1

	t.clearRow(row, width)
	x := t.drawText(0, row, width, label, t.labelStyle)
	if label != "" && !strings.HasSuffix(label, " ") {
		x = t.drawText(x, row, width, " ", t.inputStyle)
	}
	x = t.drawText(x, row, width, input, t.inputStyle)

	if row > 0 {
		t.clearRow(row-1, width)
		if len(hints) > 0 {
			t.drawText(0, row-1, width, strings.Join(hints, "  "), t.hintStyle)
		}
	}

	if x < width {
		t.screen.ShowCursor(x, row)
	} else {
		t.screen.HideCursor()
	}
	t.screen.Show()
}

func (t *Terminal) clearRow(row, width int) {
	for x := 0; x < width; x++ {
		t.screen.SetContent(x, row, ' ', nil, t.inputStyle)
	}
}

// drawText draws s from column x by grapheme cluster and returns the column
// after it.
func (t *Terminal) drawText(x, row, width int, s string, style tcell.Style) int {
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		runes := gr.Runes()
		w := gr.Width()
		if x+w > width {
			break
		}
		t.screen.SetContent(x, row, runes[0], runes[1:], style)
		for cw := 1; cw < w; cw++ {
			t.screen.SetContent(x+cw, row, ' ', nil, style)
		}
		x += w
	}
	return x
}
