// internal/theme/theme.go
package theme

import (
	"strings"

	"github.com/bethropolis/reflow/internal/logger"
	"github.com/gdamore/tcell/v2"
)

// Style names used by the interactive prompt.
const (
	StyleDefault = "Default"
	StyleLabel   = "Prompt.Label"
	StyleInput   = "Prompt.Input"
	StyleHint    = "Prompt.Hint"
)

// Theme maps style names to tcell styles.
type Theme struct {
	Name   string
	Styles map[string]tcell.Style
}

// GetStyle resolves name, falling back to its base name (the part before
// the first dot), then to "Default", then to the tcell default.
func (t *Theme) GetStyle(name string) tcell.Style {
	if style, ok := t.Styles[name]; ok {
		return style
	}

	if dotIndex := strings.Index(name, "."); dotIndex != -1 {
		if style, ok := t.Styles[name[:dotIndex]]; ok {
			return style
		}
	}

	if defStyle, ok := t.Styles[StyleDefault]; ok {
		return defStyle
	}

	logger.Warnf("Theme '%s': Style '%s' and 'Default' style not found, using tcell default.", t.Name, name)
	return tcell.StyleDefault
}

// Builtin returns the stock prompt theme.
func Builtin() *Theme {
	base := tcell.StyleDefault
	return &Theme{
		Name: "builtin",
		Styles: map[string]tcell.Style{
			StyleDefault: base,
			StyleLabel:   base.Bold(true),
			StyleInput:   base,
			StyleHint:    base.Foreground(tcell.ColorGray),
		},
	}
}
