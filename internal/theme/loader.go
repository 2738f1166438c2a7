// internal/theme/loader.go
package theme

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// StyleDef is a style as written in the [theme] config table. Nil fields
// inherit from the base style.
type StyleDef struct {
	Fg        *string `toml:"fg"`
	Bg        *string `toml:"bg"`
	Bold      *bool   `toml:"bold"`
	Italic    *bool   `toml:"italic"`
	Underline *bool   `toml:"underline"`
	Reverse   *bool   `toml:"reverse"`
}

// FromDefs overlays defs on the builtin theme. "Default" is applied
// first and the others inherit from it.
func FromDefs(defs map[string]StyleDef) (*Theme, error) {
	theme := Builtin()
	if len(defs) == 0 {
		return theme, nil
	}
	theme.Name = "custom"

	baseStyle := theme.Styles[StyleDefault]
	if def, ok := defs[StyleDefault]; ok {
		style, err := convertStyle(def, baseStyle)
		if err != nil {
			return nil, fmt.Errorf("style '%s': %w", StyleDefault, err)
		}
		baseStyle = style
		theme.Styles[StyleDefault] = style
	}

	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if name == StyleDefault {
			continue
		}
		style, err := convertStyle(defs[name], baseStyle)
		if err != nil {
			return nil, fmt.Errorf("style '%s': %w", name, err)
		}
		theme.Styles[name] = style
	}
	return theme, nil
}

// convertStyle applies def on top of base.
func convertStyle(def StyleDef, base tcell.Style) (tcell.Style, error) {
	style := base

	if def.Fg != nil {
		color, err := parseColorString(*def.Fg)
		if err != nil {
			return style, fmt.Errorf("invalid foreground color '%s': %w", *def.Fg, err)
		}
		style = style.Foreground(color)
	}
	if def.Bg != nil {
		color, err := parseColorString(*def.Bg)
		if err != nil {
			return style, fmt.Errorf("invalid background color '%s': %w", *def.Bg, err)
		}
		style = style.Background(color)
	}

	if def.Bold != nil {
		style = style.Bold(*def.Bold)
	}
	if def.Italic != nil {
		style = style.Italic(*def.Italic)
	}
	if def.Underline != nil {
		style = style.Underline(*def.Underline)
	}
	if def.Reverse != nil {
		style = style.Reverse(*def.Reverse)
	}
	return style, nil
}

// parseColorString accepts #RRGGBB, "reset", "default" and tcell's color
// names.
func parseColorString(s string) (tcell.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "#"):
		if len(s) != 7 {
			return tcell.ColorDefault, fmt.Errorf("invalid hex color format '%s', must be #RRGGBB", s)
		}
		val, err := strconv.ParseInt(s[1:], 16, 32)
		if err != nil {
			return tcell.ColorDefault, fmt.Errorf("invalid hex value '%s': %w", s, err)
		}
		return tcell.NewHexColor(int32(val)), nil
	case s == "reset":
		return tcell.ColorReset, nil
	case s == "default":
		return tcell.ColorDefault, nil
	}

	if color, ok := tcell.ColorNames[s]; ok {
		return color, nil
	}
	return tcell.ColorDefault, fmt.Errorf("unknown color format or name '%s'", s)
}
