package gobject

import (
	"regexp"
	"unicode/utf8"

	"github.com/bethropolis/reflow/internal/buffer"
)

// match is a regexp match in buffer offsets.
type match struct {
	start, end int
	groups     []string
}

// findPerLine matches re against each line from start on, the first line
// being taken from start rather than its beginning. It returns the first
// match.
func findPerLine(buf buffer.Buffer, re *regexp.Regexp, start int) (match, bool) {
	pos := start
	for {
		end := buf.LineEnd(pos)
		if m, ok := matchAt(re, buf.Slice(pos, end), pos); ok {
			return m, true
		}
		if end >= buf.Len() {
			return match{}, false
		}
		pos = end + 1
	}
}

// find matches re against all text from start on.
func find(buf buffer.Buffer, re *regexp.Regexp, start int) (match, bool) {
	return matchAt(re, buf.Slice(start, buf.Len()), start)
}

func matchAt(re *regexp.Regexp, text string, base int) (match, bool) {
	loc := re.FindStringSubmatchIndex(text)
	if loc == nil {
		return match{}, false
	}
	m := match{
		start: base + utf8.RuneCountInString(text[:loc[0]]),
		end:   base + utf8.RuneCountInString(text[:loc[1]]),
	}
	for i := 0; i < len(loc); i += 2 {
		if loc[i] < 0 {
			m.groups = append(m.groups, "")
			continue
		}
		m.groups = append(m.groups, text[loc[i]:loc[i+1]])
	}
	return m, true
}
