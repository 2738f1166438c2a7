// Package scan walks buffer text rune by rune, tracking bracket depth and
// jumping over comments and string literals.
package scan

import (
	"fmt"
	"unicode"

	"github.com/bethropolis/reflow/internal/logger"
	"github.com/bethropolis/reflow/internal/syntax"
	"github.com/bethropolis/reflow/internal/types"
)

// Text is the read access a Scanner needs.
type Text interface {
	Len() int
	RuneAt(pos int) (rune, bool)
}

// Options bound and configure a single scan.
type Options struct {
	// Boundary stops the scan once the position reaches it. Zero means the
	// scan may run to the end of the text.
	Boundary int
	// Open and Close adjust the depth; the target only matches at depth 0.
	// Zero disables depth tracking.
	Open, Close rune
}

// Scanner finds characters outside suppressed lexical regions.
type Scanner struct {
	text    Text
	classes syntax.Classifier
	skip    []syntax.Class
}

// New returns a scanner that skips comments and strings as reported by
// classes. A nil classifier treats all text as code.
func New(text Text, classes syntax.Classifier) *Scanner {
	if classes == nil {
		classes = syntax.None
	}
	return &Scanner{
		text:    text,
		classes: classes,
		skip:    syntax.Suppressed,
	}
}

// Scan advances from start to the first occurrence of target at depth 0.
// It fails with types.ErrStructureNotFound when the boundary or end of text
// is reached at depth 0 and with types.ErrUnbalanced when the depth goes
// negative or the text ends inside an open bracket.
func (s *Scanner) Scan(start int, target rune, opts Options) (int, error) {
	pos := start
	depth := 0

	for {
		var ok bool
		if pos, ok = s.skipSuppressed(pos); !ok {
			return 0, s.fail(start, target, depth)
		}
		if opts.Boundary > 0 && pos >= opts.Boundary {
			return 0, s.fail(start, target, depth)
		}

		r, ok := s.text.RuneAt(pos)
		if !ok {
			return 0, s.fail(start, target, depth)
		}

		if depth == 0 && r == target {
			return pos, nil
		}

		switch {
		case opts.Open != 0 && r == opts.Open:
			depth++
		case opts.Close != 0 && r == opts.Close:
			depth--
			if depth < 0 {
				return 0, fmt.Errorf("unexpected %q at %d while looking for %q: %w",
					r, pos, target, types.ErrUnbalanced)
			}
		}
		pos++
	}
}

func (s *Scanner) fail(start int, target rune, depth int) error {
	if depth > 0 {
		return fmt.Errorf("%d unclosed bracket(s) looking for %q from %d: %w",
			depth, target, start, types.ErrUnbalanced)
	}
	return fmt.Errorf("%q not found from %d: %w", target, start, types.ErrStructureNotFound)
}

// skipSuppressed moves pos past every comment or string region it lies in.
// It returns false if a region runs to the end of the text.
func (s *Scanner) skipSuppressed(pos int) (int, bool) {
	for moved := true; moved; {
		moved = false
		for _, class := range s.skip {
			if !s.classes.HasContextClass(pos, class) {
				continue
			}
			next, ok := s.classes.ForwardToContextClassToggle(pos, class)
			if !ok || next <= pos {
				return pos, false
			}
			logger.DebugTagf("scan", "skipping %s [%d,%d)", class, pos, next)
			pos = next
			moved = true
		}
	}
	return pos, true
}

// SkipSpace returns the first non-space offset in [pos, limit). It returns
// false if there is none.
func SkipSpace(text Text, pos, limit int) (int, bool) {
	for ; pos < limit; pos++ {
		r, ok := text.RuneAt(pos)
		if !ok {
			return pos, false
		}
		if !unicode.IsSpace(r) {
			return pos, true
		}
	}
	return pos, false
}
