// Package syntax answers "is this offset inside a comment or a string?"
// for the scanner, using tree-sitter grammars.
package syntax

import "sort"

// Class is a lexical context class.
type Class string

const (
	ClassComment Class = "comment"
	ClassString  Class = "string"
)

// Suppressed lists the classes scanners skip over.
var Suppressed = []Class{ClassComment, ClassString}

// Classifier reports lexical context for buffer offsets.
type Classifier interface {
	// HasContextClass reports whether pos lies inside a region of class.
	HasContextClass(pos int, class Class) bool
	// ForwardToContextClassToggle returns the next offset after pos where
	// membership in class changes. It returns false if there is none.
	ForwardToContextClassToggle(pos int, class Class) (int, bool)
}

// Span is a half-open rune range [Start, End) of one class.
type Span struct {
	Start, End int
	Class      Class
}

// Spans is a Classifier over an explicit, start-ordered span list.
// The zero value classifies nothing.
type Spans []Span

// NewSpans sorts spans by start offset.
func NewSpans(spans ...Span) Spans {
	out := make(Spans, len(spans))
	copy(out, spans)
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// find returns the first span of class that ends after pos.
func (s Spans) find(pos int, class Class) (Span, bool) {
	i := sort.Search(len(s), func(i int) bool { return s[i].End > pos })
	for ; i < len(s); i++ {
		if s[i].Class == class {
			return s[i], true
		}
	}
	return Span{}, false
}

func (s Spans) HasContextClass(pos int, class Class) bool {
	span, ok := s.find(pos, class)
	return ok && span.Start <= pos
}

func (s Spans) ForwardToContextClassToggle(pos int, class Class) (int, bool) {
	span, ok := s.find(pos, class)
	if !ok {
		return 0, false
	}
	if span.Start <= pos {
		return span.End, true
	}
	return span.Start, true
}

// None classifies nothing; used for content without a grammar.
var None Classifier = Spans(nil)
