package syntax

import (
	"context"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/bethropolis/reflow/internal/event"
	"github.com/bethropolis/reflow/internal/logger"
	"github.com/bethropolis/reflow/internal/syntax/lang"
	sitter "github.com/smacker/go-tree-sitter"
)

// Source is the text being classified.
type Source interface {
	Text() string
}

// TreeSitter classifies comments and strings by parsing the source with a
// tree-sitter grammar and running the language's context query. It keeps
// the previous tree and re-parses incrementally after edits.
type TreeSitter struct {
	src    Source
	lang   *lang.Language
	parser *sitter.Parser
	query  *sitter.Query
	tree   *sitter.Tree
	spans  Spans
	stale  bool
}

// NewTreeSitter prepares a classifier for src in language l.
func NewTreeSitter(src Source, l *lang.Language) (*TreeSitter, error) {
	if l == nil || l.TreeSitterLang == nil {
		return nil, fmt.Errorf("no grammar for classification")
	}
	pattern, err := l.ContextQuery()
	if err != nil {
		return nil, err
	}
	query, err := sitter.NewQuery(pattern, l.TreeSitterLang)
	if err != nil {
		return nil, fmt.Errorf("query parse failed for %s: %w", l.Name, err)
	}
	parser := sitter.NewParser()
	parser.SetLanguage(l.TreeSitterLang)

	return &TreeSitter{
		src:    src,
		lang:   l,
		parser: parser,
		query:  query,
		stale:  true,
	}, nil
}

// Attach subscribes the classifier to buffer edits on the bus.
func (ts *TreeSitter) Attach(events *event.Manager) {
	events.Subscribe(event.TypeBufferModified, func(e event.Event) bool {
		if data, ok := e.Data.(event.BufferModifiedData); ok {
			ts.Edit(data)
		}
		return false
	})
	events.Subscribe(event.TypeBufferLoaded, func(event.Event) bool {
		ts.reset()
		return false
	})
}

// Edit records a buffer change; the next query re-parses.
func (ts *TreeSitter) Edit(data event.BufferModifiedData) {
	if ts.tree != nil {
		ts.tree.Edit(data.Edit.Input())
	}
	ts.stale = true
}

func (ts *TreeSitter) reset() {
	if ts.tree != nil {
		ts.tree.Close()
		ts.tree = nil
	}
	ts.stale = true
}

// Close releases the tree-sitter resources.
func (ts *TreeSitter) Close() {
	ts.reset()
	ts.query.Close()
	ts.parser.Close()
}

func (ts *TreeSitter) HasContextClass(pos int, class Class) bool {
	return ts.current().HasContextClass(pos, class)
}

func (ts *TreeSitter) ForwardToContextClassToggle(pos int, class Class) (int, bool) {
	return ts.current().ForwardToContextClassToggle(pos, class)
}

// current returns the spans for the source as it is now.
func (ts *TreeSitter) current() Spans {
	if !ts.stale {
		return ts.spans
	}
	spans, err := ts.classify()
	if err != nil {
		// Without a parse nothing is suppressed; scanning degrades to plain text.
		logger.Warnf("syntax: classification failed: %v", err)
		spans = nil
	}
	ts.spans = spans
	ts.stale = false
	return spans
}

func (ts *TreeSitter) classify() (Spans, error) {
	source := []byte(ts.src.Text())

	tree, err := ts.parser.ParseCtx(context.Background(), ts.tree, source)
	if err != nil {
		return nil, fmt.Errorf("parsing failed: %w", err)
	}
	if ts.tree != nil {
		ts.tree.Close()
	}
	ts.tree = tree

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(ts.query, tree.RootNode())

	type byteSpan struct {
		start, end uint32
		class      Class
	}
	var found []byteSpan
	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, capture := range match.Captures {
			class := Class(ts.query.CaptureNameForId(capture.Index))
			if class != ClassComment && class != ClassString {
				continue
			}
			found = append(found, byteSpan{capture.Node.StartByte(), capture.Node.EndByte(), class})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].start < found[j].start })

	idx := runeIndexer{src: source}
	spans := make(Spans, 0, len(found))
	for _, f := range found {
		start := idx.at(int(f.start))
		end := idx.at(int(f.end))
		if end > start {
			spans = append(spans, Span{Start: start, End: end, Class: f.class})
		}
	}
	logger.DebugTagf("syntax", "classified %d comment/string regions in %s source", len(spans), ts.lang.Name)
	return spans, nil
}

// runeIndexer converts byte offsets to rune offsets for offsets visited in
// non-decreasing order; it falls back to counting from zero otherwise.
type runeIndexer struct {
	src     []byte
	byteOff int
	runeOff int
}

func (r *runeIndexer) at(byteOff int) int {
	if byteOff > len(r.src) {
		byteOff = len(r.src)
	}
	if byteOff < r.byteOff {
		r.byteOff, r.runeOff = 0, 0
	}
	r.runeOff += utf8.RuneCount(r.src[r.byteOff:byteOff])
	r.byteOff = byteOff
	return r.runeOff
}
