package lang

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/bethropolis/reflow/internal/logger"
	sitter "github.com/smacker/go-tree-sitter"
)

//go:embed queries/*/*.scm
var embeddedQueries embed.FS

// QueryFS is where context queries are read from.
var QueryFS fs.FS = embeddedQueries

// ContentType is the closed set of content kinds commands dispatch on.
type ContentType int

const (
	ContentUnknown ContentType = iota
	ContentC
	ContentCPP
	ContentCHeader
)

// String returns the short language id ("c", "cpp", "chdr").
func (c ContentType) String() string {
	switch c {
	case ContentC:
		return "c"
	case ContentCPP:
		return "cpp"
	case ContentCHeader:
		return "chdr"
	}
	return "unknown"
}

// Language describes one content type and how to classify its text.
type Language struct {
	// Name is the display name of the language
	Name string

	ID ContentType

	// TreeSitterLang is the grammar used for comment/string detection.
	TreeSitterLang *sitter.Language

	// Extensions maps file extensions to this language
	Extensions []string

	// QueryPath is the directory under queries/ holding context.scm.
	QueryPath string
}

// ContextQuery loads the comment/string capture query for this language.
func (l *Language) ContextQuery() ([]byte, error) {
	if l.QueryPath == "" {
		return nil, fmt.Errorf("no query path defined for language %s", l.Name)
	}
	queryPath := fmt.Sprintf("queries/%s/context.scm", l.QueryPath)
	query, err := fs.ReadFile(QueryFS, queryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load query for language %s: %w", l.Name, err)
	}
	logger.DebugTagf("syntax", "loaded %s for %s (%d bytes)", queryPath, l.Name, len(query))
	return query, nil
}
