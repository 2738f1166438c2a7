package lang

import (
	"path/filepath"
	"strings"

	"github.com/bethropolis/reflow/internal/logger"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
)

// Registry maps file extensions and content types to languages. It is
// built once and only read afterwards.
type Registry struct {
	languages     []*Language
	extToLanguage map[string]*Language
	byID          map[ContentType]*Language
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		extToLanguage: make(map[string]*Language),
		byID:          make(map[ContentType]*Language),
	}
}

// Register adds a language. A later registration wins for a shared extension.
func (r *Registry) Register(l *Language) {
	r.languages = append(r.languages, l)
	r.byID[l.ID] = l
	for _, ext := range l.Extensions {
		lowerExt := strings.ToLower(ext)
		if existing, ok := r.extToLanguage[lowerExt]; ok {
			logger.Warnf("Extension %s already registered to %s, overriding with %s",
				lowerExt, existing.Name, l.Name)
		}
		r.extToLanguage[lowerExt] = l
	}
}

// ForFile returns the language for a file path, or nil.
func (r *Registry) ForFile(filePath string) *Language {
	return r.extToLanguage[strings.ToLower(filepath.Ext(filePath))]
}

// ForID returns the language registered for a content type, or nil.
func (r *Registry) ForID(id ContentType) *Language {
	return r.byID[id]
}

// All returns the registered languages in registration order.
func (r *Registry) All() []*Language {
	out := make([]*Language, len(r.languages))
	copy(out, r.languages)
	return out
}

// Builtin returns the registry of C-family languages.
func Builtin() *Registry {
	r := NewRegistry()
	r.Register(&Language{
		Name:           "C",
		ID:             ContentC,
		TreeSitterLang: c.GetLanguage(),
		Extensions:     []string{".c"},
		QueryPath:      "c",
	})
	r.Register(&Language{
		Name:           "C++",
		ID:             ContentCPP,
		TreeSitterLang: cpp.GetLanguage(),
		Extensions:     []string{".cc", ".cpp", ".cxx", ".c++", ".hpp", ".hh", ".hxx"},
		QueryPath:      "cpp",
	})
	r.Register(&Language{
		Name:           "C Header",
		ID:             ContentCHeader,
		TreeSitterLang: c.GetLanguage(),
		Extensions:     []string{".h"},
		QueryPath:      "c",
	})
	logger.DebugTagf("syntax", "registered %d languages", len(r.languages))
	return r
}
