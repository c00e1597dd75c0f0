package treesit

import (
	"fmt"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Language identifies one supported grammar.
type Language string

const (
	Python     Language = "python"
	Java       Language = "java"
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	CSharp     Language = "csharp"
	Cpp        Language = "cpp"
	Ruby       Language = "ruby"

	// TSX is the JSX-enabled TypeScript dialect. It carries its own grammar
	// but is reported and selected as TypeScript; see Family.
	TSX Language = "tsx"
)

// Family collapses a dialect onto the language it is selected and
// reported as.
func (l Language) Family() Language {
	if l == TSX {
		return TypeScript
	}
	return l
}

// Languages lists every supported language in a stable order.
func Languages() []Language {
	return []Language{Python, Java, JavaScript, TypeScript, CSharp, Cpp, Ruby}
}

// ParseLanguage maps a user-supplied tag to a Language. It accepts the
// common aliases ("js", "ts", "c++", "c#", "py", "rb").
func ParseLanguage(tag string) (Language, error) {
	switch strings.ToLower(tag) {
	case "python", "py":
		return Python, nil
	case "java":
		return Java, nil
	case "javascript", "js":
		return JavaScript, nil
	case "typescript", "ts":
		return TypeScript, nil
	case "tsx":
		return TSX, nil
	case "csharp", "c#", "cs":
		return CSharp, nil
	case "cpp", "c++", "cxx":
		return Cpp, nil
	case "ruby", "rb":
		return Ruby, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, tag)
}

// LanguageForPath guesses the language from a file extension. The second
// return is false when the extension is not recognized.
func LanguageForPath(path string) (Language, bool) {
	ext := ""
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			ext = path[i:]
			break
		}
		if path[i] == '/' {
			break
		}
	}
	switch ext {
	case ".py":
		return Python, true
	case ".java":
		return Java, true
	case ".js", ".jsx", ".mjs":
		return JavaScript, true
	case ".ts":
		return TypeScript, true
	case ".tsx":
		return TSX, true
	case ".cs":
		return CSharp, true
	case ".cpp", ".cc", ".cxx", ".hpp", ".hh":
		return Cpp, true
	case ".rb":
		return Ruby, true
	}
	return "", false
}

// grammars holds the compiled grammar for each language. Grammar
// compilation is not free, so each is built once on first use and shared
// read-only afterwards; *sitter.Language is safe for concurrent parsers.
var grammars struct {
	once  sync.Once
	table map[Language]*sitter.Language
}

func grammar(lang Language) (*sitter.Language, error) {
	grammars.once.Do(func() {
		grammars.table = map[Language]*sitter.Language{
			Python:     sitter.NewLanguage(python.Language()),
			Java:       sitter.NewLanguage(java.Language()),
			JavaScript: sitter.NewLanguage(javascript.Language()),
			TypeScript: sitter.NewLanguage(typescript.LanguageTypescript()),
			TSX:        sitter.NewLanguage(typescript.LanguageTSX()),
			CSharp:     sitter.NewLanguage(csharp.Language()),
			Cpp:        sitter.NewLanguage(cpp.Language()),
			Ruby:       sitter.NewLanguage(ruby.Language()),
		}
	})
	g, ok := grammars.table[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	return g, nil
}
