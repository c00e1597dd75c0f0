package parsers

import (
	"regexp"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/srcschema/srcschema/internal/treesit"
)

// Python: string-literal docstrings, decorated_definition wrappers,
// significant whitespace. Decorators stay part of the reported signature,
// matching how Python code is read.
func init() {
	register(&Capabilities{
		Lang: treesit.Python,

		MethodKinds:    []string{"function_definition"},
		ClassKinds:     []string{"class_definition"},
		ImportKinds:    []string{"import_statement", "import_from_statement"},
		CommentKinds:   []string{"comment"},
		FieldKinds:     []string{"expression_statement"},
		ParamListKinds: []string{"parameters"},
		BodyKinds:      []string{"block"},

		Docstring:             DocstringBodyString,
		GlobalAssignments:     true,
		DecoratorsInSignature: true,

		Unwrap: unwrapDecorated,

		VersionDetails: []versionDetail{
			{"legacy_print_statement", regexp.MustCompile(`(?m)^\s*print\s+[^(\s=]`)},
			{"percent_string_formatting", regexp.MustCompile(`["']\s*%\s`)},
			{"dict_has_key", regexp.MustCompile(`\.has_key\(`)},
		},
	})
}

// unwrapDecorated expands a decorated_definition into a candidate for the
// wrapped class or function: the wrapper anchors the span and docstring,
// the definition drives extraction.
func unwrapDecorated(n *sitter.Node, _ []byte) []candidate {
	if n.Kind() != "decorated_definition" {
		return nil
	}
	inner := treesit.FirstChildOfKind(n, "function_definition", "class_definition")
	if inner == nil {
		return nil
	}
	return []candidate{{outer: n, inner: inner}}
}
