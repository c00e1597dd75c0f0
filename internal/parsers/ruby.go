package parsers

import (
	"regexp"
	"strings"

	"github.com/srcschema/srcschema/internal/treesit"
)

func init() {
	register(&Capabilities{
		Lang: treesit.Ruby,

		MethodKinds: []string{
			"method",
			"singleton_method",
		},
		ClassKinds:     []string{"class"},
		ImportKinds:    []string{"call"},
		CommentKinds:   []string{"comment"},
		FieldKinds:     []string{"assignment"},
		ParamListKinds: []string{"method_parameters"},
		BodyKinds:      []string{"body_statement"},

		NamespaceKinds:     []string{"module"},
		NamespaceBodyKinds: []string{"body_statement"},
		NamespaceSeparator: ".",

		Docstring:    DocstringLeadingComment,
		HashComments: true,

		// Top-level calls are mostly DSL noise; only dependency-style
		// calls count as file context.
		ContextFilter: rubyContextCall,

		VersionDetails: []versionDetail{
			{"hash_rocket_symbols", regexp.MustCompile(`:\w+\s*=>`)},
			{"proc_new", regexp.MustCompile(`\bProc\.new\b`)},
		},
	})
}

func rubyContextCall(text string) bool {
	return strings.HasPrefix(text, "require ") ||
		strings.HasPrefix(text, "require_") ||
		strings.HasPrefix(text, "include ")
}
