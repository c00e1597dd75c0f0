package parsers

import (
	"regexp"

	"github.com/srcschema/srcschema/internal/treesit"
)

// Java: Javadoc block comments above declarations, annotations inside the
// modifiers node, fields as class-body declarations.
func init() {
	register(&Capabilities{
		Lang: treesit.Java,

		MethodKinds: []string{
			"method_declaration",
			"constructor_declaration",
		},
		ClassKinds: []string{
			"class_declaration",
			"interface_declaration",
			"enum_declaration",
			"record_declaration",
		},
		ImportKinds:    []string{"import_declaration", "package_declaration"},
		CommentKinds:   []string{"comment", "line_comment", "block_comment"},
		FieldKinds:     []string{"field_declaration"},
		ParamListKinds: []string{"formal_parameters"},
		BodyKinds:      []string{"block", "constructor_body"},

		Docstring: DocstringLeadingComment,

		VersionDetails: []versionDetail{
			{"sun_internal_api", regexp.MustCompile(`(?m)^\s*import\s+sun\.`)},
			{"legacy_collections", regexp.MustCompile(`\b(Vector|Hashtable)\s*<?`)},
			{"finalizer_override", regexp.MustCompile(`\bprotected\s+void\s+finalize\s*\(`)},
		},
	})
}
