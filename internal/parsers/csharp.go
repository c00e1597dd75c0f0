package parsers

import (
	"regexp"

	"github.com/srcschema/srcschema/internal/treesit"
)

func init() {
	register(&Capabilities{
		Lang: treesit.CSharp,

		MethodKinds: []string{
			"method_declaration",
			"constructor_declaration",
			"destructor_declaration",
			"operator_declaration",
			"local_function_statement",
		},
		ClassKinds: []string{
			"class_declaration",
			"struct_declaration",
			"interface_declaration",
			"record_declaration",
		},
		ImportKinds:  []string{"using_directive"},
		CommentKinds: []string{"comment"},
		FieldKinds: []string{
			"field_declaration",
			"property_declaration",
			"event_field_declaration",
		},
		ParamListKinds: []string{"parameter_list"},
		BodyKinds:      []string{"block"},

		NamespaceKinds: []string{
			"namespace_declaration",
			"file_scoped_namespace_declaration",
		},
		NamespaceBodyKinds: []string{"declaration_list"},
		NamespaceSeparator: ".",

		Docstring: DocstringLeadingComment,

		VersionDetails: []versionDetail{
			{"legacy_collections", regexp.MustCompile(`\b(ArrayList|Hashtable)\b`)},
			{"region_directive", regexp.MustCompile(`(?m)^\s*#region\b`)},
		},
	})
}
