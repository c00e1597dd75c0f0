package parsers

import (
	"regexp"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/srcschema/srcschema/internal/treesit"
)

func init() {
	register(&Capabilities{
		Lang: treesit.Cpp,

		MethodKinds: []string{"function_definition"},
		ClassKinds: []string{
			"class_specifier",
			"struct_specifier",
		},
		ImportKinds: []string{
			"preproc_include",
			"preproc_def",
			"preproc_call",
		},
		CommentKinds:   []string{"comment"},
		FieldKinds:     []string{"field_declaration"},
		ParamListKinds: []string{"parameter_list"},
		BodyKinds:      []string{"compound_statement"},

		NamespaceKinds:     []string{"namespace_definition"},
		NamespaceBodyKinds: []string{"declaration_list"},
		NamespaceSeparator: "::",

		Docstring: DocstringLeadingComment,

		MethodName: cppMethodName,

		VersionDetails: []versionDetail{
			{"auto_ptr", regexp.MustCompile(`\bauto_ptr\b`)},
			{"dynamic_exception_spec", regexp.MustCompile(`\bthrow\s*\([^)]*\)\s*[;{]`)},
			{"register_storage", regexp.MustCompile(`\bregister\s+\w`)},
		},
	})
}

// cppMethodName descends the declarator chain to the identifier. A
// definition like `int *Stack::push(int v)` nests the name under
// pointer and function declarators.
func cppMethodName(n *sitter.Node, source []byte) string {
	d := n.ChildByFieldName("declarator")
	for d != nil {
		switch d.Kind() {
		case "identifier", "field_identifier", "operator_name",
			"destructor_name", "qualified_identifier":
			return treesit.Text(d, source)
		}
		next := d.ChildByFieldName("declarator")
		if next == nil {
			// reference declarators keep the name as a plain child
			for _, child := range treesit.Children(d) {
				if child.Kind() == "identifier" || child.Kind() == "field_identifier" {
					return treesit.Text(child, source)
				}
			}
			return ""
		}
		d = next
	}
	return ""
}
