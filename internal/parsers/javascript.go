package parsers

import (
	"regexp"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/srcschema/srcschema/internal/treesit"
)

// JavaScript and TypeScript share one shape: functions reach the top
// level directly, through const/let/var bindings, or through export
// statements, and the wrapper is what a reader considers the declaration.

var jstsFunctionKinds = []string{
	"function_declaration",
	"generator_function_declaration",
	"function_expression",
	"function",
	"generator_function",
	"arrow_function",
	"method_definition",
}

var jstsClassKinds = []string{
	"class_declaration",
	"abstract_class_declaration",
	"class",
}

var jstsVersionDetails = []versionDetail{
	{"var_declaration", regexp.MustCompile(`(?m)^\s*var\s+\w`)},
	{"with_statement", regexp.MustCompile(`\bwith\s*\(`)},
	{"proto_access", regexp.MustCompile(`__proto__`)},
}

func jstsCapabilities(lang treesit.Language) *Capabilities {
	return &Capabilities{
		Lang: lang,

		MethodKinds:    jstsFunctionKinds,
		ClassKinds:     jstsClassKinds,
		ImportKinds:    []string{"import_statement"},
		CommentKinds:   []string{"comment"},
		FieldKinds:     []string{"public_field_definition", "field_definition"},
		ParamListKinds: []string{"formal_parameters"},
		BodyKinds:      []string{"statement_block"},

		Docstring:         DocstringLeadingComment,
		GlobalAssignments: true,

		Unwrap: unwrapJSTS,

		VersionDetails: jstsVersionDetails,
	}
}

func init() {
	register(jstsCapabilities(treesit.JavaScript))
	register(jstsCapabilities(treesit.TypeScript))
	register(jstsCapabilities(treesit.TSX))
}

// unwrapJSTS digs function and class nodes out of variable bindings,
// assignments and export statements. The wrapper node anchors the span
// and the docstring; the binding supplies the name when the function
// itself is anonymous.
func unwrapJSTS(n *sitter.Node, source []byte) []candidate {
	switch n.Kind() {
	case "export_statement":
		for _, child := range treesit.Children(n) {
			if kindIn(child, jstsFunctionKinds) || kindIn(child, jstsClassKinds) {
				return []candidate{{outer: n, inner: child}}
			}
			if child.Kind() == "lexical_declaration" || child.Kind() == "variable_declaration" {
				return unwrapBinding(n, child, source)
			}
		}
	case "lexical_declaration", "variable_declaration":
		return unwrapBinding(n, n, source)
	case "expression_statement":
		assign := treesit.FirstChildOfKind(n, "assignment_expression")
		if assign == nil {
			return nil
		}
		right := assign.ChildByFieldName("right")
		if right == nil || !kindIn(right, jstsFunctionKinds) {
			return nil
		}
		name := ""
		if left := assign.ChildByFieldName("left"); left != nil {
			name = treesit.Text(left, source)
		}
		return []candidate{{outer: n, inner: right, name: name}}
	}
	return nil
}

func unwrapBinding(outer, decl *sitter.Node, source []byte) []candidate {
	var out []candidate
	for _, declarator := range treesit.ChildrenOfKind(decl, "variable_declarator") {
		value := declarator.ChildByFieldName("value")
		if value == nil {
			continue
		}
		if !kindIn(value, jstsFunctionKinds) && !kindIn(value, jstsClassKinds) {
			continue
		}
		name := ""
		if nameNode := declarator.ChildByFieldName("name"); nameNode != nil {
			name = treesit.Text(nameNode, source)
		}
		out = append(out, candidate{outer: outer, inner: value, name: name})
	}
	return out
}
