package parsers

import (
	"regexp"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/srcschema/srcschema/internal/treesit"
)

// DocstringStyle selects how a language attaches documentation to a
// declaration.
type DocstringStyle int

const (
	// DocstringLeadingComment: a contiguous comment run immediately above
	// the declaration (Java, JS/TS, C#, C++, Ruby).
	DocstringLeadingComment DocstringStyle = iota
	// DocstringBodyString: a bare string literal as the first statement of
	// the body (Python).
	DocstringBodyString
)

// candidate pairs the node the schema reports with the node the builder
// analyzes. They differ when a declaration is wrapped: a decorated
// definition, a "const f = () => ..." declarator, an export statement.
type candidate struct {
	// outer anchors span, original_string and docstring adjacency.
	outer *sitter.Node
	// inner is the class or function node itself.
	inner *sitter.Node
	// name overrides node-derived naming when the wrapper carries it.
	name string
}

func plain(n *sitter.Node) candidate { return candidate{outer: n, inner: n} }

// versionDetail is one pattern-based legacy-construct heuristic. A match
// anywhere in the file adds tag to language_version_details.
type versionDetail struct {
	tag string
	re  *regexp.Regexp
}

// Capabilities maps a language's grammar onto the abstract roles the
// entity builder traverses. Adding a language means adding one of these
// tables; the builder itself stays untouched.
type Capabilities struct {
	Lang treesit.Language

	// Node-kind role mappings.
	MethodKinds    []string
	ClassKinds     []string
	ImportKinds    []string
	CommentKinds   []string
	FieldKinds     []string // class-body statements for attributes.expression_statements
	ParamListKinds []string
	BodyKinds      []string // function body kinds when the grammar has no "body" field

	// Namespace containers the builder descends through when collecting
	// top-level declarations (C# / C++ namespaces, Ruby modules).
	NamespaceKinds     []string
	NamespaceBodyKinds []string
	NamespaceSeparator string

	Docstring DocstringStyle
	// HashComments: comments are #-prefixed lines (Ruby), cleaned with the
	// hash rules instead of the C-style delimiter rules.
	HashComments bool

	// GlobalAssignments: top-level assignment expression statements join
	// the file contexts (Python, JS/TS).
	GlobalAssignments bool
	// ContextFilter optionally rejects import-kind matches (Ruby keeps
	// only require/include calls).
	ContextFilter func(text string) bool

	// DecoratorsInSignature: decorator lines are joined above the
	// signature text (Python keeps them there, other languages put
	// attributes only in the attributes bag).
	DecoratorsInSignature bool

	// Unwrap expands a non-declaration top-level node into declaration
	// candidates (decorated definitions, variable-bound functions, export
	// statements). Nil when the language needs none.
	Unwrap func(n *sitter.Node, source []byte) []candidate

	// MethodName resolves a method's name when the grammar does not expose
	// it as a plain "name" field (C++ declarator chains). Nil uses the
	// default resolution.
	MethodName func(n *sitter.Node, source []byte) string

	VersionDetails []versionDetail
}

// capabilityTable is populated by each language file's init and read-only
// afterwards. Process-wide state stops here; parsing itself shares
// nothing.
var capabilityTable = map[treesit.Language]*Capabilities{}

func register(caps *Capabilities) {
	capabilityTable[caps.Lang] = caps
}
