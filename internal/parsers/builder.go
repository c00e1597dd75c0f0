// Package parsers turns source text into the structural file schema. One
// generic entity builder walks the concrete syntax tree; per-language
// capability tables map grammar node kinds onto the abstract roles the
// builder understands.
package parsers

import (
	"fmt"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/srcschema/srcschema/internal/comments"
	"github.com/srcschema/srcschema/internal/normalize"
	"github.com/srcschema/srcschema/internal/schema"
	"github.com/srcschema/srcschema/internal/treesit"
)

// ParseFile extracts the structural schema of one source file. It is a
// pure function: no I/O, no retained state, deterministic output for a
// given (source, lang) pair. Malformed code still yields a schema with
// syntax_pass=false on the affected entities; only an unregistered
// language or undecodable source is an error.
func ParseFile(source []byte, lang treesit.Language) (*schema.FileSchema, error) {
	caps, ok := capabilityTable[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %q", treesit.ErrUnsupportedLanguage, lang)
	}
	tree, err := treesit.Parse(source, lang)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	b := &builder{caps: caps, source: source}
	return b.fileSchema(tree.RootNode()), nil
}

// builder carries the immutable inputs of one parse. It is created per
// call and discarded with it.
type builder struct {
	caps   *Capabilities
	source []byte
}

func (b *builder) text(n *sitter.Node) string {
	return treesit.Text(n, b.source)
}

func (b *builder) slice(start, end uint) string {
	if start > end || int(end) > len(b.source) {
		return ""
	}
	return string(b.source[start:end])
}

func kindIn(n *sitter.Node, kinds []string) bool {
	if n == nil {
		return false
	}
	k := n.Kind()
	for _, kind := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// scope is one declaration container: the file root or a namespace body,
// with the namespace prefix accumulated on the way down.
type scope struct {
	prefix string
	node   *sitter.Node
}

func (b *builder) fileSchema(root *sitter.Node) *schema.FileSchema {
	scopes := b.scopes(root)

	type placed[T any] struct {
		start uint
		value T
	}
	var methods []placed[schema.MethodEntity]
	var classes []placed[schema.ClassEntity]

	for _, sc := range scopes {
		for _, c := range b.candidates(sc.node) {
			switch {
			case kindIn(c.inner, b.caps.ClassKinds):
				classes = append(classes, placed[schema.ClassEntity]{
					start: c.outer.StartByte(),
					value: b.buildClass(c, sc.prefix),
				})
			case kindIn(c.inner, b.caps.MethodKinds):
				methods = append(methods, placed[schema.MethodEntity]{
					start: c.outer.StartByte(),
					value: b.buildMethod(c, sc.prefix),
				})
			}
		}
	}
	sort.SliceStable(methods, func(i, j int) bool { return methods[i].start < methods[j].start })
	sort.SliceStable(classes, func(i, j int) bool { return classes[i].start < classes[j].start })

	out := &schema.FileSchema{
		FileDocstring:          b.fileDocstring(root),
		Contexts:               b.fileContexts(root),
		LanguageVersionDetails: b.versionDetails(),
		Methods:                make([]schema.MethodEntity, 0, len(methods)),
		Classes:                make([]schema.ClassEntity, 0, len(classes)),
	}
	for _, m := range methods {
		out.Methods = append(out.Methods, m.value)
	}
	for _, c := range classes {
		out.Classes = append(out.Classes, c.value)
	}
	return out
}

// scopes returns the file root plus every namespace body, depth-first,
// carrying the joined namespace prefix.
func (b *builder) scopes(root *sitter.Node) []scope {
	out := []scope{{prefix: "", node: root}}
	if len(b.caps.NamespaceKinds) == 0 {
		return out
	}
	var descend func(container *sitter.Node, prefix string)
	descend = func(container *sitter.Node, prefix string) {
		for _, child := range treesit.Children(container) {
			if !kindIn(child, b.caps.NamespaceKinds) {
				continue
			}
			p := prefix
			if name := child.ChildByFieldName("name"); name != nil {
				p = prefix + b.text(name) + b.caps.NamespaceSeparator
			}
			body := treesit.FirstChildOfKind(child, b.caps.NamespaceBodyKinds...)
			if body == nil {
				body = child
			}
			out = append(out, scope{prefix: p, node: body})
			descend(body, p)
		}
	}
	descend(root, "")
	return out
}

// candidates classifies the direct children of a declaration container
// into class/method candidates, expanding wrappers through the capability
// table's Unwrap hook.
func (b *builder) candidates(container *sitter.Node) []candidate {
	var out []candidate
	for _, child := range treesit.Children(container) {
		switch {
		case kindIn(child, b.caps.ClassKinds), kindIn(child, b.caps.MethodKinds):
			out = append(out, plain(child))
		case b.caps.Unwrap != nil:
			out = append(out, b.caps.Unwrap(child, b.source)...)
		}
	}
	return out
}

// fileContexts gathers imports and global assignment statements at file
// scope, in source order.
func (b *builder) fileContexts(root *sitter.Node) []string {
	contexts := []string{}
	for _, child := range treesit.Children(root) {
		switch {
		case kindIn(child, b.caps.ImportKinds):
			text := strings.TrimSpace(b.text(child))
			if b.caps.ContextFilter != nil && !b.caps.ContextFilter(text) {
				continue
			}
			contexts = append(contexts, text)
		case b.caps.GlobalAssignments && b.isGlobalAssignment(child):
			contexts = append(contexts, strings.TrimSpace(b.text(child)))
		}
	}
	return contexts
}

// isGlobalAssignment reports whether a top-level node is a plain value
// binding: an assignment expression statement, or a variable declaration
// that does not bind a function or class (those become entities instead).
func (b *builder) isGlobalAssignment(n *sitter.Node) bool {
	switch n.Kind() {
	case "expression_statement":
		first := n.Child(0)
		return first != nil && first.Kind() == "assignment"
	case "variable_declaration", "lexical_declaration":
		if b.caps.Unwrap != nil && len(b.caps.Unwrap(n, b.source)) > 0 {
			return false
		}
		for _, decl := range treesit.ChildrenOfKind(n, "variable_declarator") {
			if decl.ChildByFieldName("value") != nil {
				return true
			}
		}
	}
	return false
}

// fileDocstring resolves the first documentation at file scope, or nil.
func (b *builder) fileDocstring(root *sitter.Node) *string {
	if b.caps.Docstring == DocstringBodyString {
		first := root.Child(0)
		if first == nil {
			return nil
		}
		if first.Kind() == "expression_statement" {
			if str := first.Child(0); str != nil && str.Kind() == "string" {
				return schema.Str(comments.StripHashDocstring(b.text(str)))
			}
		}
		if kindIn(first, b.caps.CommentKinds) {
			return schema.Str(comments.StripHashDocstring(b.text(first)))
		}
		return nil
	}

	// Comment-docstring languages: the leading comment run of the file.
	// When that run is glued to the first declaration it documents the
	// declaration, not the file.
	var run []*sitter.Node
	for _, child := range treesit.Children(root) {
		if !kindIn(child, b.caps.CommentKinds) {
			if len(run) > 0 && b.adjacent(run[len(run)-1], child) && b.documentable(child) {
				return nil
			}
			break
		}
		run = append(run, child)
	}
	if len(run) == 0 {
		return nil
	}
	return schema.Str(b.cleanCommentRun(run))
}

// cleanCommentRun joins a comment run and strips the language's comment
// delimiters.
func (b *builder) cleanCommentRun(run []*sitter.Node) string {
	joined := make([]string, 0, len(run))
	for _, n := range run {
		joined = append(joined, b.text(n))
	}
	text := strings.Join(joined, "\n")
	if b.caps.HashComments {
		return comments.StripHashDocstring(text)
	}
	return strings.TrimSpace(comments.StripCStyleDelimiters(text))
}

// documentable reports whether node is a declaration a docstring can
// attach to, directly or through a wrapper.
func (b *builder) documentable(n *sitter.Node) bool {
	if kindIn(n, b.caps.ClassKinds) || kindIn(n, b.caps.MethodKinds) {
		return true
	}
	if b.caps.Unwrap != nil && len(b.caps.Unwrap(n, b.source)) > 0 {
		return true
	}
	return false
}

// adjacent reports whether upper ends within one line of lower's start:
// the contiguity policy. A blank line between a comment and a declaration
// breaks the docstring association.
func (b *builder) adjacent(upper, lower *sitter.Node) bool {
	return lower.StartPosition().Row-upper.EndPosition().Row <= 1
}

// precedingDocstring collects the contiguous comment run directly above
// node and returns its cleaned text, or nil when no comment qualifies.
func (b *builder) precedingDocstring(node *sitter.Node) *string {
	var run []*sitter.Node
	anchor := node
	for prev := node.PrevSibling(); prev != nil; prev = prev.PrevSibling() {
		if !kindIn(prev, b.caps.CommentKinds) || !b.adjacent(prev, anchor) {
			break
		}
		run = append([]*sitter.Node{prev}, run...)
		anchor = prev
	}
	if len(run) == 0 {
		return nil
	}
	return schema.Str(b.cleanCommentRun(run))
}

func (b *builder) span(n *sitter.Node) schema.Span {
	return schema.Span{
		ByteSpan:   schema.ByteSpan{int(n.StartByte()), int(n.EndByte())},
		StartPoint: schema.Point{int(n.StartPosition().Row), int(n.StartPosition().Column)},
		EndPoint:   schema.Point{int(n.EndPosition().Row), int(n.EndPosition().Column)},
	}
}

// entityName resolves a declaration's name: wrapper-supplied, hook,
// "name" field, then first identifier-like child.
func (b *builder) entityName(c candidate) string {
	if c.name != "" {
		return c.name
	}
	if b.caps.MethodName != nil && kindIn(c.inner, b.caps.MethodKinds) {
		if name := b.caps.MethodName(c.inner, b.source); name != "" {
			return name
		}
	}
	if n := c.inner.ChildByFieldName("name"); n != nil {
		return b.text(n)
	}
	if n := treesit.FirstChildOfKind(c.inner, "identifier", "constant", "property_identifier"); n != nil {
		return b.text(n)
	}
	return ""
}

// decoratorsAndModifiers splits the annotation-like nodes attached to a
// declaration into decorator texts and modifier keywords.
func (b *builder) decoratorsAndModifiers(c candidate) (decorators, modifiers []string) {
	scan := func(parent *sitter.Node) {
		for _, child := range treesit.Children(parent) {
			kind := child.Kind()
			switch {
			case kind == "decorator":
				decorators = append(decorators, strings.TrimSpace(b.text(child)))
			case kind == "attribute_list":
				for _, attr := range treesit.ChildrenOfKind(child, "attribute") {
					decorators = append(decorators, b.text(attr))
				}
			case kind == "modifiers":
				for _, m := range treesit.Children(child) {
					if m.Kind() == "annotation" || m.Kind() == "marker_annotation" {
						decorators = append(decorators, b.text(m))
					} else {
						modifiers = append(modifiers, b.text(m))
					}
				}
			case kind == "modifier":
				modifiers = append(modifiers, b.text(child))
			case kind == "storage_class_specifier",
				kind == "virtual_function_specifier",
				kind == "explicit_function_specifier",
				kind == "virtual":
				modifiers = append(modifiers, b.text(child))
			}
		}
	}
	if c.outer != c.inner {
		scan(c.outer)
	}
	scan(c.inner)
	return decorators, modifiers
}

// bases extracts superclass / heritage clause texts for a class node.
var baseClauseKinds = []string{
	"argument_list",     // python class Foo(Base)
	"superclass",        // java, ruby
	"super_interfaces",  // java
	"base_list",         // csharp
	"base_class_clause", // cpp
	"class_heritage",    // js/ts
	"extends_clause",    // ts
	"implements_clause", // ts
}

func (b *builder) bases(class *sitter.Node) []string {
	var out []string
	for _, clause := range treesit.Children(class) {
		if !kindIn(clause, baseClauseKinds) {
			continue
		}
		named := false
		for i := uint(0); i < clause.NamedChildCount(); i++ {
			named = true
			out = append(out, b.text(clause.NamedChild(i)))
		}
		if !named {
			text := strings.TrimSpace(b.text(clause))
			text = strings.TrimSpace(strings.TrimPrefix(text, ":"))
			if text != "" {
				out = append(out, text)
			}
		}
	}
	return out
}

func (b *builder) buildClass(c candidate, nsPrefix string) schema.ClassEntity {
	node := c.inner
	body := node.ChildByFieldName("body")
	if body == nil {
		body = treesit.FirstChildOfKind(node, b.caps.classBodyKinds()...)
	}

	decorators, modifiers := b.decoratorsAndModifiers(c)

	entity := schema.ClassEntity{
		Name:           b.entityName(c),
		Span:           b.span(c.outer),
		OriginalString: b.text(c.outer),
		SyntaxPass:     !treesit.HasErrors(c.outer),
		Attributes: schema.ClassAttributes{
			Decorators:      decorators,
			Modifiers:       modifiers,
			Bases:           b.bases(node),
			NamespacePrefix: nsPrefix,
		},
		Methods: []schema.MethodEntity{},
	}

	if body != nil {
		entity.Definition = strings.TrimSpace(b.slice(c.outer.StartByte(), body.StartByte()))
	} else {
		entity.Definition = strings.TrimSpace(b.text(c.outer))
	}

	entity.ClassDocstring = b.classDocstring(c, body)

	if body != nil {
		entity.Attributes.ExpressionStatements = b.expressionStatements(body)
		for _, member := range b.candidates(body) {
			switch {
			case kindIn(member.inner, b.caps.MethodKinds):
				entity.Methods = append(entity.Methods, b.buildMethod(member, ""))
			case kindIn(member.inner, b.caps.ClassKinds):
				entity.Attributes.Classes = append(entity.Attributes.Classes, b.buildClass(member, ""))
			}
		}
	}
	return entity
}

func (b *builder) classDocstring(c candidate, body *sitter.Node) *string {
	if b.caps.Docstring == DocstringBodyString {
		if body == nil {
			return nil
		}
		first := body.Child(0)
		if first == nil || first.Kind() != "expression_statement" {
			return nil
		}
		if str := first.Child(0); str != nil && str.Kind() == "string" {
			return schema.Str(comments.StripHashDocstring(b.text(str)))
		}
		return nil
	}
	return b.precedingDocstring(c.outer)
}

// expressionStatements captures bare field / attribute assignments in a
// class body, with same-line trailing comments.
func (b *builder) expressionStatements(body *sitter.Node) []schema.ExpressionStatement {
	var out []schema.ExpressionStatement
	for _, child := range treesit.Children(body) {
		if !b.isFieldStatement(child) {
			continue
		}
		stmt := schema.ExpressionStatement{
			Expression: strings.TrimSpace(b.text(child)),
		}
		if next := child.NextSibling(); next != nil &&
			kindIn(next, b.caps.CommentKinds) &&
			next.StartPosition().Row == child.EndPosition().Row {
			stmt.TrailingComment = b.text(next)
		}
		out = append(out, stmt)
	}
	return out
}

func (b *builder) isFieldStatement(n *sitter.Node) bool {
	if !kindIn(n, b.caps.FieldKinds) {
		return false
	}
	// Python reuses expression_statement for both docstrings and field
	// assignments; only assignments qualify.
	if n.Kind() == "expression_statement" {
		first := n.Child(0)
		return first != nil && first.Kind() == "assignment"
	}
	return true
}

func (b *builder) buildMethod(c candidate, nsPrefix string) schema.MethodEntity {
	node := c.inner
	body := node.ChildByFieldName("body")
	if body == nil {
		body = treesit.FirstChildOfKind(node, b.caps.BodyKinds...)
	}

	decorators, modifiers := b.decoratorsAndModifiers(c)

	entity := schema.MethodEntity{
		Name:             b.entityName(c),
		Span:             b.span(c.outer),
		OriginalString:   b.text(c.outer),
		SyntaxPass:       !treesit.HasErrors(c.outer),
		DefaultArguments: schema.DefaultArguments{},
		Attributes: schema.MethodAttributes{
			Decorators:      decorators,
			Modifiers:       modifiers,
			NamespacePrefix: nsPrefix,
		},
	}

	for _, field := range []string{"type", "return_type", "returns"} {
		if ret := node.ChildByFieldName(field); ret != nil {
			entity.Attributes.ReturnType = b.text(ret)
			break
		}
	}

	params := b.paramList(node)
	if params != nil {
		for i := uint(0); i < params.NamedChildCount(); i++ {
			p := params.NamedChild(i)
			entity.Attributes.Parameters = append(entity.Attributes.Parameters, b.text(p))
			if name, value, ok := b.defaultArgument(p); ok {
				entity.DefaultArguments = append(entity.DefaultArguments,
					schema.DefaultArgument{Name: name, Value: value})
			}
		}
	}

	entity.Signature = b.signature(c, body, decorators)
	entity.Docstring, entity.Body = b.methodDocstringBody(c, body)

	entity.OriginalStringNormed = normalize.Code(entity.OriginalString, b.caps.Lang)
	entity.SignatureNormed = normalize.Code(entity.Signature, b.caps.Lang)
	entity.BodyNormed = normalize.Code(entity.Body, b.caps.Lang)
	return entity
}

// paramList finds the parameter list node, descending one declarator
// level for C++ where the list hangs off the function declarator.
func (b *builder) paramList(node *sitter.Node) *sitter.Node {
	if p := treesit.FirstChildOfKind(node, b.caps.ParamListKinds...); p != nil {
		return p
	}
	if decl := node.ChildByFieldName("declarator"); decl != nil {
		if found := treesit.CollectKinds(decl, b.caps.ParamListKinds...); len(found) > 0 {
			return found[0]
		}
	}
	return nil
}

// defaultArgument splits one parameter node into (name, default literal)
// when it carries an initializer.
func (b *builder) defaultArgument(param *sitter.Node) (string, string, bool) {
	for _, child := range treesit.Children(param) {
		if child.Kind() == "=" {
			name := b.parameterName(param, child)
			value := strings.TrimSpace(b.slice(child.EndByte(), param.EndByte()))
			if name != "" && value != "" {
				return name, value, true
			}
			return "", "", false
		}
		if child.Kind() == "equals_value_clause" {
			name := b.parameterName(param, child)
			value := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(b.text(child)), "="))
			if name != "" && value != "" {
				return name, value, true
			}
			return "", "", false
		}
	}
	return "", "", false
}

// parameterName resolves the bare name of a parameter with a default.
// Grammars expose it under different fields; the text before the equals
// sign is the fallback.
func (b *builder) parameterName(param, equals *sitter.Node) string {
	for _, field := range []string{"name", "left", "declarator", "pattern"} {
		if n := param.ChildByFieldName(field); n != nil {
			return b.text(n)
		}
	}
	return strings.TrimSpace(b.slice(param.StartByte(), equals.StartByte()))
}

// signature is the declaration text up to the body open (or the whole
// declaration for bodiless forms), minus leading attribute blocks, plus
// decorator lines for languages that keep them in the signature.
func (b *builder) signature(c candidate, body *sitter.Node, decorators []string) string {
	start := c.inner.StartByte()
	if c.outer != c.inner && !b.caps.DecoratorsInSignature {
		start = c.outer.StartByte()
	}
	// C# attributes sit inside the declaration node; the capability table
	// reports them separately, so skip past leading attribute lists.
	for _, child := range treesit.Children(c.inner) {
		if child.Kind() == "attribute_list" {
			start = child.EndByte()
			continue
		}
		break
	}
	end := c.inner.EndByte()
	if body != nil {
		end = body.StartByte()
	}
	sig := strings.TrimSpace(b.slice(start, end))
	if b.caps.DecoratorsInSignature && len(decorators) > 0 {
		sig = strings.Join(append(append([]string{}, decorators...), sig), "\n")
	}
	return sig
}

// methodDocstringBody resolves the docstring and the body text. For
// string-docstring languages the docstring statement is excluded from the
// body; for comment languages the body is the body node verbatim.
func (b *builder) methodDocstringBody(c candidate, body *sitter.Node) (*string, string) {
	if b.caps.Docstring == DocstringBodyString {
		if body == nil {
			return nil, ""
		}
		first := body.Child(0)
		if first != nil && first.Kind() == "expression_statement" {
			if str := first.Child(0); str != nil && str.Kind() == "string" {
				doc := schema.Str(comments.StripHashDocstring(b.text(str)))
				if second := first.NextSibling(); second != nil {
					return doc, b.slice(second.StartByte(), body.EndByte())
				}
				return doc, ""
			}
		}
		return nil, b.text(body)
	}

	doc := b.precedingDocstring(c.outer)
	if body == nil {
		return doc, ""
	}
	return doc, b.text(body)
}

// versionDetails runs the language's legacy-construct heuristics over the
// raw source, collecting each matching tag once.
func (b *builder) versionDetails() []string {
	tags := []string{}
	for _, vd := range b.caps.VersionDetails {
		if vd.re.Match(b.source) {
			tags = append(tags, vd.tag)
		}
	}
	return tags
}

// classBodyKinds are the body-node fallbacks when the grammar exposes no
// "body" field on class declarations.
func (c *Capabilities) classBodyKinds() []string {
	return []string{
		"block",                  // python
		"class_body",             // java, js/ts
		"declaration_list",       // csharp
		"field_declaration_list", // cpp
		"body_statement",         // ruby
	}
}
