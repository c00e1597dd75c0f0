package treesit

import (
	"errors"
	"fmt"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

var (
	// ErrUnsupportedLanguage means no grammar is registered for the tag.
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrEncoding means the source is not valid UTF-8.
	ErrEncoding = errors.New("source is not valid UTF-8")
)

// Tree is a parsed concrete syntax tree together with the source it was
// parsed from. The underlying tree owns C memory; callers must Close it.
type Tree struct {
	Source []byte
	Lang   Language

	tree *sitter.Tree
}

// Parse produces a concrete syntax tree for source. The grammar is
// error-tolerant: malformed code yields a tree with localized error nodes,
// never an error from this function. Parse fails only for an unregistered
// language or undecodable source.
func Parse(source []byte, lang Language) (*Tree, error) {
	g, err := grammar(lang)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(source) {
		return nil, fmt.Errorf("%w (%d bytes)", ErrEncoding, len(source))
	}

	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(g); err != nil {
		return nil, fmt.Errorf("set %s grammar: %w", lang, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("parser returned no tree for %s source", lang)
	}
	return &Tree{Source: source, Lang: lang, tree: tree}, nil
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// RootNode returns the root of the concrete syntax tree.
func (t *Tree) RootNode() *sitter.Node {
	return t.tree.RootNode()
}

// Text returns the source text covered by node.
func (t *Tree) Text(node *sitter.Node) string {
	return Text(node, t.Source)
}

// Text extracts the text content of a node from source.
func Text(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// Children returns the direct children of node in source order.
func Children(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, node.ChildCount())
	for i := uint(0); i < node.ChildCount(); i++ {
		out = append(out, node.Child(i))
	}
	return out
}

// ChildrenOfKind returns every direct child whose kind is in kinds.
func ChildrenOfKind(node *sitter.Node, kinds ...string) []*sitter.Node {
	var out []*sitter.Node
	for _, child := range Children(node) {
		for _, k := range kinds {
			if child.Kind() == k {
				out = append(out, child)
				break
			}
		}
	}
	return out
}

// FirstChildOfKind returns the first direct child with one of the given
// kinds, or nil.
func FirstChildOfKind(node *sitter.Node, kinds ...string) *sitter.Node {
	for _, child := range Children(node) {
		for _, k := range kinds {
			if child.Kind() == k {
				return child
			}
		}
	}
	return nil
}

// Walk visits node and its descendants depth-first in source order. The
// visitor returns false to skip a node's children.
func Walk(node *sitter.Node, visit func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visit(node) {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		Walk(node.Child(i), visit)
	}
}

// CollectKinds gathers every descendant (including node itself) whose kind
// is in kinds, in source order.
func CollectKinds(node *sitter.Node, kinds ...string) []*sitter.Node {
	var out []*sitter.Node
	Walk(node, func(n *sitter.Node) bool {
		for _, k := range kinds {
			if n.Kind() == k {
				out = append(out, n)
				break
			}
		}
		return true
	})
	return out
}

// HasErrors reports whether node's range contains a parser error or
// recovery marker. Error markers are ordinary tree nodes here, never
// control flow.
func HasErrors(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	return node.HasError()
}
