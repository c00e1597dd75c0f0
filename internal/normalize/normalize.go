// Package normalize rewrites code fragments so that literal values are
// replaced with fixed placeholders, shrinking the literal vocabulary for
// downstream modeling while leaving every other byte untouched.
package normalize

import (
	"regexp"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/srcschema/srcschema/internal/treesit"
)

// Placeholders substituted for literal tokens. String and character
// placeholders keep their surrounding quote style so the result still
// reads as a literal of the same shape.
const (
	StrPlaceholder   = "<STR_LIT>"
	CharPlaceholder  = "<CHAR_LIT>"
	NumPlaceholder   = "<NUM_LIT>"
	RegexPlaceholder = "<REGEX_LIT>"
)

// Compound literal kinds are containers of literals, not literals
// themselves; the walker descends into them so each piece is normalized
// on its own.
var compoundLiteralKinds = map[string]bool{
	"concatenated_string": true,
	"string_array":        true,
	"chained_string":      true,
}

// qualifierRe matches string qualifier prefixes such as Python's r/b/f,
// C#'s @ and C++'s R.
var qualifierRe = regexp.MustCompile(`^([a-zA-Z]+|@)`)

// quoteMarkers in longest-first order so triple quotes win over single.
var quoteMarkers = []string{`"""`, "'''", `"`, "'", "`"}

type regionKind int

const (
	regionString regionKind = iota
	regionChar
	regionNumber
	regionRegex
)

type region struct {
	start, end int
	kind       regionKind
}

// Code returns code with every literal replaced by its placeholder. All
// non-literal bytes are preserved verbatim, so token count and order are
// unchanged. The transform is idempotent: placeholders re-parse as
// literals (or as plain identifiers) and map back onto themselves.
func Code(code string, lang treesit.Language) string {
	if strings.TrimSpace(code) == "" {
		return code
	}
	tree, err := treesit.Parse([]byte(code), lang)
	if err != nil {
		// Fragments that cannot be parsed at all are returned unchanged;
		// the adapter only fails for encoding or unknown-language input.
		return code
	}
	defer tree.Close()

	lits := literalKinds(lang)
	regions := collectRegions(tree.RootNode(), []byte(code), lits)
	return splice(code, regions)
}

// collectRegions walks the tree gathering literal byte ranges. String-like
// nodes are one opaque region even when the grammar exposes interpolation
// children.
func collectRegions(root *sitter.Node, source []byte, lits literals) []region {
	var out []region
	treesit.Walk(root, func(n *sitter.Node) bool {
		kind := n.Kind()
		start, end := int(n.StartByte()), int(n.EndByte())
		switch {
		case compoundLiteralKinds[kind]:
			return true
		case lits.strings[kind] || strings.Contains(kind, "string"):
			out = append(out, region{start, end, regionString})
			return false
		case lits.chars[kind] || strings.Contains(kind, "char"):
			out = append(out, region{start, end, regionChar})
			return false
		case lits.numbers[kind]:
			out = append(out, region{start, end, regionNumber})
			return false
		case lits.regexes[kind]:
			out = append(out, region{start, end, regionRegex})
			return false
		case n.IsError():
			// An unterminated literal surfaces as an error node starting
			// with a quote. Treat the remainder of that region as a single
			// literal rather than escalating.
			if end > start && isQuoteByte(source[start]) {
				out = append(out, region{start, end, regionString})
				return false
			}
			return true
		}
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}

func isQuoteByte(b byte) bool {
	return b == '"' || b == '\'' || b == '`'
}

// splice copies code, swapping each literal region for its placeholder.
func splice(code string, regions []region) string {
	var b strings.Builder
	b.Grow(len(code))
	pos := 0
	for _, r := range regions {
		if r.start < pos || r.end > len(code) {
			continue // overlapping or out-of-range region, keep source as-is
		}
		b.WriteString(code[pos:r.start])
		b.WriteString(placeholder(code[r.start:r.end], r.kind))
		pos = r.end
	}
	b.WriteString(code[pos:])
	return b.String()
}

// placeholder renders the replacement for one literal token, preserving
// qualifier prefix and quote style marker.
func placeholder(token string, kind regionKind) string {
	switch kind {
	case regionNumber:
		return NumPlaceholder
	case regionRegex:
		return RegexPlaceholder
	}

	inner := StrPlaceholder
	if kind == regionChar {
		inner = CharPlaceholder
	}

	// C++ raw strings carry their own delimiter syntax.
	if strings.HasPrefix(token, `R"(`) {
		return `R"(` + inner + `)"`
	}

	// A leading alphabetic run is a qualifier only when a quote follows it;
	// in quoteless forms (heredoc bodies, bare strings) it is literal content.
	qualifier := qualifierRe.FindString(token)
	rest := token[len(qualifier):]

	for _, q := range quoteMarkers {
		if strings.HasPrefix(rest, q) {
			closing := ""
			if strings.HasSuffix(rest, q) && len(rest) >= 2*len(q) {
				closing = q
			}
			return qualifier + q + inner + closing
		}
	}
	return inner
}
