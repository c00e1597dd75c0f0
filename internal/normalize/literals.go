package normalize

import "github.com/srcschema/srcschema/internal/treesit"

// literals names the grammar node kinds that carry literal values for one
// language. The sets mirror each grammar's vocabulary; a kind missing here
// is still caught by the generic "string"/"char" substring rules.
type literals struct {
	strings map[string]bool
	chars   map[string]bool
	numbers map[string]bool
	regexes map[string]bool
}

func kinds(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

var literalTable = map[treesit.Language]literals{
	treesit.Python: {
		strings: kinds("string"),
		chars:   kinds(),
		numbers: kinds("integer", "float"),
		regexes: kinds(),
	},
	treesit.Java: {
		strings: kinds("string_literal"),
		chars:   kinds("character_literal"),
		numbers: kinds(
			"decimal_integer_literal",
			"hex_integer_literal",
			"octal_integer_literal",
			"binary_integer_literal",
			"decimal_floating_point_literal",
			"hex_floating_point_literal",
		),
		regexes: kinds(),
	},
	treesit.JavaScript: {
		strings: kinds("string", "template_string"),
		chars:   kinds(),
		numbers: kinds("number"),
		regexes: kinds("regex"),
	},
	treesit.TypeScript: {
		strings: kinds("string", "template_string"),
		chars:   kinds(),
		numbers: kinds("number"),
		regexes: kinds("regex"),
	},
	treesit.CSharp: {
		strings: kinds(
			"string_literal",
			"verbatim_string_literal",
			"raw_string_literal",
			"interpolated_string_expression",
		),
		chars:   kinds("character_literal"),
		numbers: kinds("integer_literal", "real_literal"),
		regexes: kinds(),
	},
	treesit.Cpp: {
		strings: kinds("string_literal", "raw_string_literal"),
		chars:   kinds("char_literal"),
		numbers: kinds("number_literal"),
		regexes: kinds(),
	},
	treesit.Ruby: {
		strings: kinds("string", "bare_string", "heredoc_body"),
		chars:   kinds(),
		numbers: kinds("integer", "float"),
		regexes: kinds(),
	},
}

func literalKinds(lang treesit.Language) literals {
	if l, ok := literalTable[lang.Family()]; ok {
		return l
	}
	return literals{
		strings: kinds(), chars: kinds(), numbers: kinds(), regexes: kinds(),
	}
}
