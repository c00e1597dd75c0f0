package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srcschema/srcschema/internal/schema"
	"github.com/srcschema/srcschema/internal/treesit"
)

// Test plan:
// 1. Only require/include calls make the contexts
// 2. Hash comment runs become docstrings
// 3. Module descent records the dotted prefix
// 4. Class constants land in expression_statements
// 5. Instance and singleton methods, optional parameters
// 6. Superclass base clause

const rubyFixture = `# Geometry helpers.

require 'set'
require_relative 'base'
puts 'boot'

module Geo
  # A circle on the plane.
  class Circle < Shape
    RADIUS = 1

    # Computes the area.
    # Scaled by the given factor.
    def area(scale = 1)
      RADIUS * scale
    end

    def self.unit
      new
    end
  end
end
`

func parseRuby(t *testing.T, source string) *schema.FileSchema {
	t.Helper()
	f, err := ParseFile([]byte(source), treesit.Ruby)
	require.NoError(t, err)
	return f
}

func TestRubyFileLevel(t *testing.T) {
	t.Parallel()

	f := parseRuby(t, rubyFixture)

	require.NotNil(t, f.FileDocstring)
	assert.Equal(t, "Geometry helpers.", *f.FileDocstring)

	// puts is a call too, but only dependency calls count.
	assert.Equal(t, []string{
		"require 'set'",
		"require_relative 'base'",
	}, f.Contexts)
}

func TestRubyClassInModule(t *testing.T) {
	t.Parallel()

	f := parseRuby(t, rubyFixture)
	require.Len(t, f.Classes, 1)

	c := f.Classes[0]
	assert.Equal(t, "Circle", c.Name)
	assert.Equal(t, "Geo.", c.Attributes.NamespacePrefix)
	assert.Equal(t, []string{"Shape"}, c.Attributes.Bases)

	require.NotNil(t, c.ClassDocstring)
	assert.Equal(t, "A circle on the plane.", *c.ClassDocstring)

	require.Len(t, c.Attributes.ExpressionStatements, 1)
	assert.Equal(t, "RADIUS = 1", c.Attributes.ExpressionStatements[0].Expression)
}

func TestRubyMethods(t *testing.T) {
	t.Parallel()

	f := parseRuby(t, rubyFixture)
	require.Len(t, f.Classes, 1)
	require.Len(t, f.Classes[0].Methods, 2)

	area := f.Classes[0].Methods[0]
	assert.Equal(t, "area", area.Name)
	require.NotNil(t, area.Docstring)
	assert.Equal(t, "Computes the area.\nScaled by the given factor.", *area.Docstring)

	require.Len(t, area.DefaultArguments, 1)
	assert.Equal(t, "scale", area.DefaultArguments[0].Name)
	assert.Equal(t, "1", area.DefaultArguments[0].Value)
	assert.Contains(t, area.Body, "RADIUS * scale")

	unit := f.Classes[0].Methods[1]
	assert.Equal(t, "unit", unit.Name)
	assert.Nil(t, unit.Docstring)
}

func TestRubyTopLevelMethod(t *testing.T) {
	t.Parallel()

	f := parseRuby(t, "# Says hi.\ndef hi(name)\n  \"hi #{name}\"\nend\n")

	// The comment is glued to the method, so it documents the method.
	assert.Nil(t, f.FileDocstring)

	m := f.MethodByName("hi", "")
	require.NotNil(t, m)
	require.NotNil(t, m.Docstring)
	assert.Equal(t, "Says hi.", *m.Docstring)
	assert.Contains(t, m.BodyNormed, "\"<STR_LIT>\"")
}

func TestRubyVersionDetails(t *testing.T) {
	t.Parallel()

	f := parseRuby(t, "h = { :a => 1 }\ncb = Proc.new { }\n")
	assert.Contains(t, f.LanguageVersionDetails, "hash_rocket_symbols")
	assert.Contains(t, f.LanguageVersionDetails, "proc_new")
}
