package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srcschema/srcschema/internal/schema"
	"github.com/srcschema/srcschema/internal/treesit"
)

// Test plan:
// 1. Preprocessor includes and defines make the contexts
// 2. Namespace descent records the :: prefix
// 3. Function names resolve through declarator chains
// 4. Class members, base clauses, trailing field comments
// 5. Qualified out-of-class definitions keep the qualified name
// 6. Version detail heuristics

const cppFixture = `#include <cmath>
#define GEO_VERSION 2

namespace geo {

// Euclidean distance from the origin.
double dist(double x, double y = 0.0) {
    return std::sqrt(x * x + y * y);
}

class Shape : public Drawable {
  public:
    int sides = 0;  // polygon order

    // Surface area.
    virtual double area() {
        return 0.0;
    }
};

}
`

func parseCpp(t *testing.T, source string) *schema.FileSchema {
	t.Helper()
	f, err := ParseFile([]byte(source), treesit.Cpp)
	require.NoError(t, err)
	return f
}

func TestCppFileLevel(t *testing.T) {
	t.Parallel()

	f := parseCpp(t, cppFixture)

	assert.Equal(t, []string{
		"#include <cmath>",
		"#define GEO_VERSION 2",
	}, f.Contexts)
	assert.Nil(t, f.FileDocstring)
}

func TestCppNamespaceFunction(t *testing.T) {
	t.Parallel()

	f := parseCpp(t, cppFixture)
	m := f.MethodByName("dist", "")
	require.NotNil(t, m)

	assert.Equal(t, "geo::", m.Attributes.NamespacePrefix)
	assert.Equal(t, "double", m.Attributes.ReturnType)
	assert.Equal(t, []string{"double x", "double y = 0.0"}, m.Attributes.Parameters)

	require.NotNil(t, m.Docstring)
	assert.Equal(t, "Euclidean distance from the origin.", *m.Docstring)

	require.Len(t, m.DefaultArguments, 1)
	assert.Equal(t, "y", m.DefaultArguments[0].Name)
	assert.Equal(t, "0.0", m.DefaultArguments[0].Value)
}

func TestCppClass(t *testing.T) {
	t.Parallel()

	f := parseCpp(t, cppFixture)
	require.Len(t, f.Classes, 1)

	c := f.Classes[0]
	assert.Equal(t, "Shape", c.Name)
	assert.Equal(t, "geo::", c.Attributes.NamespacePrefix)
	assert.NotEmpty(t, c.Attributes.Bases)

	require.Len(t, c.Attributes.ExpressionStatements, 1)
	assert.Equal(t, "int sides = 0;", c.Attributes.ExpressionStatements[0].Expression)
	assert.Equal(t, "// polygon order", c.Attributes.ExpressionStatements[0].TrailingComment)

	require.Len(t, c.Methods, 1)
	m := c.Methods[0]
	assert.Equal(t, "area", m.Name)
	assert.Contains(t, m.Attributes.Modifiers, "virtual")

	require.NotNil(t, m.Docstring)
	assert.Equal(t, "Surface area.", *m.Docstring)
}

func TestCppQualifiedDefinition(t *testing.T) {
	t.Parallel()

	f := parseCpp(t, `double Stack::pop() {
    return 0.0;
}
`)
	m := f.MethodByName("Stack::pop", "")
	require.NotNil(t, m)
	assert.Equal(t, "double", m.Attributes.ReturnType)
}

func TestCppPointerReturn(t *testing.T) {
	t.Parallel()

	f := parseCpp(t, "int *head(List *l) {\n    return l->first;\n}\n")
	m := f.MethodByName("head", "")
	require.NotNil(t, m)
	assert.Equal(t, []string{"List *l"}, m.Attributes.Parameters)
}

func TestCppVersionDetails(t *testing.T) {
	t.Parallel()

	f := parseCpp(t, "#include <memory>\nstd::auto_ptr<int> p;\n")
	assert.Contains(t, f.LanguageVersionDetails, "auto_ptr")
}
