package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test plan:
// 1. AllMethods covers file-level, class and nested-class methods in order
// 2. QualifiedName joins class and method names
// 3. MethodByName distinguishes file-level and class methods
// 4. MethodAtLine resolves by row span
// 5. SliceSource is exact on byte offsets and safe on bad spans

func fixtureSchema() *FileSchema {
	return &FileSchema{
		Methods: []MethodEntity{
			{Name: "top", Span: Span{StartPoint: Point{0, 0}, EndPoint: Point{2, 0}}},
		},
		Classes: []ClassEntity{
			{
				Name: "Outer",
				Methods: []MethodEntity{
					{Name: "run", Span: Span{StartPoint: Point{5, 4}, EndPoint: Point{8, 4}}},
				},
				Attributes: ClassAttributes{
					Classes: []ClassEntity{
						{
							Name: "Inner",
							Methods: []MethodEntity{
								{Name: "helper", Span: Span{StartPoint: Point{10, 8}, EndPoint: Point{11, 8}}},
							},
						},
					},
				},
			},
		},
	}
}

func TestAllMethodsRecursion(t *testing.T) {
	t.Parallel()

	f := fixtureSchema()
	all := f.AllMethods()
	require.Len(t, all, 3)

	assert.Equal(t, "top", all[0].QualifiedName())
	assert.Equal(t, "Outer.run", all[1].QualifiedName())
	assert.Equal(t, "Inner.helper", all[2].QualifiedName())
}

func TestMethodByName(t *testing.T) {
	t.Parallel()

	f := fixtureSchema()

	require.NotNil(t, f.MethodByName("top", ""))
	require.NotNil(t, f.MethodByName("run", "Outer"))
	require.NotNil(t, f.MethodByName("helper", "Inner"))

	assert.Nil(t, f.MethodByName("run", ""), "class method must not match without class")
	assert.Nil(t, f.MethodByName("missing", "Outer"))
}

func TestMethodAtLine(t *testing.T) {
	t.Parallel()

	f := fixtureSchema()

	m := f.MethodAtLine(6)
	require.NotNil(t, m)
	assert.Equal(t, "run", m.Name)

	assert.Nil(t, f.MethodAtLine(4))
	assert.Nil(t, f.MethodAtLine(99))
}

func TestSliceSource(t *testing.T) {
	t.Parallel()

	source := []byte("def f():\n    pass\n")
	span := Span{ByteSpan: ByteSpan{0, 8}}
	assert.Equal(t, "def f():", SliceSource(source, span))

	assert.Empty(t, SliceSource(source, Span{ByteSpan: ByteSpan{5, 999}}))
	assert.Empty(t, SliceSource(source, Span{ByteSpan: ByteSpan{9, 3}}))
}
