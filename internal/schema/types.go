package schema

import (
	"bytes"
	"encoding/json"
)

// Point is a zero-based (row, column) source position, serialized as a
// two-element JSON array.
type Point [2]int

// Row returns the zero-based line number.
func (p Point) Row() int { return p[0] }

// Col returns the zero-based column.
func (p Point) Col() int { return p[1] }

// ByteSpan is a half-open [start, end) byte range into the source file.
type ByteSpan [2]int

// Start returns the inclusive start offset.
func (b ByteSpan) Start() int { return b[0] }

// End returns the exclusive end offset.
func (b ByteSpan) End() int { return b[1] }

// Contains reports whether other lies entirely within b.
func (b ByteSpan) Contains(other ByteSpan) bool {
	return b.Start() <= other.Start() && other.End() <= b.End()
}

// Span locates an entity in its source file: exact byte offsets plus
// line/column positions for both ends.
type Span struct {
	ByteSpan   ByteSpan `json:"byte_span"`
	StartPoint Point    `json:"start_point"`
	EndPoint   Point    `json:"end_point"`
}

// DefaultArgument is one parameter with an initializer expression. The
// default value is kept as verbatim source text, never evaluated.
type DefaultArgument struct {
	Name  string
	Value string
}

// DefaultArguments is an ordered parameter-name -> default-literal mapping.
// It serializes as a JSON object whose keys appear in declaration order.
type DefaultArguments []DefaultArgument

// MarshalJSON emits the arguments as an object, preserving insertion order.
// encoding/json sorts map keys, which would destroy declaration order.
func (d DefaultArguments) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, arg := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(arg.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(arg.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores the mapping. Order within the JSON object is
// preserved by decoding tokens sequentially.
func (d *DefaultArguments) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil { // opening brace
		return err
	}
	out := DefaultArguments{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return err
		}
		out = append(out, DefaultArgument{Name: keyTok.(string), Value: value})
	}
	*d = out
	return nil
}

// ExpressionStatement is a field or attribute assignment appearing directly
// in a class body, with the same-line trailing comment when one exists.
type ExpressionStatement struct {
	Expression      string `json:"expression"`
	TrailingComment string `json:"trailing_comment,omitempty"`
}

// MethodAttributes is the language-specific bag attached to a method.
// Only the fields a language populates are emitted.
type MethodAttributes struct {
	Decorators      []string `json:"decorators,omitempty"`
	Modifiers       []string `json:"modifiers,omitempty"`
	Parameters      []string `json:"parameters,omitempty"`
	ReturnType      string   `json:"return_type,omitempty"`
	NamespacePrefix string   `json:"namespace_prefix,omitempty"`
}

// ClassAttributes is the language-specific bag attached to a class. Classes
// nest through Classes, so the schema is recursive to arbitrary depth.
type ClassAttributes struct {
	Decorators           []string              `json:"decorators,omitempty"`
	Modifiers            []string              `json:"modifiers,omitempty"`
	Bases                []string              `json:"bases,omitempty"`
	NamespacePrefix      string                `json:"namespace_prefix,omitempty"`
	ExpressionStatements []ExpressionStatement `json:"expression_statements,omitempty"`
	Classes              []ClassEntity         `json:"classes,omitempty"`
}

// MethodEntity is one function, method, or constructor.
//
// Docstring is nil when no documentation was associated with the
// declaration; it is never the empty string standing in for absence.
type MethodEntity struct {
	Name                 string           `json:"name"`
	Span                 Span             `json:"span"`
	OriginalString       string           `json:"original_string"`
	Signature            string           `json:"signature"`
	Docstring            *string          `json:"docstring"`
	Body                 string           `json:"body"`
	OriginalStringNormed string           `json:"original_string_normed"`
	SignatureNormed      string           `json:"signature_normed"`
	BodyNormed           string           `json:"body_normed"`
	DefaultArguments     DefaultArguments `json:"default_arguments"`
	SyntaxPass           bool             `json:"syntax_pass"`
	Attributes           MethodAttributes `json:"attributes"`
}

// ClassEntity is one class-like declaration (class, struct, interface,
// module -- whatever the language maps onto the role).
type ClassEntity struct {
	Name           string          `json:"name"`
	Span           Span            `json:"span"`
	OriginalString string          `json:"original_string"`
	Definition     string          `json:"definition"`
	ClassDocstring *string         `json:"class_docstring"`
	SyntaxPass     bool            `json:"syntax_pass"`
	Attributes     ClassAttributes `json:"attributes"`
	Methods        []MethodEntity  `json:"methods"`
}

// FileSchema is the complete structural extraction of one source file.
// It is immutable after construction and carries no reference back into
// the parser that produced it.
type FileSchema struct {
	FileDocstring          *string        `json:"file_docstring"`
	Contexts               []string       `json:"contexts"`
	LanguageVersionDetails []string       `json:"language_version_details"`
	Methods                []MethodEntity `json:"methods"`
	Classes                []ClassEntity  `json:"classes"`
}

// Str returns a pointer to s, for populating nullable docstring fields.
func Str(s string) *string { return &s }
