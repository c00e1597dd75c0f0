package schema

// LocatedMethod is a method together with the name of the class that owns
// it. ClassName is empty for file-level methods.
type LocatedMethod struct {
	ClassName string
	Method    *MethodEntity
}

// QualifiedName returns "Class.method" for class methods and the bare
// method name otherwise.
func (m LocatedMethod) QualifiedName() string {
	if m.ClassName == "" {
		return m.Method.Name
	}
	return m.ClassName + "." + m.Method.Name
}

// AllMethods walks every method in the file: file-level methods first,
// then class methods in declaration order, descending into nested classes.
func (f *FileSchema) AllMethods() []LocatedMethod {
	out := make([]LocatedMethod, 0, len(f.Methods))
	for i := range f.Methods {
		out = append(out, LocatedMethod{Method: &f.Methods[i]})
	}
	for i := range f.Classes {
		out = append(out, classMethods(&f.Classes[i])...)
	}
	return out
}

func classMethods(c *ClassEntity) []LocatedMethod {
	out := make([]LocatedMethod, 0, len(c.Methods))
	for i := range c.Methods {
		out = append(out, LocatedMethod{ClassName: c.Name, Method: &c.Methods[i]})
	}
	for i := range c.Attributes.Classes {
		out = append(out, classMethods(&c.Attributes.Classes[i])...)
	}
	return out
}

// MethodByName finds a method by name. className must match the owning
// class for class methods and be empty for file-level methods. Returns nil
// if no method matches.
func (f *FileSchema) MethodByName(name, className string) *MethodEntity {
	for _, lm := range f.AllMethods() {
		if lm.Method.Name == name && lm.ClassName == className {
			return lm.Method
		}
	}
	return nil
}

// MethodAtLine returns the first method whose line span covers the
// zero-based line, or nil.
func (f *FileSchema) MethodAtLine(line int) *MethodEntity {
	for _, lm := range f.AllMethods() {
		if lm.Method.Span.StartPoint.Row() <= line && line <= lm.Method.Span.EndPoint.Row() {
			return lm.Method
		}
	}
	return nil
}

// SliceSource extracts the bytes of source covered by span. The schema
// stores byte offsets, so this is exact even for multi-byte runes.
func SliceSource(source []byte, span Span) string {
	start, end := span.ByteSpan.Start(), span.ByteSpan.End()
	if start < 0 || end > len(source) || start > end {
		return ""
	}
	return string(source[start:end])
}
