package typemap

import (
	"sort"
	"strings"

	"typewriter/internal/analyze"
	"typewriter/internal/common"
)

// Kind is the kind of a target type construct.
type Kind int

const (
	KindUnknown  Kind = iota
	KindScalar        // string, int, float, bool, any
	KindRef           // reference to another declaration
	KindArray         // ordered list of Elem
	KindMap           // mapping from Key to Elem
	KindNullable      // Elem or null
	KindObject        // record with Fields
	KindOpaque        // object of unknown shape
	KindRaw           // verbatim target type text
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindRef:
		return "ref"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindNullable:
		return "nullable"
	case KindObject:
		return "object"
	case KindOpaque:
		return "opaque"
	case KindRaw:
		return "raw"
	default:
		return common.UnknownStr
	}
}

// Type is a language-neutral target type.
type Type struct {
	Kind   Kind
	Scalar Scalar  // for KindScalar
	Name   string  // for KindRef (declaration name) and KindRaw (text)
	Elem   *Type   // for KindArray, KindMap and KindNullable
	Key    *Type   // for KindMap
	Fields []Field // for KindObject
}

// Field is a record field.
type Field struct {
	Name     string
	Type     *Type
	Doc      string
	Comment  string
	Optional bool
}

// NewScalar returns a scalar type.
func NewScalar(s Scalar) *Type {
	return &Type{Kind: KindScalar, Scalar: s}
}

// Any returns the any scalar.
func Any() *Type {
	return NewScalar(ScalarAny)
}

// Ref returns a reference to the declaration called name.
func Ref(name string) *Type {
	return &Type{Kind: KindRef, Name: name}
}

// ArrayOf returns an array of elem.
func ArrayOf(elem *Type) *Type {
	return &Type{Kind: KindArray, Elem: elem}
}

// MapOf returns a mapping from key to elem.
func MapOf(key, elem *Type) *Type {
	return &Type{Kind: KindMap, Key: key, Elem: elem}
}

// NullableOf returns elem or null. Nullable types are not wrapped again.
func NullableOf(elem *Type) *Type {
	if elem.Kind == KindNullable {
		return elem
	}

	return &Type{Kind: KindNullable, Elem: elem}
}

// Object returns a record type.
func Object(fields []Field) *Type {
	return &Type{Kind: KindObject, Fields: fields}
}

// Opaque returns an object of unknown shape.
func Opaque() *Type {
	return &Type{Kind: KindOpaque}
}

// Raw returns a verbatim target type.
func Raw(text string) *Type {
	return &Type{Kind: KindRaw, Name: text}
}

// ParseOverride turns an override value into a type. The scalar keywords
// string, int, float, number, bool, boolean, any and object are
// language-neutral; anything else is copied verbatim.
func ParseOverride(s string) *Type {
	switch strings.TrimSpace(s) {
	case "string":
		return NewScalar(ScalarString)
	case "int", "integer":
		return NewScalar(ScalarInt)
	case "float", "number":
		return NewScalar(ScalarFloat)
	case "bool", "boolean":
		return NewScalar(ScalarBool)
	case "any":
		return Any()
	case "object", "Object":
		return Opaque()
	default:
		return Raw(strings.TrimSpace(s))
	}
}

// Refs returns the sorted, de-duplicated names referenced by t.
func (t *Type) Refs() []string {
	seen := make(map[string]bool)
	t.collectRefs(seen)

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}

	sort.Strings(out)

	return out
}

func (t *Type) collectRefs(seen map[string]bool) {
	if t == nil {
		return
	}

	switch t.Kind {
	case KindRef:
		seen[t.Name] = true
	case KindArray, KindNullable:
		t.Elem.collectRefs(seen)
	case KindMap:
		t.Key.collectRefs(seen)
		t.Elem.collectRefs(seen)
	case KindObject:
		for _, f := range t.Fields {
			f.Type.collectRefs(seen)
		}
	}
}

// Decl is a named target declaration.
type Decl struct {
	ID     analyze.TypeID // Source type
	Name   string         // Declared name
	Doc    string         // Doc comment, without comment markers
	Strict bool           // Exact record (Flow)
	Type   *Type
	Seq    int // Source order
}

// IsRecord reports whether the declaration declares a record.
func (d *Decl) IsRecord() bool {
	return d.Type != nil && d.Type.Kind == KindObject
}

// DocLines splits the doc comment into lines.
func (d *Decl) DocLines() []string {
	return lines(d.Doc)
}

func lines(s string) []string {
	if s == "" {
		return nil
	}

	return strings.Split(s, "\n")
}

// hasDirective reports whether a doc comment carries the given @directive
// as a separate word.
func hasDirective(doc, directive string) bool {
	for _, line := range lines(doc) {
		for _, word := range strings.Fields(line) {
			if word == directive {
				return true
			}
		}
	}

	return false
}
