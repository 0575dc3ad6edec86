package analyze

import (
	"strconv"
	"strings"
)

// TypePath builds a readable path string for a location inside a type.
// Examples:
//   - "Person" for a declaration
//   - "Person.name" for a field
//   - "Names[]" for slice elements
//   - "People{}" for map values
type TypePath struct {
	parts []string
}

// NewTypePath creates a new TypePath from a root type name.
func NewTypePath(root string) *TypePath {
	return &TypePath{
		parts: []string{root},
	}
}

// Field appends a field name to the path.
func (p *TypePath) Field(name string) *TypePath {
	return &TypePath{
		parts: append(append([]string{}, p.parts...), name),
	}
}

// Slice appends a slice indicator "[]" to the path.
func (p *TypePath) Slice() *TypePath {
	return p.suffix("[]")
}

// MapValue appends a map value indicator "{}" to the path.
func (p *TypePath) MapValue() *TypePath {
	return p.suffix("{}")
}

// Pointer appends a pointer indicator "*" to the path.
func (p *TypePath) Pointer() *TypePath {
	if len(p.parts) == 0 {
		return &TypePath{parts: []string{"*"}}
	}
	newParts := make([]string, len(p.parts))
	copy(newParts, p.parts)
	newParts[len(newParts)-1] = "*" + newParts[len(newParts)-1]
	return &TypePath{parts: newParts}
}

func (p *TypePath) suffix(s string) *TypePath {
	if len(p.parts) == 0 {
		return &TypePath{parts: []string{s}}
	}
	newParts := make([]string, len(p.parts))
	copy(newParts, p.parts)
	newParts[len(newParts)-1] += s
	return &TypePath{parts: newParts}
}

// Root returns the first element of the path.
func (p *TypePath) Root() string {
	if len(p.parts) == 0 {
		return ""
	}

	return strings.TrimLeft(p.parts[0], "*")
}

// String returns the full path string.
func (p *TypePath) String() string {
	return strings.Join(p.parts, ".")
}

// TypeString returns a Go-like representation of a TypeInfo, used in
// diagnostics. Named types are shown with their package alias.
func TypeString(t *TypeInfo) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind {
	case TypeKindBasic:
		return t.ID.Name

	case TypeKindStruct:
		if t.IsNamed() {
			return t.ID.Short()
		}
		return "struct{...}"

	case TypeKindPointer:
		return "*" + TypeString(t.ElemType)

	case TypeKindSlice:
		return "[]" + TypeString(t.ElemType)

	case TypeKindArray:
		return "[" + strconv.FormatInt(t.Len, 10) + "]" + TypeString(t.ElemType)

	case TypeKindMap:
		return "map[" + TypeString(t.KeyType) + "]" + TypeString(t.ElemType)

	case TypeKindInterface:
		if t.IsNamed() {
			return t.ID.Short()
		}
		return "interface{...}"

	case TypeKindAlias, TypeKindExternal:
		if t.IsNamed() {
			return t.ID.Short()
		}
		return TypeString(t.Underlying)

	default:
		if t.GoType != nil {
			return t.GoType.String()
		}
		return "<unknown>"
	}
}
