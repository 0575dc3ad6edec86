package analyze

import (
	"go/types"
	"sort"
)

// basicKinds maps Go basic type names to their kinds, for types built
// without go/types (schema files).
var basicKinds = map[string]types.BasicKind{
	"bool":       types.Bool,
	"string":     types.String,
	"int":        types.Int,
	"int8":       types.Int8,
	"int16":      types.Int16,
	"int32":      types.Int32,
	"rune":       types.Int32,
	"int64":      types.Int64,
	"uint":       types.Uint,
	"uint8":      types.Uint8,
	"byte":       types.Uint8,
	"uint16":     types.Uint16,
	"uint32":     types.Uint32,
	"uint64":     types.Uint64,
	"uintptr":    types.Uintptr,
	"float32":    types.Float32,
	"float64":    types.Float64,
	"complex64":  types.Complex64,
	"complex128": types.Complex128,
}

// BasicKindOf looks up a Go basic type by name.
func BasicKindOf(name string) (types.BasicKind, bool) {
	k, ok := basicKinds[name]
	return k, ok
}

// BasicNames returns the Go basic type names, for suggestions.
func BasicNames() []string {
	names := make([]string, 0, len(basicKinds))
	for n := range basicKinds {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}
