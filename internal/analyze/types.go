package analyze

import (
	"go/types"
	"reflect"
	"slices"
	"sort"
	"strconv"
	"strings"

	"typewriter/internal/common"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "typewriter/examples/models"
	Name    string // e.g., "Person"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Short returns the package-alias-qualified name, e.g. "time.Time".
func (t TypeID) Short() string {
	return common.Qualify(common.PkgAlias(t.PkgPath), t.Name)
}

// TypeKind represents the kind of a type.
type TypeKind int

const (
	TypeKindUnknown   TypeKind = iota
	TypeKindBasic              // int, string, bool, etc.
	TypeKindStruct             // struct type
	TypeKindPointer            // pointer to another type
	TypeKindSlice              // slice of another type
	TypeKindArray              // array of another type
	TypeKindMap                // map from KeyType to ElemType
	TypeKindInterface          // any interface, including any
	TypeKindAlias              // named type wrapping a non-struct type
	TypeKindExternal           // named type outside the analyzed packages (e.g., time.Time)
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindArray:
		return "array"
	case TypeKindMap:
		return "map"
	case TypeKindInterface:
		return "interface"
	case TypeKindAlias:
		return "alias"
	case TypeKindExternal:
		return "external"
	default:
		return common.UnknownStr
	}
}

// TypeInfo describes a type in the type graph.
type TypeInfo struct {
	ID         TypeID      // Unique identifier (empty for unnamed types like *T or []T)
	Kind       TypeKind    // Kind of type
	Underlying *TypeInfo   // For aliases, the underlying type
	ElemType   *TypeInfo   // For pointers, slices, arrays and maps, the element type
	KeyType    *TypeInfo   // For maps, the key type
	Fields     []FieldInfo // For structs, the list of fields
	Basic      types.BasicKind
	Len        int64      // For arrays, the length
	GoType     types.Type // The original go/types.Type (nil for schema-built types)
	Doc        string     // Doc comment of the declaration, without comment markers
	Seq        int        // Declaration order within the graph (source order)
}

// IsNamed returns true if this type has a name (TypeID is set).
func (t *TypeInfo) IsNamed() bool {
	return t.ID.Name != ""
}

// FieldInfo describes a struct field.
type FieldInfo struct {
	Name     string            // Go field name
	Exported bool              // Whether the field is exported
	Type     *TypeInfo         // Field type
	Tag      reflect.StructTag // Raw struct tag
	Embedded bool              // Whether the field is embedded (anonymous)
	Index    int               // Field index in the struct
	Doc      string            // Comment lines above the field
	Comment  string            // Trailing comment on the field line
	Optional bool              // Declared optional by a schema file
}

// JSONTagName returns the name part of the json tag, or "" when the tag
// does not name the field.
func (f *FieldInfo) JSONTagName() string {
	tag := f.Tag.Get("json")
	if tag == "" || tag == "-" {
		return ""
	}

	name, _, _ := strings.Cut(tag, ",")

	return name
}

// JSONOptions returns the options following the name in the json tag.
func (f *FieldInfo) JSONOptions() []string {
	tag := f.Tag.Get("json")

	_, opts, found := strings.Cut(tag, ",")
	if !found || opts == "" {
		return nil
	}

	return strings.Split(opts, ",")
}

// OmitEmpty reports whether the json tag carries omitempty or omitzero.
func (f *FieldInfo) OmitEmpty() bool {
	for _, opt := range f.JSONOptions() {
		if opt == "omitempty" || opt == "omitzero" {
			return true
		}
	}

	return false
}

// Skipped reports whether the field is excluded with json:"-" or tw:"-".
func (f *FieldInfo) Skipped() bool {
	return f.Tag.Get("json") == "-" || f.Tag.Get("tw") == "-"
}

// Override returns the type override given by the tw tag.
// The tag format is tw:"Type" or tw:"Type,nullable" where nullable is a bool.
// A nullable flag that does not parse is reported through err and treated as false.
func (f *FieldInfo) Override() (typ string, nullable bool, ok bool, err error) {
	tag := f.Tag.Get("tw")
	if tag == "" || tag == "-" {
		return "", false, false, nil
	}

	typ, flag, hasFlag := strings.Cut(tag, ",")
	if typ == "" {
		return "", false, false, nil
	}

	if hasFlag {
		nullable, err = strconv.ParseBool(strings.TrimSpace(flag))
		if err != nil {
			return typ, false, true, err
		}
	}

	return typ, nullable, true, nil
}

// TypeGraph holds all analyzed types from loaded packages.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all named types.
	Types map[TypeID]*TypeInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*TypeInfo),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// Declared returns the named types of the analyzed packages in declaration order.
func (g *TypeGraph) Declared() []*TypeInfo {
	var out []*TypeInfo

	for _, pkg := range g.Packages {
		for _, id := range pkg.Types {
			if t := g.Types[id]; t != nil {
				out = append(out, t)
			}
		}
	}

	sortBySeq(out)

	return out
}

// Merge adds the types and packages of other to g, after the types already
// in g in source order. Types whose IDs g already holds are not merged; their
// IDs are returned, sorted.
func (g *TypeGraph) Merge(other *TypeGraph) []TypeID {
	if other == nil {
		return nil
	}

	offset := 0
	for _, t := range g.Types {
		offset = max(offset, t.Seq+1)
	}

	var dups []TypeID

	taken := make(map[TypeID]bool)

	for id, t := range other.Types {
		if _, ok := g.Types[id]; ok {
			dups = append(dups, id)
			taken[id] = true

			continue
		}

		t.Seq += offset
		g.Types[id] = t
	}

	for path, pkg := range other.Packages {
		existing, ok := g.Packages[path]
		if !ok {
			g.Packages[path] = pkg
			continue
		}

		for _, id := range pkg.Types {
			if !taken[id] {
				existing.Types = append(existing.Types, id)
			}
		}

		for _, f := range pkg.Files {
			if !slices.Contains(existing.Files, f) {
				existing.Files = append(existing.Files, f)
			}
		}
	}

	sort.Slice(dups, func(i, j int) bool { return dups[i].String() < dups[j].String() })

	return dups
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Dir   string   // Directory holding the package sources (empty for schema files)
	Files []string // Source files the package was read from
	Types []TypeID // Named types defined in this package
}
