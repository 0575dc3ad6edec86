package typemap

import (
	"fmt"
	"go/types"

	"github.com/sirupsen/logrus"

	"typewriter/internal/analyze"
	"typewriter/internal/diagnostic"
	"typewriter/internal/naming"
)

// Options control how types are mapped.
type Options struct {
	// StrictAll marks every record strict, not only those tagged @strict.
	StrictAll bool
	// OptionalOmitEmpty marks omitempty fields optional.
	OptionalOmitEmpty bool
	// FieldCase renders Go field names that have no json tag.
	FieldCase naming.Case
	// Overrides maps external types ("time.Time" or the full import path
	// form) to override values, see ParseOverride.
	Overrides map[string]string
}

// DefaultOverrides are applied to external types unless Options.Overrides
// names the same type.
var DefaultOverrides = map[string]string{
	"time.Time":                "string",
	"time.Duration":            "int",
	"encoding/json.RawMessage": "any",
	"encoding/json.Number":     "float",
	"math/big.Int":             "float",
	"net/url.URL":              "string",
}

// DefaultOptions returns the default mapping options.
func DefaultOptions() Options {
	return Options{FieldCase: naming.CaseGo}
}

// Mapper maps an analyzed type graph to target declarations.
type Mapper struct {
	opts Options
	log  logrus.FieldLogger

	declared map[analyze.TypeID]string
	inlining map[*analyze.TypeInfo]bool
	diags    diagnostic.Diagnostics
}

// NewMapper creates a new Mapper.
func NewMapper(opts Options, log logrus.FieldLogger) *Mapper {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Mapper{opts: opts, log: log}
}

// Map returns a declaration for every exported named type of the analyzed
// packages, in source order.
func (m *Mapper) Map(graph *analyze.TypeGraph) ([]Decl, diagnostic.Diagnostics) {
	m.declared = make(map[analyze.TypeID]string)
	m.inlining = make(map[*analyze.TypeInfo]bool)
	m.diags = diagnostic.Diagnostics{}

	var candidates []*analyze.TypeInfo

	byName := make(map[string]analyze.TypeID)

	for _, t := range graph.Declared() {
		if hasDirective(t.Doc, "@ignore") {
			m.log.WithField("type", t.ID.String()).Debug("type ignored")
			continue
		}

		if prev, ok := byName[t.ID.Name]; ok {
			m.diags.AddError(diagnostic.CodeDuplicateName,
				fmt.Sprintf("%s and %s would both be declared as %s", prev, t.ID, t.ID.Name),
				t.ID.Name, "")

			continue
		}

		byName[t.ID.Name] = t.ID
		m.declared[t.ID] = t.ID.Name
		candidates = append(candidates, t)
	}

	decls := make([]Decl, 0, len(candidates))
	for _, t := range candidates {
		decls = append(decls, m.mapDecl(t))
	}

	return decls, m.diags
}

// mapDecl maps a declared type to its declaration. The type itself is
// expanded rather than referenced.
func (m *Mapper) mapDecl(t *analyze.TypeInfo) Decl {
	path := analyze.NewTypePath(t.ID.Name)

	d := Decl{
		ID:   t.ID,
		Name: t.ID.Name,
		Doc:  t.Doc,
		Seq:  t.Seq,
	}

	switch t.Kind {
	case analyze.TypeKindStruct:
		m.inlining[t] = true
		d.Type = Object(m.fields(t, path))
		delete(m.inlining, t)

		d.Strict = m.opts.StrictAll || hasDirective(t.Doc, "@strict")

	case analyze.TypeKindAlias:
		d.Type = m.mapType(t.Underlying, path)

	default:
		d.Type = m.mapType(t, path)
	}

	return d
}

// mapType maps a type used by a field, element or alias.
func (m *Mapper) mapType(t *analyze.TypeInfo, path *analyze.TypePath) *Type {
	if t == nil {
		return Any()
	}

	if name, ok := m.declared[t.ID]; ok && t.IsNamed() && t.Kind != analyze.TypeKindBasic {
		return Ref(name)
	}

	switch t.Kind {
	case analyze.TypeKindBasic:
		s, ok := ScalarOf(t.Basic)
		if !ok {
			m.unsupported(t, path)
		}

		return NewScalar(s)

	case analyze.TypeKindPointer:
		return NullableOf(m.mapType(t.ElemType, path.Pointer()))

	case analyze.TypeKindSlice:
		// encoding/json writes []byte as a base64 string.
		if isByte(t.ElemType) {
			return NewScalar(ScalarString)
		}

		return ArrayOf(m.mapType(t.ElemType, path.Slice()))

	case analyze.TypeKindArray:
		return ArrayOf(m.mapType(t.ElemType, path.Slice()))

	case analyze.TypeKindMap:
		return MapOf(m.mapKey(t.KeyType, path), m.mapType(t.ElemType, path.MapValue()))

	case analyze.TypeKindInterface:
		return Any()

	case analyze.TypeKindStruct:
		// Named structs that are not declared (unexported, ignored) and
		// anonymous structs are written inline.
		if m.inlining[t] {
			m.diags.AddWarning(diagnostic.CodeUnsupportedType,
				fmt.Sprintf("recursive type %s is not declared and cannot be inlined", analyze.TypeString(t)),
				path.Root(), path.String())

			return Opaque()
		}

		m.inlining[t] = true
		obj := Object(m.fields(t, path))
		delete(m.inlining, t)

		return obj

	case analyze.TypeKindAlias:
		if m.inlining[t] {
			m.diags.AddWarning(diagnostic.CodeUnsupportedType,
				fmt.Sprintf("alias %s resolves to itself", analyze.TypeString(t)),
				path.Root(), path.String())

			return Any()
		}

		m.inlining[t] = true
		out := m.mapType(t.Underlying, path)
		delete(m.inlining, t)

		return out

	case analyze.TypeKindExternal:
		return m.mapExternal(t, path)

	default:
		m.unsupported(t, path)

		return Any()
	}
}

// mapKey maps a map key. Keys are resolved to their scalar because index
// signatures only accept string and number keys.
func (m *Mapper) mapKey(t *analyze.TypeInfo, path *analyze.TypePath) *Type {
	base := t
	seen := make(map[*analyze.TypeInfo]bool)

	for base != nil && base.Kind == analyze.TypeKindAlias && !seen[base] {
		seen[base] = true
		base = base.Underlying
	}

	if base != nil && base.Kind == analyze.TypeKindBasic {
		if s, ok := ScalarOf(base.Basic); ok && (s == ScalarString || s == ScalarInt) {
			return NewScalar(s)
		}
	}

	m.diags.AddWarning(diagnostic.CodeMapKey,
		fmt.Sprintf("map key type %s is written as string", analyze.TypeString(t)),
		path.Root(), path.String())

	return NewScalar(ScalarString)
}

// mapExternal maps a type from a package that is not being generated.
func (m *Mapper) mapExternal(t *analyze.TypeInfo, path *analyze.TypePath) *Type {
	if v, ok := m.override(t.ID); ok {
		return ParseOverride(v)
	}

	m.diags.AddInfo(diagnostic.CodeExternalType,
		fmt.Sprintf("external type %s is written as an opaque object", t.ID),
		path.Root(), path.String())

	return Opaque()
}

func (m *Mapper) override(id analyze.TypeID) (string, bool) {
	for _, table := range []map[string]string{m.opts.Overrides, DefaultOverrides} {
		if v, ok := table[id.String()]; ok {
			return v, true
		}

		if v, ok := table[id.Short()]; ok {
			return v, true
		}
	}

	return "", false
}

// candidate is a struct field that may appear in the JSON object.
type candidate struct {
	field  *analyze.FieldInfo
	name   string
	depth  int
	tagged bool
}

// fields maps the fields of a struct, flattening embedded structs the way
// encoding/json does. Among fields sharing a name the shallowest wins; at
// equal depth a single tagged field wins, otherwise the name is left out.
func (m *Mapper) fields(t *analyze.TypeInfo, path *analyze.TypePath) []Field {
	cands := m.collect(t, 0)

	byName := make(map[string][]int, len(cands))
	for i, c := range cands {
		byName[c.name] = append(byName[c.name], i)
	}

	out := make([]Field, 0, len(cands))

	for i, c := range cands {
		same := byName[c.name]

		w, ok := dominant(cands, same)
		if !ok {
			if same[0] == i {
				m.diags.AddWarning(diagnostic.CodeDuplicateName,
					fmt.Sprintf("promoted field %s is ambiguous and is left out", c.name),
					path.Root(), path.Field(c.name).String())
			}

			continue
		}

		if w == i {
			out = append(out, m.field(c.field, c.name, path))
		}
	}

	return out
}

// collect lists the fields of t followed by the fields promoted from its
// embedded structs.
func (m *Mapper) collect(t *analyze.TypeInfo, depth int) []candidate {
	var own, promoted []candidate

	for i := range t.Fields {
		f := &t.Fields[i]
		if f.Skipped() {
			continue
		}

		if f.Embedded && f.JSONTagName() == "" {
			if inner := embeddedStruct(f.Type); inner != nil {
				if m.inlining[inner] {
					continue
				}

				m.inlining[inner] = true
				promoted = append(promoted, m.collect(inner, depth+1)...)
				delete(m.inlining, inner)

				continue
			}
		}

		if !f.Exported {
			continue
		}

		own = append(own, candidate{
			field:  f,
			name:   m.fieldName(f),
			depth:  depth,
			tagged: f.JSONTagName() != "",
		})
	}

	return append(own, promoted...)
}

// dominant returns the index of the candidate that wins among those at
// indexes same, or false when the name is ambiguous.
func dominant(cands []candidate, same []int) (int, bool) {
	depth := cands[same[0]].depth
	for _, i := range same[1:] {
		depth = min(depth, cands[i].depth)
	}

	var shallow, tagged []int

	for _, i := range same {
		if cands[i].depth != depth {
			continue
		}

		shallow = append(shallow, i)

		if cands[i].tagged {
			tagged = append(tagged, i)
		}
	}

	switch {
	case len(shallow) == 1:
		return shallow[0], true
	case len(tagged) == 1:
		return tagged[0], true
	default:
		return 0, false
	}
}

// fieldName returns the JSON object key of a field.
func (m *Mapper) fieldName(f *analyze.FieldInfo) string {
	if name := f.JSONTagName(); name != "" {
		return name
	}

	return m.opts.FieldCase.Apply(f.Name)
}

// field maps one struct field written under name.
func (m *Mapper) field(f *analyze.FieldInfo, name string, path *analyze.TypePath) Field {
	fieldPath := path.Field(name)

	out := Field{
		Name:     name,
		Doc:      f.Doc,
		Comment:  f.Comment,
		Optional: f.Optional || (m.opts.OptionalOmitEmpty && f.OmitEmpty()),
	}

	raw, nullable, ok, err := f.Override()
	if err != nil {
		m.log.WithError(err).WithField("field", fieldPath.String()).Warn("invalid nullable flag in tw tag")
		m.diags.AddWarning(diagnostic.CodeBadOverride,
			fmt.Sprintf("tw tag %q: nullable flag is not a bool", f.Tag.Get("tw")),
			path.Root(), fieldPath.String())
	}

	if ok {
		out.Type = ParseOverride(raw)
		if nullable {
			out.Type = NullableOf(out.Type)
		}

		return out
	}

	out.Type = m.mapType(f.Type, fieldPath)

	return out
}

func (m *Mapper) unsupported(t *analyze.TypeInfo, path *analyze.TypePath) {
	m.diags.AddWarning(diagnostic.CodeUnsupportedType,
		fmt.Sprintf("type %s has no JSON form and is written as any", analyze.TypeString(t)),
		path.Root(), path.String())
}

// embeddedStruct returns the struct promoted by an embedded field, if any.
// External types are not flattened since they may marshal themselves.
func embeddedStruct(t *analyze.TypeInfo) *analyze.TypeInfo {
	if t != nil && t.Kind == analyze.TypeKindPointer {
		t = t.ElemType
	}

	if t == nil || t.Kind != analyze.TypeKindStruct {
		return nil
	}

	return t
}

func isByte(t *analyze.TypeInfo) bool {
	return t != nil && t.Kind == analyze.TypeKindBasic && t.Basic == types.Uint8
}
