package typemap

import (
	"go/types"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typewriter/internal/analyze"
	"typewriter/internal/diagnostic"
	"typewriter/internal/naming"
)

const pkg = "example.com/models"

func basic(k types.BasicKind, name string) *analyze.TypeInfo {
	return &analyze.TypeInfo{ID: analyze.TypeID{Name: name}, Kind: analyze.TypeKindBasic, Basic: k}
}

var (
	stringT = basic(types.String, "string")
	intT    = basic(types.Int, "int")
	byteT   = basic(types.Uint8, "uint8")
)

func named(name string, kind analyze.TypeKind) *analyze.TypeInfo {
	return &analyze.TypeInfo{ID: analyze.TypeID{PkgPath: pkg, Name: name}, Kind: kind}
}

func field(name string, typ *analyze.TypeInfo, tag string) analyze.FieldInfo {
	return analyze.FieldInfo{Name: name, Exported: true, Type: typ, Tag: reflect.StructTag(tag)}
}

// graphOf declares ts, in order, in one package.
func graphOf(ts ...*analyze.TypeInfo) *analyze.TypeGraph {
	g := analyze.NewTypeGraph()
	info := &analyze.PackageInfo{Path: pkg, Name: "models"}

	for i, t := range ts {
		t.Seq = i
		g.Types[t.ID] = t
		info.Types = append(info.Types, t.ID)
	}

	g.Packages[pkg] = info

	return g
}

func newTestMapper(opts Options) *Mapper {
	log, _ := test.NewNullLogger()
	return NewMapper(opts, log)
}

func declByName(t *testing.T, decls []Decl, name string) Decl {
	t.Helper()

	for _, d := range decls {
		if d.Name == name {
			return d
		}
	}

	require.Failf(t, "declaration not found", "%s", name)

	return Decl{}
}

func TestMapper_Record(t *testing.T) {
	person := named("Person", analyze.TypeKindStruct)
	person.Fields = []analyze.FieldInfo{
		field("Name", stringT, `json:"name"`),
		field("Age", intT, `json:"age"`),
		field("Secret", stringT, `json:"-"`),
		field("Internal", stringT, `tw:"-"`),
	}

	decls, diags := newTestMapper(DefaultOptions()).Map(graphOf(person))
	require.True(t, diags.IsValid())
	require.Len(t, decls, 1)

	d := decls[0]
	assert.Equal(t, "Person", d.Name)
	assert.True(t, d.IsRecord())
	assert.False(t, d.Strict)
	require.Len(t, d.Type.Fields, 2)
	assert.Equal(t, "name", d.Type.Fields[0].Name)
	assert.Equal(t, NewScalar(ScalarString), d.Type.Fields[0].Type)
	assert.Equal(t, "age", d.Type.Fields[1].Name)
	assert.Equal(t, NewScalar(ScalarInt), d.Type.Fields[1].Type)
}

func TestMapper_Aliases(t *testing.T) {
	person := named("Person", analyze.TypeKindStruct)
	person.Fields = []analyze.FieldInfo{field("Name", stringT, `json:"name"`)}

	myNumber := named("MyNumber", analyze.TypeKindAlias)
	myNumber.Underlying = intT

	names := named("Names", analyze.TypeKindAlias)
	names.Underlying = &analyze.TypeInfo{Kind: analyze.TypeKindSlice, ElemType: stringT}

	people := named("People", analyze.TypeKindAlias)
	people.Underlying = &analyze.TypeInfo{Kind: analyze.TypeKindMap, KeyType: stringT, ElemType: person}

	decls, diags := newTestMapper(DefaultOptions()).Map(graphOf(person, myNumber, names, people))
	require.True(t, diags.IsValid())

	assert.Equal(t, NewScalar(ScalarInt), declByName(t, decls, "MyNumber").Type)
	assert.Equal(t, ArrayOf(NewScalar(ScalarString)), declByName(t, decls, "Names").Type)
	assert.Equal(t, MapOf(NewScalar(ScalarString), Ref("Person")), declByName(t, decls, "People").Type)
	assert.False(t, declByName(t, decls, "People").IsRecord())
}

func TestMapper_PointersAndBytes(t *testing.T) {
	node := named("Node", analyze.TypeKindStruct)
	ptr := &analyze.TypeInfo{Kind: analyze.TypeKindPointer, ElemType: node}
	node.Fields = []analyze.FieldInfo{
		field("Next", ptr, `json:"next"`),
		field("Data", &analyze.TypeInfo{Kind: analyze.TypeKindSlice, ElemType: byteT}, `json:"data"`),
		field("Double", &analyze.TypeInfo{Kind: analyze.TypeKindPointer, ElemType: &analyze.TypeInfo{
			Kind: analyze.TypeKindPointer, ElemType: intT,
		}}, `json:"double"`),
		field("Fixed", &analyze.TypeInfo{Kind: analyze.TypeKindArray, Len: 3, ElemType: intT}, `json:"fixed"`),
	}

	decls, diags := newTestMapper(DefaultOptions()).Map(graphOf(node))
	require.True(t, diags.IsValid())

	fields := decls[0].Type.Fields
	assert.Equal(t, NullableOf(Ref("Node")), fields[0].Type)
	assert.Equal(t, NewScalar(ScalarString), fields[1].Type)
	assert.Equal(t, NullableOf(NewScalar(ScalarInt)), fields[2].Type)
	assert.Equal(t, ArrayOf(NewScalar(ScalarInt)), fields[3].Type)
}

func TestMapper_ExternalTypes(t *testing.T) {
	timeT := &analyze.TypeInfo{ID: analyze.TypeID{PkgPath: "time", Name: "Time"}, Kind: analyze.TypeKindExternal}
	uuidT := &analyze.TypeInfo{
		ID:   analyze.TypeID{PkgPath: "github.com/google/uuid", Name: "UUID"},
		Kind: analyze.TypeKindExternal,
	}
	otherT := &analyze.TypeInfo{ID: analyze.TypeID{PkgPath: "example.com/people", Name: "Person"}, Kind: analyze.TypeKindExternal}

	event := named("Event", analyze.TypeKindStruct)
	event.Fields = []analyze.FieldInfo{
		field("At", timeT, `json:"at"`),
		field("ID", uuidT, `json:"id"`),
		field("Who", otherT, `json:"who"`),
	}

	opts := DefaultOptions()
	opts.Overrides = map[string]string{"uuid.UUID": "string"}

	decls, diags := newTestMapper(opts).Map(graphOf(event))
	require.True(t, diags.IsValid())

	fields := decls[0].Type.Fields
	assert.Equal(t, NewScalar(ScalarString), fields[0].Type)
	assert.Equal(t, NewScalar(ScalarString), fields[1].Type)
	assert.Equal(t, Opaque(), fields[2].Type)

	infos := diags.Infos
	require.Len(t, infos, 1)
	assert.Equal(t, diagnostic.CodeExternalType, infos[0].Code)
	assert.Equal(t, "Event.who", infos[0].FieldPath)
}

func TestMapper_Overrides(t *testing.T) {
	msg := named("OutgoingSocketMessage", analyze.TypeKindStruct)
	msg.Fields = []analyze.FieldInfo{
		field("Type", stringT, `json:"type"`),
		field("Payload", &analyze.TypeInfo{Kind: analyze.TypeKindInterface}, `json:"payload" tw:"any,true"`),
		field("When", intT, `json:"when" tw:"Date"`),
		field("Bad", intT, `json:"bad" tw:"string,maybe"`),
	}

	log, hook := test.NewNullLogger()
	decls, diags := NewMapper(DefaultOptions(), log).Map(graphOf(msg))

	fields := decls[0].Type.Fields
	assert.Equal(t, NullableOf(Any()), fields[1].Type)
	assert.Equal(t, Raw("Date"), fields[2].Type)
	assert.Equal(t, NewScalar(ScalarString), fields[3].Type)

	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, diagnostic.CodeBadOverride, diags.Warnings[0].Code)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestMapper_EmbeddedFlattening(t *testing.T) {
	base := named("Base", analyze.TypeKindStruct)
	base.Fields = []analyze.FieldInfo{
		field("ID", intT, `json:"id"`),
		field("Name", intT, `json:"name"`),
	}

	inner := &analyze.TypeInfo{ID: analyze.TypeID{PkgPath: pkg, Name: "audit"}, Kind: analyze.TypeKindStruct}
	inner.Fields = []analyze.FieldInfo{field("By", stringT, `json:"by"`)}

	user := named("User", analyze.TypeKindStruct)
	user.Fields = []analyze.FieldInfo{
		{Name: "Base", Exported: true, Type: base, Embedded: true},
		{Name: "audit", Type: &analyze.TypeInfo{Kind: analyze.TypeKindPointer, ElemType: inner}, Embedded: true},
		field("Name", stringT, `json:"name"`),
		{Name: "Tagged", Exported: true, Type: base, Embedded: true, Tag: `json:"tagged"`},
	}

	decls, diags := newTestMapper(DefaultOptions()).Map(graphOf(base, user))
	require.True(t, diags.IsValid())

	fields := declByName(t, decls, "User").Type.Fields

	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}

	assert.Equal(t, []string{"name", "tagged", "id", "by"}, names)
	assert.Equal(t, NewScalar(ScalarString), fields[0].Type)
	assert.Equal(t, Ref("Base"), fields[1].Type)
}

func fieldNames(fields []Field) []string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}

	return names
}

func embed(name string, typ *analyze.TypeInfo) analyze.FieldInfo {
	return analyze.FieldInfo{Name: name, Exported: true, Type: typ, Embedded: true}
}

func TestMapper_EmbeddedShallowestWins(t *testing.T) {
	c := &analyze.TypeInfo{ID: analyze.TypeID{PkgPath: pkg, Name: "c"}, Kind: analyze.TypeKindStruct}
	c.Fields = []analyze.FieldInfo{field("X", intT, "")}

	b1 := &analyze.TypeInfo{ID: analyze.TypeID{PkgPath: pkg, Name: "b1"}, Kind: analyze.TypeKindStruct}
	b1.Fields = []analyze.FieldInfo{embed("C", c)}

	b2 := &analyze.TypeInfo{ID: analyze.TypeID{PkgPath: pkg, Name: "b2"}, Kind: analyze.TypeKindStruct}
	b2.Fields = []analyze.FieldInfo{field("X", stringT, "")}

	a := named("A", analyze.TypeKindStruct)
	a.Fields = []analyze.FieldInfo{embed("B1", b1), embed("B2", b2)}

	decls, diags := newTestMapper(DefaultOptions()).Map(graphOf(a))
	require.True(t, diags.IsValid())
	assert.Empty(t, diags.Warnings)

	fields := decls[0].Type.Fields
	require.Len(t, fields, 1)
	assert.Equal(t, "X", fields[0].Name)
	assert.Equal(t, NewScalar(ScalarString), fields[0].Type)
}

func TestMapper_EmbeddedConflicts(t *testing.T) {
	left := &analyze.TypeInfo{ID: analyze.TypeID{PkgPath: pkg, Name: "left"}, Kind: analyze.TypeKindStruct}
	left.Fields = []analyze.FieldInfo{
		field("Name", stringT, ""),
		field("ID", intT, ""),
		field("Kind", stringT, `json:"kind"`),
	}

	right := &analyze.TypeInfo{ID: analyze.TypeID{PkgPath: pkg, Name: "right"}, Kind: analyze.TypeKindStruct}
	right.Fields = []analyze.FieldInfo{
		field("Name", intT, ""),
		field("Ident", intT, `json:"ID"`),
		field("Sort", stringT, `json:"kind"`),
		field("Extra", stringT, ""),
	}

	both := named("Both", analyze.TypeKindStruct)
	both.Fields = []analyze.FieldInfo{embed("Left", left), embed("Right", right)}

	decls, diags := newTestMapper(DefaultOptions()).Map(graphOf(both))
	require.True(t, diags.IsValid())

	fields := decls[0].Type.Fields

	// Name: untagged on both sides, dropped. ID: only Right's is tagged.
	// kind: tagged on both sides, dropped.
	assert.Equal(t, []string{"ID", "Extra"}, fieldNames(fields))
	assert.Equal(t, NewScalar(ScalarInt), fields[0].Type)

	require.Len(t, diags.Warnings, 2)
	assert.Equal(t, diagnostic.CodeDuplicateName, diags.Warnings[0].Code)
	assert.Equal(t, "Both.Name", diags.Warnings[0].FieldPath)
	assert.Equal(t, "Both.kind", diags.Warnings[1].FieldPath)
}

func TestMapper_AliasCycle(t *testing.T) {
	a := &analyze.TypeInfo{ID: analyze.TypeID{PkgPath: pkg, Name: "a"}, Kind: analyze.TypeKindAlias}
	b := &analyze.TypeInfo{ID: analyze.TypeID{PkgPath: pkg, Name: "b"}, Kind: analyze.TypeKindAlias, Underlying: a}
	a.Underlying = b

	holder := named("Holder", analyze.TypeKindStruct)
	holder.Fields = []analyze.FieldInfo{
		field("M", &analyze.TypeInfo{Kind: analyze.TypeKindMap, KeyType: a, ElemType: intT}, `json:"m"`),
		field("V", b, `json:"v"`),
	}

	decls, diags := newTestMapper(DefaultOptions()).Map(graphOf(holder))
	require.True(t, diags.IsValid())

	fields := decls[0].Type.Fields
	assert.Equal(t, MapOf(NewScalar(ScalarString), NewScalar(ScalarInt)), fields[0].Type)
	assert.Equal(t, Any(), fields[1].Type)

	require.Len(t, diags.Warnings, 2)
	assert.Equal(t, diagnostic.CodeMapKey, diags.Warnings[0].Code)
	assert.Equal(t, "Holder.m", diags.Warnings[0].FieldPath)
	assert.Equal(t, diagnostic.CodeUnsupportedType, diags.Warnings[1].Code)
	assert.Equal(t, "Holder.v", diags.Warnings[1].FieldPath)
}

func TestMapper_AnonymousStructIsInlined(t *testing.T) {
	wrapper := named("Wrapper", analyze.TypeKindStruct)
	anon := &analyze.TypeInfo{Kind: analyze.TypeKindStruct, Fields: []analyze.FieldInfo{field("X", intT, "")}}
	wrapper.Fields = []analyze.FieldInfo{field("Inner", anon, `json:"inner"`)}

	decls, _ := newTestMapper(DefaultOptions()).Map(graphOf(wrapper))

	assert.Equal(t, Object([]Field{{Name: "X", Type: NewScalar(ScalarInt)}}), decls[0].Type.Fields[0].Type)
}

func TestMapper_RecursiveUndeclaredStruct(t *testing.T) {
	hidden := &analyze.TypeInfo{ID: analyze.TypeID{PkgPath: pkg, Name: "node"}, Kind: analyze.TypeKindStruct}
	hidden.Fields = []analyze.FieldInfo{
		field("Next", &analyze.TypeInfo{Kind: analyze.TypeKindPointer, ElemType: hidden}, `json:"next"`),
	}

	list := named("List", analyze.TypeKindStruct)
	list.Fields = []analyze.FieldInfo{field("Head", hidden, `json:"head"`)}

	decls, diags := newTestMapper(DefaultOptions()).Map(graphOf(list))

	head := decls[0].Type.Fields[0].Type
	require.Equal(t, KindObject, head.Kind)
	assert.Equal(t, NullableOf(Opaque()), head.Fields[0].Type)

	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, diagnostic.CodeUnsupportedType, diags.Warnings[0].Code)
}

func TestMapper_UnsupportedAndMapKeys(t *testing.T) {
	ch := &analyze.TypeInfo{Kind: analyze.TypeKindUnknown}
	complexT := basic(types.Complex128, "complex128")
	boolT := basic(types.Bool, "bool")

	odd := named("Odd", analyze.TypeKindStruct)
	odd.Fields = []analyze.FieldInfo{
		field("Ch", ch, `json:"ch"`),
		field("C", complexT, `json:"c"`),
		field("ByBool", &analyze.TypeInfo{Kind: analyze.TypeKindMap, KeyType: boolT, ElemType: intT}, `json:"by_bool"`),
		field("ByInt", &analyze.TypeInfo{Kind: analyze.TypeKindMap, KeyType: intT, ElemType: intT}, `json:"by_int"`),
	}

	decls, diags := newTestMapper(DefaultOptions()).Map(graphOf(odd))
	require.False(t, diags.HasErrors())

	fields := decls[0].Type.Fields
	assert.Equal(t, Any(), fields[0].Type)
	assert.Equal(t, Any(), fields[1].Type)
	assert.Equal(t, MapOf(NewScalar(ScalarString), NewScalar(ScalarInt)), fields[2].Type)
	assert.Equal(t, MapOf(NewScalar(ScalarInt), NewScalar(ScalarInt)), fields[3].Type)

	codes := make([]string, 0, len(diags.Warnings))
	for _, w := range diags.Warnings {
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []string{
		diagnostic.CodeUnsupportedType,
		diagnostic.CodeUnsupportedType,
		diagnostic.CodeMapKey,
	}, codes)
}

func TestMapper_Directives(t *testing.T) {
	maps := named("Maps", analyze.TypeKindStruct)
	maps.Doc = "Maps should all parse right.\n@strict"

	hidden := named("Hidden", analyze.TypeKindStruct)
	hidden.Doc = "Hidden is internal. @ignore"

	plain := named("Plain", analyze.TypeKindStruct)

	decls, _ := newTestMapper(DefaultOptions()).Map(graphOf(maps, hidden, plain))
	require.Len(t, decls, 2)
	assert.True(t, declByName(t, decls, "Maps").Strict)
	assert.False(t, declByName(t, decls, "Plain").Strict)

	opts := DefaultOptions()
	opts.StrictAll = true
	decls, _ = newTestMapper(opts).Map(graphOf(plain))
	assert.True(t, decls[0].Strict)
}

func TestMapper_FieldCaseAndOptional(t *testing.T) {
	order := named("Order", analyze.TypeKindStruct)
	order.Fields = []analyze.FieldInfo{
		field("OrderID", intT, ""),
		field("Note", stringT, `json:"note,omitempty"`),
	}

	opts := DefaultOptions()
	opts.FieldCase = naming.CaseSnake
	opts.OptionalOmitEmpty = true

	decls, _ := newTestMapper(opts).Map(graphOf(order))
	fields := decls[0].Type.Fields

	assert.Equal(t, "order_id", fields[0].Name)
	assert.False(t, fields[0].Optional)
	assert.Equal(t, "note", fields[1].Name)
	assert.True(t, fields[1].Optional)
}

func TestMapper_DuplicateNames(t *testing.T) {
	a := named("Person", analyze.TypeKindStruct)
	b := &analyze.TypeInfo{ID: analyze.TypeID{PkgPath: "example.com/other", Name: "Person"}, Kind: analyze.TypeKindStruct}

	g := graphOf(a)
	b.Seq = 1
	g.Types[b.ID] = b
	g.Packages["example.com/other"] = &analyze.PackageInfo{Path: "example.com/other", Types: []analyze.TypeID{b.ID}}

	decls, diags := newTestMapper(DefaultOptions()).Map(g)

	assert.Len(t, decls, 1)
	require.True(t, diags.HasErrors())
	assert.Equal(t, diagnostic.CodeDuplicateName, diags.Errors[0].Code)
}

func TestParseOverride(t *testing.T) {
	assert.Equal(t, NewScalar(ScalarString), ParseOverride("string"))
	assert.Equal(t, NewScalar(ScalarInt), ParseOverride("integer"))
	assert.Equal(t, NewScalar(ScalarFloat), ParseOverride("number"))
	assert.Equal(t, NewScalar(ScalarBool), ParseOverride(" boolean "))
	assert.Equal(t, Any(), ParseOverride("any"))
	assert.Equal(t, Opaque(), ParseOverride("Object"))
	assert.Equal(t, Raw("Array<Date>"), ParseOverride("Array<Date>"))
}

func TestType_Refs(t *testing.T) {
	typ := Object([]Field{
		{Name: "a", Type: ArrayOf(Ref("B"))},
		{Name: "b", Type: MapOf(NewScalar(ScalarString), NullableOf(Ref("A")))},
		{Name: "c", Type: Ref("B")},
	})

	assert.Equal(t, []string{"A", "B"}, typ.Refs())
}

func TestNullableOf_Collapses(t *testing.T) {
	n := NullableOf(NullableOf(Any()))
	assert.Equal(t, KindNullable, n.Kind)
	assert.Equal(t, KindScalar, n.Elem.Kind)
}
