package schema

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strconv"
	"strings"

	"typewriter/internal/analyze"
	"typewriter/internal/diagnostic"
	"typewriter/internal/naming"
)

// SupportedVersion is the only schema format version.
const SupportedVersion = "1"

// builder converts one schema file into a type graph.
type builder struct {
	file     *File
	graph    *analyze.TypeGraph
	declared map[string]*analyze.TypeInfo
	diags    diagnostic.Diagnostics
}

// Build converts a schema file into a type graph. Declarations with
// errors are left out of the graph and reported in the diagnostics.
func Build(f *File) (*analyze.TypeGraph, diagnostic.Diagnostics) {
	b := &builder{
		file:     f,
		graph:    analyze.NewTypeGraph(),
		declared: make(map[string]*analyze.TypeInfo),
	}

	if f.Version != SupportedVersion {
		b.diags.AddError(diagnostic.CodeInvalidSchema,
			fmt.Sprintf("unsupported schema version %q (want %q)", f.Version, SupportedVersion), "", "")

		return b.graph, b.diags
	}

	pkg := &analyze.PackageInfo{
		Path: f.Package,
		Name: f.Package,
	}
	if f.Path != "" {
		pkg.Files = []string{f.Path}
	}

	b.graph.Packages[f.Package] = pkg

	// Declare every name first so that types can refer to each other in any order.
	var defs []*TypeDef

	for i := range f.Types {
		def := &f.Types[i]

		if !b.checkDecl(def) {
			continue
		}

		id := analyze.TypeID{PkgPath: f.Package, Name: def.Name}
		info := &analyze.TypeInfo{
			ID:   id,
			Doc:  docWithDirective(def),
			Seq:  i,
			Kind: analyze.TypeKindStruct,
		}

		if def.IsAlias() {
			info.Kind = analyze.TypeKindAlias
		}

		b.declared[def.Name] = info
		defs = append(defs, def)
	}

	for _, def := range defs {
		info := b.declared[def.Name]
		path := analyze.NewTypePath(def.Name)

		if def.IsAlias() {
			info.Underlying = b.resolve(def.Type, path)
		} else {
			info.Fields = b.fields(def, path)
		}

		b.graph.Types[info.ID] = info
		pkg.Types = append(pkg.Types, info.ID)
	}

	for _, def := range defs {
		b.checkAliasCycle(b.declared[def.Name])
	}

	return b.graph, b.diags
}

// checkAliasCycle reports an alias that resolves to itself through other
// aliases and cuts the cycle at it so that later stages terminate.
func (b *builder) checkAliasCycle(info *analyze.TypeInfo) {
	if info.Kind != analyze.TypeKindAlias {
		return
	}

	chain := []string{info.ID.Name}
	seen := map[*analyze.TypeInfo]bool{info: true}

	for next := info.Underlying; next != nil && next.Kind == analyze.TypeKindAlias; next = next.Underlying {
		chain = append(chain, next.ID.Name)

		if next == info {
			b.diags.AddError(diagnostic.CodeInvalidSchema,
				fmt.Sprintf("alias cycle %s", strings.Join(chain, " -> ")), info.ID.Name, "")

			info.Underlying = &analyze.TypeInfo{Kind: analyze.TypeKindInterface}

			return
		}

		if seen[next] {
			return
		}

		seen[next] = true
	}
}

// checkDecl validates a declaration's header.
func (b *builder) checkDecl(def *TypeDef) bool {
	switch {
	case !token.IsIdentifier(def.Name):
		b.diags.AddError(diagnostic.CodeInvalidSchema,
			fmt.Sprintf("type name %q is not an identifier", def.Name), def.Name, "")

		return false

	case def.IsAlias() && len(def.Fields) > 0:
		b.diags.AddError(diagnostic.CodeInvalidSchema,
			"a type declares either fields or type, not both", def.Name, "")

		return false

	case b.declared[def.Name] != nil:
		b.diags.AddError(diagnostic.CodeDuplicateName,
			fmt.Sprintf("type %s is declared more than once", def.Name), def.Name, "")

		return false
	}

	return true
}

// docWithDirective returns the doc text, carrying the strict flag as the
// @strict directive.
func docWithDirective(def *TypeDef) string {
	doc := def.Doc.Text()
	if !def.Strict || strings.Contains(doc, "@strict") {
		return doc
	}

	if doc == "" {
		return "@strict"
	}

	return doc + "\n@strict"
}

func (b *builder) fields(def *TypeDef, path *analyze.TypePath) []analyze.FieldInfo {
	seen := make(map[string]bool, len(def.Fields))

	out := make([]analyze.FieldInfo, 0, len(def.Fields))
	for i, fd := range def.Fields {
		fieldPath := path.Field(fd.Name)

		if fd.Name == "" {
			b.diags.AddError(diagnostic.CodeInvalidSchema,
				fmt.Sprintf("field %d has no name", i), def.Name, fieldPath.String())

			continue
		}

		if fd.Name == "-" || strings.Contains(fd.Name, ",") {
			b.diags.AddError(diagnostic.CodeInvalidSchema,
				fmt.Sprintf("field name %q cannot be written as a JSON key", fd.Name), def.Name, fieldPath.String())

			continue
		}

		if seen[fd.Name] {
			b.diags.AddError(diagnostic.CodeInvalidSchema,
				fmt.Sprintf("field %s is declared more than once", fd.Name), def.Name, fieldPath.String())

			continue
		}

		seen[fd.Name] = true

		out = append(out, analyze.FieldInfo{
			Name:     fd.Name,
			Exported: true,
			Type:     b.resolve(fd.Type, fieldPath),
			Tag:      reflect.StructTag(`json:` + strconv.Quote(fd.Name)),
			Index:    i,
			Doc:      fd.Doc.Text(),
			Comment:  fd.Comment,
			Optional: fd.Optional,
		})
	}

	return out
}

// resolve parses a Go type expression. Invalid expressions are reported and
// resolve to an interface so that mapping can continue.
func (b *builder) resolve(expr string, path *analyze.TypePath) *analyze.TypeInfo {
	if strings.TrimSpace(expr) == "" {
		b.diags.AddError(diagnostic.CodeInvalidSchema, "missing type", path.Root(), path.String())
		return &analyze.TypeInfo{Kind: analyze.TypeKindInterface}
	}

	node, err := parser.ParseExpr(expr)
	if err != nil {
		b.diags.AddError(diagnostic.CodeInvalidSchema,
			fmt.Sprintf("invalid type expression %q: %v", expr, err), path.Root(), path.String())

		return &analyze.TypeInfo{Kind: analyze.TypeKindInterface}
	}

	return b.resolveExpr(node, path)
}

func (b *builder) resolveExpr(node ast.Expr, path *analyze.TypePath) *analyze.TypeInfo {
	switch n := node.(type) {
	case *ast.Ident:
		return b.resolveIdent(n.Name, path)

	case *ast.ParenExpr:
		return b.resolveExpr(n.X, path)

	case *ast.StarExpr:
		return &analyze.TypeInfo{Kind: analyze.TypeKindPointer, ElemType: b.resolveExpr(n.X, path.Pointer())}

	case *ast.ArrayType:
		elem := b.resolveExpr(n.Elt, path.Slice())
		if n.Len == nil {
			return &analyze.TypeInfo{Kind: analyze.TypeKindSlice, ElemType: elem}
		}

		length, err := arrayLen(n.Len)
		if err != nil {
			b.diags.AddError(diagnostic.CodeInvalidSchema, err.Error(), path.Root(), path.String())
		}

		return &analyze.TypeInfo{Kind: analyze.TypeKindArray, Len: length, ElemType: elem}

	case *ast.MapType:
		return &analyze.TypeInfo{
			Kind:     analyze.TypeKindMap,
			KeyType:  b.resolveExpr(n.Key, path),
			ElemType: b.resolveExpr(n.Value, path.MapValue()),
		}

	case *ast.InterfaceType:
		return &analyze.TypeInfo{Kind: analyze.TypeKindInterface}

	case *ast.StructType:
		return b.resolveStruct(n, path)

	case *ast.SelectorExpr:
		pkg, ok := n.X.(*ast.Ident)
		if !ok {
			break
		}

		return &analyze.TypeInfo{
			ID:   analyze.TypeID{PkgPath: pkg.Name, Name: n.Sel.Name},
			Kind: analyze.TypeKindExternal,
		}
	}

	b.diags.AddError(diagnostic.CodeInvalidSchema,
		fmt.Sprintf("unsupported type expression %s", exprString(node)), path.Root(), path.String())

	return &analyze.TypeInfo{Kind: analyze.TypeKindInterface}
}

func (b *builder) resolveIdent(name string, path *analyze.TypePath) *analyze.TypeInfo {
	if info, ok := b.declared[name]; ok {
		return info
	}

	if name == "any" {
		return &analyze.TypeInfo{Kind: analyze.TypeKindInterface}
	}

	if kind, ok := analyze.BasicKindOf(name); ok {
		return &analyze.TypeInfo{ID: analyze.TypeID{Name: name}, Kind: analyze.TypeKindBasic, Basic: kind}
	}

	candidates := append(analyze.BasicNames(), "any")
	for declared := range b.declared {
		candidates = append(candidates, declared)
	}

	b.diags.AddError(diagnostic.CodeUnknownType,
		fmt.Sprintf("unknown type %s", name), path.Root(), path.String(),
		naming.Suggest(name, candidates, 3)...)

	return &analyze.TypeInfo{Kind: analyze.TypeKindInterface}
}

// resolveStruct builds an anonymous struct from an inline struct expression.
func (b *builder) resolveStruct(st *ast.StructType, path *analyze.TypePath) *analyze.TypeInfo {
	info := &analyze.TypeInfo{Kind: analyze.TypeKindStruct}

	index := 0

	for _, f := range st.Fields.List {
		var tag reflect.StructTag
		if f.Tag != nil {
			if s, err := strconv.Unquote(f.Tag.Value); err == nil {
				tag = reflect.StructTag(s)
			}
		}

		if len(f.Names) == 0 {
			b.diags.AddError(diagnostic.CodeInvalidSchema,
				"embedded fields are not supported in inline structs", path.Root(), path.String())

			continue
		}

		for _, name := range f.Names {
			info.Fields = append(info.Fields, analyze.FieldInfo{
				Name:     name.Name,
				Exported: ast.IsExported(name.Name),
				Type:     b.resolveExpr(f.Type, path.Field(name.Name)),
				Tag:      tag,
				Index:    index,
			})
			index++
		}
	}

	return info
}

func arrayLen(expr ast.Expr) (int64, error) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.INT {
		return 0, fmt.Errorf("array length %s is not an integer literal", exprString(expr))
	}

	n, err := strconv.ParseInt(lit.Value, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("array length %s: %w", lit.Value, err)
	}

	return n, nil
}

// exprString renders an expression for messages.
func exprString(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.ChanType:
		return "chan " + exprString(e.Value)
	case *ast.FuncType:
		return "func"
	case *ast.Ident:
		return e.Name
	case *ast.BasicLit:
		return e.Value
	default:
		return fmt.Sprintf("%T", expr)
	}
}
