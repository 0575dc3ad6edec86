package analyze

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// ErrNoPatterns is returned when LoadPackages is called without patterns.
var ErrNoPatterns = errors.New("no package patterns given")

// Analyzer loads Go packages and builds a type graph.
type Analyzer struct {
	graph     *TypeGraph
	typeCache map[types.Type]*TypeInfo // Cache to handle recursive types
	comments  []fieldComment
	seq       int
	dir       string
	log       logrus.FieldLogger
}

// fieldComment holds the comments of one struct field declaration, covering
// the source range [pos, end).
type fieldComment struct {
	pos, end token.Pos
	doc      string
	comment  string
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithDir sets the directory package patterns are resolved in.
func WithDir(dir string) AnalyzerOption {
	return func(a *Analyzer) { a.dir = dir }
}

// WithLogger sets the logger used while loading.
func WithLogger(l logrus.FieldLogger) AnalyzerOption {
	return func(a *Analyzer) { a.log = l }
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		graph:     NewTypeGraph(),
		typeCache: make(map[types.Type]*TypeInfo),
		log:       logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// LoadPackages loads the specified packages and builds the type graph.
// Patterns are standard Go package patterns (e.g., "./models", "typewriter/examples/models").
func (a *Analyzer) LoadPackages(patterns ...string) (*TypeGraph, error) {
	if len(patterns) == 0 {
		return nil, ErrNoPatterns
	}

	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].PkgPath < pkgs[j].PkgPath })

	// Register every package first so that cross references between the
	// requested packages are not mistaken for external types.
	for _, pkg := range pkgs {
		info := &PackageInfo{
			Path:  pkg.PkgPath,
			Name:  pkg.Name,
			Files: pkg.CompiledGoFiles,
		}
		if len(pkg.CompiledGoFiles) > 0 {
			info.Dir = filepath.Dir(pkg.CompiledGoFiles[0])
		}

		a.graph.Packages[pkg.PkgPath] = info

		for _, file := range pkg.Syntax {
			a.collectFieldComments(file)
		}
	}

	for _, pkg := range pkgs {
		if err := a.processPackage(pkg); err != nil {
			return nil, fmt.Errorf("failed to process package %s: %w", pkg.PkgPath, err)
		}

		a.log.WithField("package", pkg.PkgPath).
			WithField("types", len(a.graph.Packages[pkg.PkgPath].Types)).
			Debug("package analyzed")
	}

	return a.graph, nil
}

// processPackage extracts the declared types of a loaded package in source order.
func (a *Analyzer) processPackage(pkg *packages.Package) error {
	pkgInfo := a.graph.Packages[pkg.PkgPath]

	files := make([]*ast.File, len(pkg.Syntax))
	copy(files, pkg.Syntax)
	sort.Slice(files, func(i, j int) bool {
		return pkg.Fset.Position(files[i].Pos()).Filename < pkg.Fset.Position(files[j].Pos()).Filename
	})

	for _, file := range files {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}

			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}

				typeName, ok := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
				if !ok || typeName == nil {
					return fmt.Errorf("no type information for %s", ts.Name.Name)
				}

				// Only process exported, non-generic types
				if !typeName.Exported() || ts.TypeParams != nil {
					continue
				}

				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}

				typeID := TypeID{PkgPath: pkg.PkgPath, Name: typeName.Name()}

				var info *TypeInfo
				if typeName.IsAlias() {
					// Aliases share their target's type identity, so they get
					// their own node instead of the cached one.
					info = &TypeInfo{
						Kind:       TypeKindAlias,
						Underlying: a.analyzeType(types.Unalias(typeName.Type())),
						GoType:     typeName.Type(),
					}
				} else {
					info = a.analyzeType(typeName.Type())
				}

				info.ID = typeID
				info.Doc = commentText(doc)
				info.Seq = a.seq
				a.seq++

				a.graph.Types[typeID] = info
				pkgInfo.Types = append(pkgInfo.Types, typeID)
			}
		}
	}

	return nil
}

// analyzeType recursively analyzes a go/types.Type and returns a TypeInfo.
func (a *Analyzer) analyzeType(t types.Type) *TypeInfo {
	t = types.Unalias(t)

	// Check cache to handle recursive types
	if cached, ok := a.typeCache[t]; ok {
		return cached
	}

	info := &TypeInfo{
		GoType: t,
	}

	// Pre-cache to handle recursive types (we'll fill in details)
	a.typeCache[t] = info

	switch tt := t.(type) {
	case *types.Named:
		a.analyzeNamedType(tt, info)

	case *types.Basic:
		info.Kind = TypeKindBasic
		info.Basic = tt.Kind()
		info.ID = TypeID{Name: tt.Name()}

	case *types.Pointer:
		info.Kind = TypeKindPointer
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Slice:
		info.Kind = TypeKindSlice
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Array:
		info.Kind = TypeKindArray
		info.Len = tt.Len()
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Map:
		info.Kind = TypeKindMap
		info.KeyType = a.analyzeType(tt.Key())
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Interface:
		info.Kind = TypeKindInterface

	case *types.Struct:
		info.Kind = TypeKindStruct
		a.analyzeStructFields(tt, info)

	default:
		// Channels, funcs, type parameters, etc. are marked as unknown (unsupported)
		info.Kind = TypeKindUnknown
	}

	return info
}

// analyzeNamedType analyzes a named type.
func (a *Analyzer) analyzeNamedType(named *types.Named, info *TypeInfo) {
	obj := named.Obj()

	// Universe types such as error have no package.
	if obj.Pkg() == nil {
		info.ID = TypeID{Name: obj.Name()}
		info.Kind = TypeKindInterface

		return
	}

	info.ID = TypeID{
		PkgPath: obj.Pkg().Path(),
		Name:    obj.Name(),
	}

	// External/opaque type (e.g., time.Time)
	if a.isExternalPackage(obj.Pkg().Path()) {
		info.Kind = TypeKindExternal

		return
	}

	switch ut := named.Underlying().(type) {
	case *types.Struct:
		info.Kind = TypeKindStruct
		a.analyzeStructFields(ut, info)

	default:
		// Named type wrapping something else in our packages
		// (e.g., type MyNumber int, type Names []string)
		info.Kind = TypeKindAlias
		info.Underlying = a.analyzeType(ut)
	}
}

// isExternalPackage returns true if the package is not in our analyzed set.
func (a *Analyzer) isExternalPackage(pkgPath string) bool {
	_, ok := a.graph.Packages[pkgPath]
	return !ok
}

// analyzeStructFields extracts fields from a struct type.
func (a *Analyzer) analyzeStructFields(st *types.Struct, info *TypeInfo) {
	for i := range st.NumFields() {
		field := st.Field(i)

		// Unexported fields never reach the encoded form, except embedded
		// structs whose exported fields are promoted.
		if !field.Exported() && !field.Embedded() {
			continue
		}

		fieldInfo := FieldInfo{
			Name:     field.Name(),
			Exported: field.Exported(),
			Type:     a.analyzeType(field.Type()),
			Tag:      reflect.StructTag(st.Tag(i)),
			Embedded: field.Embedded(),
			Index:    i,
		}

		if fc := a.lookupFieldComment(field.Pos()); fc != nil {
			fieldInfo.Doc = fc.doc
			fieldInfo.Comment = fc.comment
		}

		info.Fields = append(info.Fields, fieldInfo)
	}
}

// collectFieldComments records the comments of every struct field in file.
func (a *Analyzer) collectFieldComments(file *ast.File) {
	ast.Inspect(file, func(n ast.Node) bool {
		st, ok := n.(*ast.StructType)
		if !ok || st.Fields == nil {
			return true
		}

		for _, f := range st.Fields.List {
			if f.Doc == nil && f.Comment == nil {
				continue
			}

			a.comments = append(a.comments, fieldComment{
				pos:     f.Pos(),
				end:     f.End(),
				doc:     commentText(f.Doc),
				comment: commentText(f.Comment),
			})
		}

		return true
	})
}

// lookupFieldComment returns the innermost field declaration containing pos.
func (a *Analyzer) lookupFieldComment(pos token.Pos) *fieldComment {
	var best *fieldComment

	for i := range a.comments {
		fc := &a.comments[i]
		if pos < fc.pos || pos >= fc.end {
			continue
		}

		if best == nil || fc.end-fc.pos < best.end-best.pos {
			best = fc
		}
	}

	return best
}

// commentText returns the text of a comment group without markers or
// surrounding blank lines.
func commentText(cg *ast.CommentGroup) string {
	if cg == nil {
		return ""
	}

	return strings.TrimSpace(cg.Text())
}
