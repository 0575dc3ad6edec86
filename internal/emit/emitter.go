package emit

import (
	"embed"
	"fmt"
	"io"
	"strings"
	"text/template"

	"typewriter/internal/typemap"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Options configure an Emitter.
type Options struct {
	// Header adds the "generated, do not edit" comment.
	Header bool
	// Module is the Elm module name.
	Module string
}

// Emitter renders declarations for one language.
type Emitter struct {
	lang    Language
	dialect *dialect
	tmpl    *template.Template
	opts    Options
}

// NewEmitter creates an Emitter for lang.
func NewEmitter(lang Language, opts Options) (*Emitter, error) {
	d := dialectFor(lang)
	if d == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownLanguage, lang)
	}

	tmpl, err := template.ParseFS(templateFS, "templates/"+string(lang)+".tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing %s templates: %w", lang, err)
	}

	if opts.Module == "" {
		opts.Module = "Models"
	}

	return &Emitter{lang: lang, dialect: d, tmpl: tmpl, opts: opts}, nil
}

// Language returns the emitter's language.
func (e *Emitter) Language() Language {
	return e.lang
}

// Expr renders a single type expression.
func (e *Emitter) Expr(t *typemap.Type) string {
	return e.dialect.expr(t)
}

type fileView struct {
	Header  bool
	Module  string
	Imports []string
	Decls   []declView
}

type declView struct {
	Name   string
	Doc    []string
	Record bool
	Open   string
	Close  string
	Fields []fieldView
	Expr   string
}

type fieldView struct {
	Member  string
	Doc     []string
	Comment string
	First   bool
}

// Emit writes the file header and every declaration, in the given order, to w.
func (e *Emitter) Emit(w io.Writer, decls []typemap.Decl) error {
	view := fileView{
		Header: e.opts.Header,
		Module: e.opts.Module,
	}

	if e.lang == Elm {
		view.Imports = elmImports(decls)
	}

	for i := range decls {
		view.Decls = append(view.Decls, e.declView(&decls[i]))
	}

	if err := e.tmpl.ExecuteTemplate(w, "file", view); err != nil {
		return fmt.Errorf("rendering %s: %w", e.lang, err)
	}

	return nil
}

func (e *Emitter) declView(d *typemap.Decl) declView {
	v := declView{
		Name:   d.Name,
		Doc:    d.DocLines(),
		Record: d.IsRecord(),
	}

	if !v.Record {
		v.Expr = e.dialect.expr(d.Type)
		return v
	}

	v.Open = e.dialect.open(d.Strict)
	v.Close = e.dialect.close(d.Strict)

	for i, f := range d.Type.Fields {
		v.Fields = append(v.Fields, fieldView{
			Member:  e.dialect.member(e.dialect.fieldName(f.Name), e.dialect.expr(f.Type), f.Optional),
			Doc:     splitLines(f.Doc),
			Comment: strings.Join(splitLines(f.Comment), " "),
			First:   i == 0,
		})
	}

	return v
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}

	return strings.Split(s, "\n")
}

// elmImports returns the modules the declarations need.
func elmImports(decls []typemap.Decl) []string {
	var needDict, needJSON bool

	var walk func(t *typemap.Type)
	walk = func(t *typemap.Type) {
		if t == nil {
			return
		}

		switch t.Kind {
		case typemap.KindMap:
			needDict = true
			walk(t.Key)
			walk(t.Elem)
		case typemap.KindArray, typemap.KindNullable:
			walk(t.Elem)
		case typemap.KindObject:
			for _, f := range t.Fields {
				walk(f.Type)
			}
		case typemap.KindOpaque:
			needJSON = true
		case typemap.KindScalar:
			if t.Scalar == typemap.ScalarAny {
				needJSON = true
			}
		}
	}

	for i := range decls {
		walk(decls[i].Type)
	}

	var imports []string
	if needDict {
		imports = append(imports, "Dict exposing (Dict)")
	}

	if needJSON {
		imports = append(imports, "Json.Encode")
	}

	return imports
}
