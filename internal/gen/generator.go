package gen

import (
	"bytes"
	"fmt"

	"github.com/sirupsen/logrus"

	"typewriter/internal/analyze"
	"typewriter/internal/diagnostic"
	"typewriter/internal/emit"
	"typewriter/internal/typemap"
)

// GeneratorConfig holds configuration for a generation run.
type GeneratorConfig struct {
	// Languages are the target languages, one file each.
	Languages []emit.Language
	// OutputDir is the directory where generated files are written.
	OutputDir string
	// BaseName names the generated files ("models" -> models.js, Models.elm).
	BaseName string
	// Order of the declarations in each file.
	Order Order
	// Header adds a "generated, do not edit" comment to each file.
	Header bool
	// Mapper configures the type mapping.
	Mapper typemap.Options
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Languages: []emit.Language{emit.Flow},
		OutputDir: ".",
		BaseName:  "models",
		Order:     OrderAlpha,
		Header:    true,
		Mapper:    typemap.DefaultOptions(),
	}
}

// GeneratedFile is the output for one language.
type GeneratedFile struct {
	Language emit.Language
	// Filename is the name of the file (e.g., "models.js").
	Filename string
	// Content is the rendered source.
	Content []byte
}

// Generator renders a type graph into declaration files.
type Generator struct {
	config GeneratorConfig
	log    logrus.FieldLogger
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig, log logrus.FieldLogger) *Generator {
	if log == nil {
		log = logrus.StandardLogger()
	}

	if config.BaseName == "" {
		config.BaseName = "models"
	}

	return &Generator{config: config, log: log}
}

// Config returns the generator configuration.
func (g *Generator) Config() GeneratorConfig {
	return g.config
}

// Declarations maps the graph and orders the resulting declarations.
func (g *Generator) Declarations(graph *analyze.TypeGraph) ([]typemap.Decl, diagnostic.Diagnostics) {
	decls, diags := typemap.NewMapper(g.config.Mapper, g.log).Map(graph)

	decls, orderDiags := SortDecls(decls, g.config.Order)
	diags.Merge(orderDiags)

	return decls, diags
}

// Generate renders one file per configured language. Error diagnostics
// abort generation; the diagnostics are returned either way.
func (g *Generator) Generate(graph *analyze.TypeGraph) ([]GeneratedFile, diagnostic.Diagnostics, error) {
	if graph == nil {
		return nil, diagnostic.Diagnostics{}, ErrNoInput
	}

	decls, diags := g.Declarations(graph)
	if diags.HasErrors() {
		return nil, diags, fmt.Errorf("mapping types: %w", diags.Error())
	}

	files := make([]GeneratedFile, 0, len(g.config.Languages))

	for _, lang := range g.config.Languages {
		file, err := g.render(lang, decls)
		if err != nil {
			return nil, diags, fmt.Errorf("generating %s: %w", lang, err)
		}

		g.log.WithField("language", lang).
			WithField("file", file.Filename).
			WithField("declarations", len(decls)).
			Debug("rendered")

		files = append(files, *file)
	}

	return files, diags, nil
}

func (g *Generator) render(lang emit.Language, decls []typemap.Decl) (*GeneratedFile, error) {
	e, err := emit.NewEmitter(lang, emit.Options{
		Header: g.config.Header,
		Module: emit.ModuleName(g.config.BaseName),
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := e.Emit(&buf, decls); err != nil {
		return nil, err
	}

	return &GeneratedFile{
		Language: lang,
		Filename: lang.Filename(g.config.BaseName),
		Content:  buf.Bytes(),
	}, nil
}
