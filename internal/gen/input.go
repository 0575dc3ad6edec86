package gen

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"

	"typewriter/internal/analyze"
	"typewriter/internal/diagnostic"
	"typewriter/internal/schema"
)

// ErrNoInput is returned when a run has neither packages nor schema files.
var ErrNoInput = errors.New("no packages or schema files given")

// Inputs are the sources of a generation run.
type Inputs struct {
	// Dir resolves relative package patterns.
	Dir string
	// Packages are Go package patterns.
	Packages []string
	// Schemas are YAML schema file paths.
	Schemas []string
}

// LoadInputs reads every package and schema file into one type graph.
// Schema problems are returned as diagnostics; load failures as errors.
func LoadInputs(in Inputs, log logrus.FieldLogger) (*analyze.TypeGraph, diagnostic.Diagnostics, error) {
	var diags diagnostic.Diagnostics

	if len(in.Packages) == 0 && len(in.Schemas) == 0 {
		return nil, diags, ErrNoInput
	}

	if log == nil {
		log = logrus.StandardLogger()
	}

	graph := analyze.NewTypeGraph()

	// origin records where each type was read from, for collision messages.
	origin := make(map[analyze.TypeID]string)

	if len(in.Packages) > 0 {
		loaded, err := analyze.NewAnalyzer(analyze.WithDir(in.Dir), analyze.WithLogger(log)).
			LoadPackages(in.Packages...)
		if err != nil {
			return nil, diags, err
		}

		graph.Merge(loaded)

		for id := range loaded.Types {
			origin[id] = "package " + id.PkgPath
		}
	}

	for _, path := range in.Schemas {
		f, err := schema.LoadFile(path)
		if err != nil {
			return nil, diags, err
		}

		built, d := schema.Build(f)
		diags.Merge(d)

		for _, id := range graph.Merge(built) {
			diags.AddError(diagnostic.CodeDuplicateName,
				fmt.Sprintf("type %s is declared in both %s and %s", id, origin[id], path), id.Name, "")
		}

		for id := range built.Types {
			if _, ok := origin[id]; !ok {
				origin[id] = path
			}
		}

		log.WithField("schema", path).WithField("types", len(built.Types)).Debug("schema loaded")
	}

	return graph, diags, nil
}

// SourcePaths returns the directories of the loaded Go packages and the
// schema files of the graph, sorted.
func SourcePaths(graph *analyze.TypeGraph) []string {
	seen := make(map[string]bool)

	for _, pkg := range graph.Packages {
		if pkg.Dir != "" {
			seen[pkg.Dir] = true
			continue
		}

		for _, f := range pkg.Files {
			seen[f] = true
		}
	}

	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, filepath.Clean(p))
	}

	sort.Strings(out)

	return out
}

// Run loads the inputs and generates the files. Diagnostics are logged.
func (g *Generator) Run(in Inputs) ([]GeneratedFile, error) {
	graph, diags, err := LoadInputs(in, g.log)
	if err != nil {
		return nil, fmt.Errorf("loading inputs: %w", err)
	}

	files, genDiags, err := g.Generate(graph)
	diags.Merge(genDiags)
	diags.Log(g.log)

	return files, err
}
