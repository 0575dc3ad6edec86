package cli

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"typewriter/internal/diagnostic"
	"typewriter/internal/emit"
	"typewriter/internal/gen"
	"typewriter/internal/typemap"
)

// Inspect output formats.
const (
	formatYAML = "yaml"
	formatDump = "dump"
)

type inspectView struct {
	Declarations []inspectDecl `yaml:"declarations"`
	Diagnostics  []string      `yaml:"diagnostics,omitempty"`
}

type inspectDecl struct {
	Name   string         `yaml:"name"`
	Source string         `yaml:"source,omitempty"`
	Doc    string         `yaml:"doc,omitempty"`
	Strict bool           `yaml:"strict,omitempty"`
	Type   string         `yaml:"type,omitempty"`
	Fields []inspectField `yaml:"fields,omitempty"`
	Refs   []string       `yaml:"refs,omitempty"`
}

type inspectField struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Optional bool   `yaml:"optional,omitempty"`
	Comment  string `yaml:"comment,omitempty"`
}

func (a *app) inspectCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the mapped declarations without writing files",
		Long: `inspect loads the inputs, maps them and prints the ordered declarations with
their diagnostics. Type expressions are rendered in the first configured
language. The dump format prints the raw declaration values.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := a.generator()
			if err != nil {
				return err
			}

			graph, diags, err := gen.LoadInputs(a.cfg.Inputs(), a.log)
			if err != nil {
				return err
			}

			decls, mapDiags := g.Declarations(graph)
			diags.Merge(mapDiags)

			out := cmd.OutOrStdout()

			switch format {
			case formatDump:
				cs := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
				cs.Fdump(out, decls)

			case formatYAML:
				lang := emit.Flow
				if langs := g.Config().Languages; len(langs) > 0 {
					lang = langs[0]
				}

				e, err := emit.NewEmitter(lang, emit.Options{})
				if err != nil {
					return err
				}

				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)

				if err := enc.Encode(newInspectView(e, decls, diags)); err != nil {
					return fmt.Errorf("encoding declarations: %w", err)
				}

				if err := enc.Close(); err != nil {
					return err
				}

			default:
				return fmt.Errorf("unknown format %q (supported: %s, %s)", format, formatYAML, formatDump)
			}

			return diags.Error()
		},
	}

	addGenFlags(cmd.Flags())
	cmd.Flags().StringVarP(&format, "format", "f", formatYAML, "output format: yaml or dump")

	return cmd
}

func newInspectView(e *emit.Emitter, decls []typemap.Decl, diags diagnostic.Diagnostics) inspectView {
	var view inspectView

	for i := range decls {
		d := &decls[i]

		v := inspectDecl{
			Name:   d.Name,
			Doc:    d.Doc,
			Strict: d.Strict,
			Refs:   d.Type.Refs(),
		}

		if d.ID.Name != "" {
			v.Source = d.ID.String()
		}

		if d.IsRecord() {
			for _, f := range d.Type.Fields {
				v.Fields = append(v.Fields, inspectField{
					Name:     f.Name,
					Type:     e.Expr(f.Type),
					Optional: f.Optional,
					Comment:  f.Comment,
				})
			}
		} else {
			v.Type = e.Expr(d.Type)
		}

		view.Declarations = append(view.Declarations, v)
	}

	for _, list := range [][]diagnostic.Diagnostic{diags.Errors, diags.Warnings, diags.Infos} {
		for _, d := range list {
			view.Diagnostics = append(view.Diagnostics, d.String())
		}
	}

	return view
}
