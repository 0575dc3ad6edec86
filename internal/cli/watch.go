package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"typewriter/internal/gen"
	"typewriter/internal/watch"
)

func (a *app) watchCmd() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate whenever an input changes",
		Long: `watch generates once, then watches the input package directories and schema
files and regenerates after every burst of changes. A failed regeneration is
logged and the previous output is left in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := a.generator()
			if err != nil {
				return err
			}

			in := a.cfg.Inputs()

			paths, err := a.regenerate(g, in)
			if err != nil {
				return err
			}

			w, err := watch.New(paths, watch.WithDebounce(debounce), watch.WithLogger(a.log))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.log.WithField("paths", len(paths)).Info("watching")

			return w.Run(ctx, func(_ context.Context, changed []string) error {
				a.log.WithField("changed", changed).Info("regenerating")

				_, err := a.regenerate(g, in)

				return err
			})
		},
	}

	addGenFlags(cmd.Flags())
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before regenerating")

	return cmd
}

// regenerate runs one generation and returns the source paths to watch.
func (a *app) regenerate(g *gen.Generator, in gen.Inputs) ([]string, error) {
	graph, diags, err := gen.LoadInputs(in, a.log)
	if err != nil {
		return nil, err
	}

	files, genDiags, err := g.Generate(graph)
	diags.Merge(genDiags)
	diags.Log(a.log)

	if err != nil {
		return nil, err
	}

	written, err := gen.WriteFiles(files, g.Config().OutputDir)
	if err != nil {
		return nil, err
	}

	for _, path := range written {
		a.log.WithField("file", path).Info("written")
	}

	return gen.SourcePaths(graph), nil
}
