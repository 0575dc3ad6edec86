package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"typewriter/internal/gen"
)

func (a *app) genCmd() *cobra.Command {
	var stdout bool

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate declaration files",
		Example: `  typewriter gen -p ./models -l flow -l ts -o web/src/types
  typewriter gen -s api.yaml -l elm --basename api`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := a.generator()
			if err != nil {
				return err
			}

			files, err := g.Run(a.cfg.Inputs())
			if err != nil {
				return err
			}

			if stdout {
				for _, f := range files {
					if _, err := cmd.OutOrStdout().Write(f.Content); err != nil {
						return err
					}
				}

				return nil
			}

			outDir := g.Config().OutputDir

			written, err := gen.WriteFiles(files, outDir)
			if err != nil {
				return err
			}

			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(outDir, f.Filename))
			}

			a.log.WithField("written", len(written)).WithField("unchanged", len(files)-len(written)).Info("generated")

			return nil
		},
	}

	addGenFlags(cmd.Flags())
	cmd.Flags().BoolVar(&stdout, "stdout", false, "print the generated files instead of writing them")

	return cmd
}
