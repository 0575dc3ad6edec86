package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"typewriter/internal/emit"
)

func langsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List the supported target languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, l := range emit.Languages() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", l, l.Filename("models"))
			}

			return nil
		},
	}
}
