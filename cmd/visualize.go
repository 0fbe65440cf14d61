package cmd

import (
	"github.com/spf13/cobra"

	e "github.com/kompos-io/kompos/internal/exec"
)

// visualizeCmd renders the hierarchy as an indented tree, or as a GraphViz
// digraph with --format dot.
var visualizeCmd = &cobra.Command{
	Use:   "visualize [config-path]",
	Short: "Render the configuration hierarchy",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := executionContext(args)
		if err != nil {
			return err
		}
		return e.ExecuteVisualize(ctx)
	},
}

func init() {
	RootCmd.AddCommand(visualizeCmd)
}
