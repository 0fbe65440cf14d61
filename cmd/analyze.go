package cmd

import (
	"github.com/spf13/cobra"

	e "github.com/kompos-io/kompos/internal/exec"
)

// analyzeCmd reports, layer by layer, which keys each level of the hierarchy
// introduces, overrides or leaves unchanged.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [config-path]",
	Short: "Analyze key distribution across hierarchy layers",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := executionContext(args)
		if err != nil {
			return err
		}
		return e.ExecuteAnalyze(ctx)
	},
}

func init() {
	RootCmd.AddCommand(analyzeCmd)
}
