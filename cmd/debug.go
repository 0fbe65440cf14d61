package cmd

import (
	"github.com/spf13/cobra"

	e "github.com/kompos-io/kompos/internal/exec"
)

var debugInterpolation string

// debugCmd explains why a {{key.path}} placeholder does not resolve for the
// config path, including the excluded-but-referenced contradiction.
var debugCmd = &cobra.Command{
	Use:   "debug [config-path] --interpolation \"{{key.path}}\"",
	Short: "Diagnose an unresolved interpolation placeholder",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := executionContext(args)
		if err != nil {
			return err
		}
		return e.ExecuteDebug(ctx, debugInterpolation)
	},
}

func init() {
	debugCmd.Flags().StringVarP(&debugInterpolation, "interpolation", "i", "",
		"placeholder text to diagnose, e.g. \"{{region.name}}\"")
	RootCmd.AddCommand(debugCmd)
}
