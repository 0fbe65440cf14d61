package cmd

import (
	"github.com/spf13/cobra"

	e "github.com/kompos-io/kompos/internal/exec"
)

var (
	validateRule            string
	validateCompositionType string
	validateStrict          bool
)

// validateCmd checks the hierarchy for issues that would break generation,
// such as keys referenced by placeholders but excluded for the composition
// type.
var validateCmd = &cobra.Command{
	Use:   "validate [config-path]",
	Short: "Validate configuration for common issues before generation",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := executionContext(args)
		if err != nil {
			return err
		}
		return e.ExecuteValidate(ctx, validateRule, validateCompositionType, validateStrict)
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateRule, "rule", "",
		"run one rule only: excluded-but-referenced, missing-layers, interpolation-syntax")
	validateCmd.Flags().StringVar(&validateCompositionType, "composition-type", "",
		"composition type to validate when the path has no composition segment")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false,
		"exit non-zero if any error-severity issue is found")
	RootCmd.AddCommand(validateCmd)
}
