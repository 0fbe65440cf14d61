package cmd

import (
	"github.com/spf13/cobra"

	e "github.com/kompos-io/kompos/internal/exec"
)

var traceKey string

// traceCmd follows a single dotted key across all layers and reports where
// its value was introduced, interpolated or overridden.
var traceCmd = &cobra.Command{
	Use:   "trace [config-path] --key <dotted.path>",
	Short: "Trace one key's value through the hierarchy",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := executionContext(args)
		if err != nil {
			return err
		}
		return e.ExecuteTrace(ctx, traceKey)
	},
}

func init() {
	traceCmd.Flags().StringVarP(&traceKey, "key", "k", "", "dotted key path to trace (e.g. vpc.cidr)")
	RootCmd.AddCommand(traceCmd)
}
