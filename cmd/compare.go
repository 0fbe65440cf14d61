package cmd

import (
	"github.com/spf13/cobra"

	e "github.com/kompos-io/kompos/internal/exec"
)

var compareKeys []string

// compareCmd resolves every leaf path under the config path independently
// and tabulates the requested keys side by side.
var compareCmd = &cobra.Command{
	Use:   "compare [config-path] [--keys k1 --keys k2 ...]",
	Short: "Compare resolved keys across leaf configuration paths",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := executionContext(args)
		if err != nil {
			return err
		}
		return e.ExecuteCompare(ctx, compareKeys)
	},
}

func init() {
	compareCmd.Flags().StringSliceVar(&compareKeys, "keys", nil,
		"dotted keys to compare (default: union of all keys)")
	RootCmd.AddCommand(compareCmd)
}
