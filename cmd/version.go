package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kompos-io/kompos/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the kompos version",
	Args:  cobra.NoArgs,
	// The version command works without a loadable configuration.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Version)
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
