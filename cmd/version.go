package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd prints build information. It needs no configuration.
var versionCmd = &cobra.Command{
	Use:              "version",
	Short:            "Print version information",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "moviefinder %s (built %s)\n", version, buildTime)
	},
}
