// internal/cli/version.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X ...cli.Version=..."
var Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "dmqpkg version %s\n", Version)
		fmt.Fprintln(out, "DMQ node packaging")
		fmt.Fprintln(out, "https://github.com/sociomantic-tsunami/dmqpkg")
	},
}
