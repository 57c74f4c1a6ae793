// internal/cli/formats.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sociomantic-tsunami/dmqpkg/pkg/backend"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the package formats",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := &backend.Config{FpmPath: config.FpmPath}
		out := cmd.OutOrStdout()
		for _, t := range backend.AllBackends {
			status := "available"
			if !backend.Available(t, cfg) {
				status = "unavailable (fpm not found)"
			}
			marker := " "
			if string(t) == config.Format {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %-8s %-40s %s\n", marker, t, t.Description(), status)
		}
	},
}
