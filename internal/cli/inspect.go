// internal/cli/inspect.go
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sociomantic-tsunami/dmqpkg"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect PATH",
	Short: "Print the metadata of a built .deb or .rpm",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "print as JSON")
}

func runInspect(cmd *cobra.Command, args []string) error {
	info, err := dmqpkg.Inspect(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if inspectJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	o := info.Options
	fmt.Fprintf(out, "Format:      %s\n", info.Format)
	fmt.Fprintf(out, "Package:     %s\n", o.Name)
	fmt.Fprintf(out, "Version:     %s\n", o.FullVersion())
	fmt.Fprintf(out, "Arch:        %s\n", o.Arch)
	fmt.Fprintf(out, "URL:         %s\n", o.URL)
	fmt.Fprintf(out, "Maintainer:  %s\n", o.Maintainer)
	fmt.Fprintf(out, "Vendor:      %s\n", o.Vendor)
	if o.License != "" {
		fmt.Fprintf(out, "License:     %s\n", o.License)
	}
	fmt.Fprintf(out, "Description: %s\n", o.Summary())
	fmt.Fprintf(out, "Files (%d):\n", len(info.Files))
	for _, f := range info.Files {
		fmt.Fprintf(out, "  %s\n", f)
	}
	return nil
}
