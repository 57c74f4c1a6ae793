// internal/cli/show.go
package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sociomantic-tsunami/dmqpkg/pkg/definition"
)

var (
	showFlags definitionFlags
	showJSON  bool
	showTOML  bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the package options and install mappings",
	Long: `Print the package definition: the option record and the ordered list
of install mappings.

Examples:
  dmqpkg show
  dmqpkg show --suffix -d2
  dmqpkg show --definition overrides.toml --json`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func init() {
	showFlags.register(showCmd, false)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print as JSON")
	showCmd.Flags().BoolVar(&showTOML, "toml", false, "print as a TOML definition file")
}

func runShow(cmd *cobra.Command, args []string) error {
	def, err := showFlags.load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case showJSON:
		doc := struct {
			Options definition.Options `json:"options"`
			Args    []string           `json:"args"`
		}{def.Options, def.ArgStrings()}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case showTOML:
		return definition.Encode(out, def)
	}

	o := def.Options
	fmt.Fprintf(out, "Name:        %s\n", o.Name)
	fmt.Fprintf(out, "URL:         %s\n", o.URL)
	fmt.Fprintf(out, "Maintainer:  %s\n", o.Maintainer)
	fmt.Fprintf(out, "Vendor:      %s\n", o.Vendor)
	fmt.Fprintf(out, "Description: %s\n", o.Description)
	if v := o.FullVersion(); v != "" {
		fmt.Fprintf(out, "Version:     %s\n", v)
	}
	if o.Arch != "" {
		fmt.Fprintf(out, "Arch:        %s\n", o.Arch)
	}
	if len(o.Depends) > 0 {
		fmt.Fprintf(out, "Depends:     %s\n", strings.Join(o.Depends, ", "))
	}
	fmt.Fprintln(out, "Mappings:")
	for _, m := range def.Args {
		fmt.Fprintf(out, "  %s\n", m)
	}
	return nil
}
