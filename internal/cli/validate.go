// internal/cli/validate.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sociomantic-tsunami/dmqpkg"
)

var validateFlags definitionFlags

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the package definition",
	Long: `Check that the required options are set, that every mapping source
exists under the source root and that the definition matches its schema.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateFlags.register(validateCmd, true)
}

func runValidate(cmd *cobra.Command, args []string) error {
	def, err := validateFlags.load()
	if err != nil {
		return err
	}

	root := validateFlags.sourceRoot()
	if err := dmqpkg.Validate(def, root); err != nil {
		for _, e := range flatten(err) {
			fmt.Fprintf(cmd.ErrOrStderr(), "  - %v\n", e)
		}
		return fmt.Errorf("definition for %s is invalid", def.Options.Name)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: OK (%d mappings, root %s)\n", def.Options.Name, len(def.Args), root)
	return nil
}

// flatten expands errors.Join trees into their leaves
func flatten(err error) []error {
	if err == nil {
		return nil
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}
	var out []error
	for _, e := range joined.Unwrap() {
		out = append(out, flatten(e)...)
	}
	return out
}
