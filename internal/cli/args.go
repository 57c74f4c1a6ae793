// internal/cli/args.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sociomantic-tsunami/dmqpkg/pkg/fpm"
)

var (
	argsFlags  definitionFlags
	argsTarget string
	argsOutput string
	argsLines  bool
)

var argsCmd = &cobra.Command{
	Use:   "args",
	Short: "Print the fpm command line for the package",
	Long: `Print the argument vector that builds the package with fpm. Each
mapping is passed as source=destination, in order.

Examples:
  dmqpkg args
  dmqpkg args --target rpm --suffix -d2`,
	Args: cobra.NoArgs,
	RunE: runArgs,
}

func init() {
	argsFlags.register(argsCmd, true)
	argsCmd.Flags().StringVar(&argsTarget, "target", "deb", "fpm output type (deb, rpm)")
	argsCmd.Flags().StringVar(&argsOutput, "output", "", "output directory passed as -p")
	argsCmd.Flags().BoolVar(&argsLines, "lines", false, "print one argument per line without quoting")
}

func runArgs(cmd *cobra.Command, args []string) error {
	target := fpm.Target(argsTarget)
	if target != fpm.TargetDeb && target != fpm.TargetRPM {
		return fmt.Errorf("unknown fpm target %q (want deb or rpm)", argsTarget)
	}

	def, err := argsFlags.load()
	if err != nil {
		return err
	}

	output := argsOutput
	if output == "" {
		output = config.OutputDir
	}

	argv := fpm.Args(def, fpm.Options{Target: target, Root: argsFlags.sourceRoot(), OutputDir: output})

	out := cmd.OutOrStdout()
	if argsLines {
		for _, a := range argv {
			fmt.Fprintln(out, a)
		}
		return nil
	}

	quoted := make([]string, 0, len(argv)+1)
	quoted = append(quoted, config.FpmPath)
	for _, a := range argv {
		quoted = append(quoted, shellQuote(a))
	}
	fmt.Fprintln(out, strings.Join(quoted, " "))
	return nil
}

// shellQuote single-quotes s when it holds anything but safe characters
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.IndexFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_./=:+,@%", r))
	}) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
