// internal/cli/verify.go
package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sociomantic-tsunami/dmqpkg"
	"github.com/sociomantic-tsunami/dmqpkg/pkg/rpm"
)

var (
	verifyKeyring   string
	verifySignature string
	verifyEmbedded  bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify PATH",
	Short: "Check the OpenPGP signature of a package",
	Long: `Check the detached signature (PATH.asc by default) of a package file.
With --embedded, check the signature inside an RPM header instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyKeyring, "keyring", "", "armoured public keyring")
	verifyCmd.Flags().StringVar(&verifySignature, "signature", "", "detached signature (default PATH.asc)")
	verifyCmd.Flags().BoolVar(&verifyEmbedded, "embedded", false, "verify the signature embedded in an RPM")
	_ = verifyCmd.MarkFlagRequired("keyring")
}

func runVerify(cmd *cobra.Command, args []string) error {
	path := args[0]
	out := cmd.OutOrStdout()

	if verifyEmbedded {
		if strings.ToLower(filepath.Ext(path)) != ".rpm" {
			return fmt.Errorf("--embedded only applies to .rpm files")
		}
		keys, err := rpm.Verify(path, verifyKeyring)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: good signature from key %s\n", path, strings.Join(keys, ", "))
		return nil
	}

	signer, err := dmqpkg.Verify(path, verifySignature, verifyKeyring)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: good signature from %s\n", path, signer)
	return nil
}
