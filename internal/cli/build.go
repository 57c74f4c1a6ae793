// internal/cli/build.go
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/sociomantic-tsunami/dmqpkg"
	"github.com/sociomantic-tsunami/dmqpkg/internal/logger"
)

var (
	buildFlags       definitionFlags
	buildFormat      string
	buildCompression string
	buildOutput      string
	buildSignKey     string
	buildPassphrase  string
	buildNoProgress  bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the DMQ node package",
	Long: `Validate the definition and build the package in the selected format.

Examples:
  dmqpkg build --version 1.4.0
  dmqpkg build --format tar --compression zst --output dist
  dmqpkg build --format fpm-rpm --suffix -d2
  dmqpkg build --sign-key release.key`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildFlags.register(buildCmd, true)
	buildCmd.Flags().StringVar(&buildFormat, "format", "", "package format (deb, tar, cpio, fpm-deb, fpm-rpm)")
	buildCmd.Flags().StringVar(&buildCompression, "compression", "", "compression (xz, gz, zst)")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "output directory")
	buildCmd.Flags().StringVar(&buildSignKey, "sign-key", "", "armoured OpenPGP private key to sign the package with")
	buildCmd.Flags().StringVar(&buildPassphrase, "passphrase", "", "passphrase for the signing key")
	buildCmd.Flags().BoolVar(&buildNoProgress, "no-progress", false, "do not draw a progress bar")
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	log := logger.Logger()

	format := firstNonEmpty(buildFormat, config.Format)
	builder, err := dmqpkg.NewBuilder(dmqpkg.BackendType(format), &dmqpkg.Config{
		Compression: config.Compression,
		FpmPath:     config.FpmPath,
		Debug:       config.Debug,
		Logger:      log.Named("build"),
	})
	if err != nil {
		return err
	}
	defer builder.Close()

	def, err := buildFlags.load()
	if err != nil {
		return err
	}

	opts := &dmqpkg.BuildOptions{
		Root:        buildFlags.sourceRoot(),
		OutputDir:   firstNonEmpty(buildOutput, config.OutputDir),
		Compression: buildCompression,
		SignKey:     firstNonEmpty(buildSignKey, config.SignKey),
		Passphrase:  buildPassphrase,
	}

	var bar *progressbar.ProgressBar
	if !buildNoProgress {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetDescription(def.Options.Name),
			progressbar.OptionShowDescriptionAtLineEnd(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(200*time.Millisecond),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)
		opts.Progress = func(done, total int) {
			if bar.GetMax() != total {
				bar.ChangeMax(total)
			}
			if err := bar.Set(done); err != nil {
				log.Debugf("failed to update progress bar: %v", err)
			}
		}
	}

	log.Infof("Building %s (%s) with %s", def.Options.Name, def.Options.FullVersion(), builder.Format())
	art, err := builder.Build(ctx, def, opts)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Built %s\n", art.Path)
	fmt.Fprintf(out, "  format: %s\n", art.Format)
	fmt.Fprintf(out, "  size:   %d bytes\n", art.Size)
	fmt.Fprintf(out, "  sha256: %s\n", art.SHA256)
	if art.Signature != "" {
		fmt.Fprintf(out, "  signature: %s\n", art.Signature)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
