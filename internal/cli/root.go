// internal/cli/root.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sociomantic-tsunami/dmqpkg/internal/logger"
	"github.com/sociomantic-tsunami/dmqpkg/pkg/core"
)

var (
	cfgFile  string
	debug    bool
	logLevel string
	logFile  string
	config   *core.Config
	flushLog func()

	// configErr holds the load failure of the config file, reported once a
	// command runs
	configErr error
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dmqpkg",
	Short: "DMQ node packaging",
	Long: `dmqpkg - DMQ node packaging

Builds installable packages of the DMQ node, the server implementing one
node of a network message queue. The package metadata and the install
mappings come from built-in defaults, optionally overridden by a TOML
definition file.`,
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

// Execute executes the root command. The log is flushed whether or not the
// command succeeded.
func Execute() error {
	defer closeLog()
	return rootCmd.Execute()
}

func closeLog() {
	if flushLog != nil {
		flushLog()
		flushLog = nil
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/dmqpkg/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this file")

	// Add commands
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(argsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(formatsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	config, configErr = core.LoadConfig(cfgFile)
	if configErr != nil {
		config = core.DefaultConfig()
	}

	// Override config with flags
	if debug {
		config.Debug = true
		config.LogLevel = "debug"
	}
	if logLevel != "" {
		config.LogLevel = logLevel
	}
	if logFile != "" {
		config.LogFile = logFile
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {
	// config init may overwrite a broken file
	if configErr != nil && cmd != configInitCmd {
		return fmt.Errorf("loading config: %w", configErr)
	}

	closeLog()
	cleanup, err := logger.Configure(logger.Config{Level: config.LogLevel, FilePath: config.LogFile})
	if err != nil {
		return err
	}
	flushLog = cleanup
	logger.Logger().Debugf("Loaded config: format=%s output=%s root=%s", config.Format, config.OutputDir, config.SourceRoot)
	return nil
}
