// internal/cli/definition.go
package cli

import (
	"github.com/spf13/cobra"

	"github.com/sociomantic-tsunami/dmqpkg"
	"github.com/sociomantic-tsunami/dmqpkg/internal/logger"
	"github.com/sociomantic-tsunami/dmqpkg/pkg/definition"
)

// definitionFlags select and override the package definition. Every
// command that renders or builds a definition shares them.
type definitionFlags struct {
	name       string
	suffix     string
	version    string
	iteration  string
	arch       string
	definition string
	root       string
}

func (f *definitionFlags) register(cmd *cobra.Command, withRoot bool) {
	cmd.Flags().StringVar(&f.name, "name", "", "base package name (default dmqnode)")
	cmd.Flags().StringVar(&f.suffix, "suffix", "", "suffix appended to the name to form the full name")
	cmd.Flags().StringVar(&f.version, "version", "", "package version (default: derived from git tags)")
	cmd.Flags().StringVar(&f.iteration, "iteration", "", "package iteration (release)")
	cmd.Flags().StringVar(&f.arch, "arch", "", "package architecture")
	cmd.Flags().StringVar(&f.definition, "definition", "", "TOML file overriding the package definition")
	if withRoot {
		cmd.Flags().StringVar(&f.root, "root", "", "directory mapping sources are relative to")
	}
}

// sourceRoot returns the --root flag or the configured source root
func (f *definitionFlags) sourceRoot() string {
	if f.root != "" {
		return f.root
	}
	if config.SourceRoot != "" {
		return config.SourceRoot
	}
	return "."
}

// vars resolves naming and version variables from config and flags. A
// missing version is taken from git.
func (f *definitionFlags) vars() definition.Vars {
	v := config.Vars()
	if f.name != "" {
		v.Name = f.name
	}
	if f.suffix != "" {
		v.Suffix = f.suffix
	}
	v.Iteration = f.iteration
	v.Arch = f.arch

	v.Version = f.version
	if v.Version == "" {
		v.Version = dmqpkg.DetectVersion(f.sourceRoot())
		logger.Logger().Debugf("Version from git: %s", v.Version)
	}
	return v
}

// load returns the definition selected by the flags
func (f *definitionFlags) load() (definition.Definition, error) {
	v := f.vars()

	path := f.definition
	if path == "" {
		path = config.Definition
	}
	if path == "" {
		return definition.Defaults(v), nil
	}

	logger.Logger().Debugf("Loading definition overrides from %s", path)
	return definition.LoadFile(path, v)
}
