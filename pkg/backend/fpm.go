// pkg/backend/fpm.go
package backend

import (
	"context"
	"fmt"

	"github.com/sociomantic-tsunami/dmqpkg/pkg/core"
	"github.com/sociomantic-tsunami/dmqpkg/pkg/definition"
	"github.com/sociomantic-tsunami/dmqpkg/pkg/fpm"
)

// FpmBackend implements core.Packager by running fpm
type FpmBackend struct {
	target fpm.Target
	runner *fpm.Runner
	config *Config
}

// NewFpmBackend creates a backend that runs fpm -t target
func NewFpmBackend(target fpm.Target, config *Config) *FpmBackend {
	runner := fpm.NewRunner(&fpm.Config{
		Path:   config.FpmPath,
		Debug:  config.Debug,
		Logger: config.Logger.Named("fpm"),
	})
	return &FpmBackend{target: target, runner: runner, config: config}
}

// Build runs fpm with the definition's options and mappings. Compression
// and progress are not supported by fpm and are ignored.
func (b *FpmBackend) Build(ctx context.Context, def definition.Definition, opts *core.BuildOptions) (*core.Artifact, error) {
	path, err := b.runner.Run(ctx, def, fpm.Options{
		Target:    b.target,
		Root:      opts.Root,
		OutputDir: opts.OutputDir,
	})
	if err != nil {
		return nil, fmt.Errorf("building %s with fpm: %w", b.target, err)
	}
	return newArtifact(path, BackendType("fpm-"+string(b.target)))
}

// Name returns the backend name
func (b *FpmBackend) Name() string {
	return "fpm-" + string(b.target)
}

// Close cleans up resources
func (b *FpmBackend) Close() error {
	return nil
}
