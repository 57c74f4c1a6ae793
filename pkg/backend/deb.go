// pkg/backend/deb.go
package backend

import (
	"context"
	"fmt"

	"github.com/sociomantic-tsunami/dmqpkg/pkg/core"
	"github.com/sociomantic-tsunami/dmqpkg/pkg/deb"
	"github.com/sociomantic-tsunami/dmqpkg/pkg/definition"
)

// DebBackend implements core.Packager with the native .deb writer
type DebBackend struct {
	config *Config
}

// NewDebBackend creates a new native Debian backend
func NewDebBackend(config *Config) *DebBackend {
	return &DebBackend{config: config}
}

// Build writes <name>_<version>_<arch>.deb into opts.OutputDir
func (b *DebBackend) Build(ctx context.Context, def definition.Definition, opts *core.BuildOptions) (*core.Artifact, error) {
	comp, err := compression(opts, b.config, deb.DefaultCompression)
	if err != nil {
		return nil, err
	}

	builder := deb.NewBuilder(&deb.Config{
		Compression: comp,
		Debug:       b.config.Debug,
		Logger:      b.config.Logger.Named("deb"),
	})

	path, err := builder.Build(ctx, def, opts.Root, opts.OutputDir, opts.Progress)
	if err != nil {
		return nil, fmt.Errorf("building deb: %w", err)
	}
	return newArtifact(path, BackendDeb)
}

// Name returns the backend name
func (b *DebBackend) Name() string {
	return string(BackendDeb)
}

// Close cleans up resources
func (b *DebBackend) Close() error {
	return nil
}
