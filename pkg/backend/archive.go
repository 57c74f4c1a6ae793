// pkg/backend/archive.go
package backend

import (
	"context"
	"fmt"

	"github.com/sociomantic-tsunami/dmqpkg/pkg/archive"
	"github.com/sociomantic-tsunami/dmqpkg/pkg/core"
	"github.com/sociomantic-tsunami/dmqpkg/pkg/definition"
	"github.com/sociomantic-tsunami/dmqpkg/pkg/payload"
)

// ArchiveBackend implements core.Packager for plain tar and cpio archives
type ArchiveBackend struct {
	kind   archive.Kind
	config *Config
}

// NewArchiveBackend creates a tar or cpio backend
func NewArchiveBackend(kind archive.Kind, config *Config) *ArchiveBackend {
	return &ArchiveBackend{kind: kind, config: config}
}

// Build writes <name>-<version>.<kind>.<compression> into opts.OutputDir
func (b *ArchiveBackend) Build(ctx context.Context, def definition.Definition, opts *core.BuildOptions) (*core.Artifact, error) {
	fallback := archive.CompressionXz
	if b.kind == archive.KindCpio {
		fallback = archive.CompressionGzip
	}
	comp, err := compression(opts, b.config, fallback)
	if err != nil {
		return nil, err
	}
	if b.kind == archive.KindCpio && comp == archive.CompressionXz && opts.Compression == "" {
		// the shared default is xz, which cpio does not take
		comp = fallback
	}

	entries, err := payload.Resolve(opts.Root, def.Args)
	if err != nil {
		return nil, fmt.Errorf("resolving payload: %w", err)
	}
	b.config.Logger.Debugf("Archiving %d entries as %s", len(entries), b.kind)

	base := fmt.Sprintf("%s-%s", def.Options.Name, def.Options.PackageVersion())

	path, err := archive.Build(ctx, b.kind, entries, opts.OutputDir, base, comp, opts.Progress)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", b.kind, err)
	}
	return newArtifact(path, BackendType(b.kind))
}

// Name returns the backend name
func (b *ArchiveBackend) Name() string {
	return string(b.kind)
}

// Close cleans up resources
func (b *ArchiveBackend) Close() error {
	return nil
}
