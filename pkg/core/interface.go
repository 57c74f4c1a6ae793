package core

import (
	"context"

	"github.com/sociomantic-tsunami/dmqpkg/pkg/definition"
)

// Packager is implemented by every output format
type Packager interface {
	// Name returns the format name (e.g., "deb", "tar")
	Name() string

	// Build packages the files named by def found under opts.Root
	Build(ctx context.Context, def definition.Definition, opts *BuildOptions) (*Artifact, error)

	// Close cleans up resources
	Close() error
}

// BuildOptions configures a single build
type BuildOptions struct {
	Root        string // Source tree the mappings are relative to
	OutputDir   string // Directory the artifact is written to
	Compression string // xz, gz or zst where the format supports it
	Progress    func(done, total int)
}
