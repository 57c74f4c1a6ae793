// dmqpkg.go
package dmqpkg

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sociomantic-tsunami/dmqpkg/pkg/backend"
	"github.com/sociomantic-tsunami/dmqpkg/pkg/core"
	"github.com/sociomantic-tsunami/dmqpkg/pkg/deb"
	"github.com/sociomantic-tsunami/dmqpkg/pkg/definition"
	"github.com/sociomantic-tsunami/dmqpkg/pkg/gitver"
	"github.com/sociomantic-tsunami/dmqpkg/pkg/rpm"
	"github.com/sociomantic-tsunami/dmqpkg/pkg/sign"
)

// Re-export definition and backend types for convenience
type (
	BackendType = backend.BackendType
	Config      = backend.Config
	Definition  = definition.Definition
	Options     = definition.Options
	Mapping     = definition.Mapping
	Vars        = definition.Vars
	Artifact    = core.Artifact
)

// Re-export backend constants
const (
	BackendDeb    = backend.BackendDeb
	BackendTar    = backend.BackendTar
	BackendCpio   = backend.BackendCpio
	BackendFpmDeb = backend.BackendFpmDeb
	BackendFpmRPM = backend.BackendFpmRPM
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return backend.DefaultConfig()
}

// Defaults returns the DMQ node packaging definition for v
func Defaults(v Vars) Definition {
	return definition.Defaults(v)
}

// Validate checks required fields, mapping sources under root and the
// definition schema. All problems are reported together.
func Validate(def Definition, root string) error {
	return errors.Join(def.Validate(root), definition.ValidateSchema(def))
}

// DetectVersion returns the git-derived version of the repository holding
// dir, or 0.0.0 when dir is not inside a repository
func DetectVersion(dir string) string {
	v, err := gitver.Describe(dir)
	if err != nil {
		return gitver.Untagged
	}
	return v
}

// BuildOptions configures a single Builder.Build call
type BuildOptions struct {
	Root        string // Directory mapping sources are relative to
	OutputDir   string // Directory the package is written to
	Compression string // Overrides Config.Compression
	SignKey     string // Armoured private key; empty disables signing
	Passphrase  string // Passphrase for SignKey
	Progress    func(done, total int)
}

// Builder builds packages in one output format
type Builder struct {
	backend core.Packager
	config  *Config
}

// NewBuilder creates a builder for the specified format
func NewBuilder(format BackendType, config *Config) (*Builder, error) {
	if config == nil {
		config = backend.DefaultConfig()
	}

	b, err := backend.New(format, config)
	if err != nil {
		return nil, fmt.Errorf("initializing backend: %w", err)
	}

	return &Builder{backend: b, config: config}, nil
}

// Build validates def, builds the package and signs it when a key is set
func (b *Builder) Build(ctx context.Context, def Definition, opts *BuildOptions) (*Artifact, error) {
	if opts == nil {
		opts = &BuildOptions{}
	}
	root := opts.Root
	if root == "" {
		root = "."
	}
	outDir := opts.OutputDir
	if outDir == "" {
		outDir = "."
	}

	if err := Validate(def, root); err != nil {
		return nil, &Error{Op: "validate", Package: def.Options.Name, Err: err}
	}

	b.config.Logger.Debugf("Building %s as %s from %s", def.Options.Name, b.backend.Name(), root)
	art, err := b.backend.Build(ctx, def, &core.BuildOptions{
		Root:        root,
		OutputDir:   outDir,
		Compression: opts.Compression,
		Progress:    opts.Progress,
	})
	if err != nil {
		return nil, &Error{Op: "build", Package: def.Options.Name, Err: err}
	}

	if opts.SignKey != "" {
		sig, err := sign.SignFile(art.Path, opts.SignKey, opts.Passphrase)
		if err != nil {
			return nil, &Error{Op: "sign", Package: def.Options.Name, Err: err}
		}
		art.Signature = sig
	}

	return art, nil
}

// Format returns the name of the active backend
func (b *Builder) Format() string {
	return b.backend.Name()
}

// Close cleans up any resources used by the builder
func (b *Builder) Close() error {
	return b.backend.Close()
}

// PackageInfo is the metadata read back from a built package
type PackageInfo struct {
	Format  string
	Options Options
	Files   []string
}

// Inspect reads the metadata of a .deb or .rpm file
func Inspect(path string) (*PackageInfo, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".deb":
		pkg, err := deb.Inspect(path)
		if err != nil {
			return nil, &Error{Op: "inspect", Package: path, Err: err}
		}
		files := make([]string, 0, len(pkg.Files))
		for _, f := range pkg.Files {
			if strings.HasSuffix(f, "/") {
				continue
			}
			files = append(files, strings.TrimPrefix(f, "."))
		}
		return &PackageInfo{Format: "deb", Options: pkg.Control.Options(), Files: files}, nil

	case ".rpm":
		pkg, err := rpm.Inspect(path)
		if err != nil {
			return nil, &Error{Op: "inspect", Package: path, Err: err}
		}
		return &PackageInfo{Format: "rpm", Options: pkg.Options, Files: pkg.Files}, nil

	default:
		return nil, &Error{Op: "inspect", Package: path, Err: ErrUnsupportedFormat}
	}
}

// Verify checks the detached signature of a package file and returns the
// signer identity. sigPath defaults to path + ".asc".
func Verify(path, sigPath, keyringPath string) (string, error) {
	signer, err := sign.VerifyFile(path, sigPath, keyringPath)
	if err != nil {
		return "", &Error{Op: "verify", Package: path, Err: err}
	}
	return signer, nil
}
