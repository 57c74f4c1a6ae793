// pkg/backend/types.go
package backend

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sociomantic-tsunami/dmqpkg/pkg/archive"
	"github.com/sociomantic-tsunami/dmqpkg/pkg/core"
	"github.com/sociomantic-tsunami/dmqpkg/pkg/fpm"
)

// BackendType represents a package output format
type BackendType string

const (
	// BackendDeb writes a Debian binary package natively
	BackendDeb BackendType = "deb"
	// BackendTar writes a compressed tarball of the install tree
	BackendTar BackendType = "tar"
	// BackendCpio writes a newc cpio archive of the install tree
	BackendCpio BackendType = "cpio"
	// BackendFpmDeb runs fpm -t deb
	BackendFpmDeb BackendType = "fpm-deb"
	// BackendFpmRPM runs fpm -t rpm
	BackendFpmRPM BackendType = "fpm-rpm"
)

// AllBackends lists every format in display order
var AllBackends = []BackendType{BackendDeb, BackendTar, BackendCpio, BackendFpmDeb, BackendFpmRPM}

// ErrUnsupportedFormat is returned for an unknown backend type
var ErrUnsupportedFormat = errors.New("unsupported package format")

var descriptions = map[BackendType]string{
	BackendDeb:    "Debian binary package (native writer)",
	BackendTar:    "tarball of the install tree",
	BackendCpio:   "newc cpio archive of the install tree",
	BackendFpmDeb: "Debian package built by fpm",
	BackendFpmRPM: "RPM package built by fpm",
}

// Description returns a one-line summary of the format
func (t BackendType) Description() string {
	return descriptions[t]
}

// External reports whether the format needs the fpm executable
func (t BackendType) External() bool {
	return t == BackendFpmDeb || t == BackendFpmRPM
}

// Config holds configuration shared by all backends
type Config struct {
	// Compression for the data member or archive: xz, gz or zst.
	// Empty selects the format's default.
	Compression string

	// FpmPath is the fpm executable used by the fpm-* formats
	FpmPath string

	// Debug enables debug logging
	Debug bool

	// Logger for custom logging
	Logger *zap.SugaredLogger
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Compression: archive.CompressionXz,
		FpmPath:     fpm.DefaultPath,
	}
}

// New creates the backend for t
func New(t BackendType, config *Config) (core.Packager, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop().Sugar()
	}

	switch t {
	case BackendDeb:
		return NewDebBackend(config), nil
	case BackendTar:
		return NewArchiveBackend(archive.KindTar, config), nil
	case BackendCpio:
		return NewArchiveBackend(archive.KindCpio, config), nil
	case BackendFpmDeb:
		return NewFpmBackend(fpm.TargetDeb, config), nil
	case BackendFpmRPM:
		return NewFpmBackend(fpm.TargetRPM, config), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, t)
	}
}

// Available reports whether t can build on this host
func Available(t BackendType, config *Config) bool {
	if !t.External() {
		_, ok := descriptions[t]
		return ok
	}
	path := fpm.DefaultPath
	if config != nil && config.FpmPath != "" {
		path = config.FpmPath
	}
	return fpm.NewRunner(&fpm.Config{Path: path}).Available()
}

// compression picks the per-build override, then the backend config
func compression(opts *core.BuildOptions, config *Config, fallback string) (string, error) {
	c := opts.Compression
	if c == "" {
		c = config.Compression
	}
	if c == "" {
		c = fallback
	}
	return archive.NormalizeCompression(c)
}

// newArtifact fills in size and digest for a finished package file
func newArtifact(path string, t BackendType) (*core.Artifact, error) {
	sum, size, err := archive.Digest(path)
	if err != nil {
		return nil, fmt.Errorf("hashing %s: %w", path, err)
	}
	return &core.Artifact{
		Path:   path,
		Format: string(t),
		Size:   size,
		SHA256: sum,
	}, nil
}
