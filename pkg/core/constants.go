package core

const (
	// DefaultFormat is the package format built when none is configured
	DefaultFormat = "deb"

	// DefaultCompression is used for data archives
	DefaultCompression = "xz"

	// DefaultFpmPath is the external packaging tool looked up on PATH
	DefaultFpmPath = "fpm"

	// EnvOutputDir overrides the configured output directory
	EnvOutputDir = "DMQPKG_OUTPUT_DIR"
)
