// errors.go
package dmqpkg

import (
	"fmt"

	"github.com/sociomantic-tsunami/dmqpkg/pkg/archive"
	"github.com/sociomantic-tsunami/dmqpkg/pkg/backend"
	"github.com/sociomantic-tsunami/dmqpkg/pkg/definition"
	"github.com/sociomantic-tsunami/dmqpkg/pkg/fpm"
	"github.com/sociomantic-tsunami/dmqpkg/pkg/sign"
)

var (
	// ErrMissingField indicates a required option is empty
	ErrMissingField = definition.ErrMissingField

	// ErrInvalidMapping indicates a mapping is not "source=destination"
	ErrInvalidMapping = definition.ErrInvalidMapping

	// ErrSourceNotFound indicates a mapping source does not exist
	ErrSourceNotFound = definition.ErrSourceNotFound

	// ErrUnsupportedFormat indicates an unknown output format or package file
	ErrUnsupportedFormat = backend.ErrUnsupportedFormat

	// ErrUnsupportedCompression indicates an unknown or unusable compression
	ErrUnsupportedCompression = archive.ErrUnsupportedCompression

	// ErrFpmNotInstalled indicates the fpm executable was not found
	ErrFpmNotInstalled = fpm.ErrNotInstalled

	// ErrSignature indicates a signature verification failure
	ErrSignature = sign.ErrSignature
)

// Error wraps an error with additional context
type Error struct {
	Op      string // Operation that failed
	Package string // Package name if applicable
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Package, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
