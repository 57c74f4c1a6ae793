package definition

import "errors"

var (
	// ErrMissingField indicates a required option is empty
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidMapping indicates a mapping entry is not "source=destination"
	ErrInvalidMapping = errors.New("invalid mapping")

	// ErrSourceNotFound indicates a mapping source does not exist in the source tree
	ErrSourceNotFound = errors.New("mapping source not found")

	// ErrRelativeDest indicates a mapping destination is not an absolute path
	ErrRelativeDest = errors.New("mapping destination must be absolute")
)
