package archive

import "errors"

// ErrUnsupportedCompression indicates an unknown compression name
var ErrUnsupportedCompression = errors.New("unsupported compression")
