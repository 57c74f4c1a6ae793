// Package archive writes install trees as plain tar or cpio archives and
// provides the compression plumbing shared with the deb writer.
package archive

import (
	"context"
	"fmt"
	"io"

	"github.com/sociomantic-tsunami/dmqpkg/pkg/payload"
)

// Kind selects the container format
type Kind string

const (
	KindTar  Kind = "tar"
	KindCpio Kind = "cpio"
)

// FileName returns "<base>.<kind>[.<compression>]"
func FileName(base string, kind Kind, compression string) string {
	return base + "." + string(kind) + Extension(compression)
}

// Build writes entries to outDir/FileName(base, kind, compression) and
// returns the final path
func Build(ctx context.Context, kind Kind, entries []payload.Entry, outDir, base, compression string, progress func(done, total int)) (string, error) {
	var write func(context.Context, io.Writer, []payload.Entry, func(int, int)) error
	switch kind {
	case KindTar:
		write = WriteTar
	case KindCpio:
		if compression == CompressionXz {
			return "", fmt.Errorf("%w: cpio archives support gz and zst", ErrUnsupportedCompression)
		}
		write = WriteCpio
	default:
		return "", fmt.Errorf("unknown archive kind: %s", kind)
	}

	out, err := Create(outDir, FileName(base, kind, compression))
	if err != nil {
		return "", err
	}
	defer out.Abort()

	cw, err := NewCompressor(out, compression)
	if err != nil {
		return "", err
	}
	if err := write(ctx, cw, entries, progress); err != nil {
		cw.Close()
		return "", err
	}
	if err := cw.Close(); err != nil {
		return "", fmt.Errorf("flushing %s compressor: %w", compression, err)
	}

	return out.Commit()
}
