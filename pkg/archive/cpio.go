package archive

import (
	"context"
	"fmt"
	"io"

	"github.com/cavaliergopher/cpio"

	"github.com/sociomantic-tsunami/dmqpkg/pkg/payload"
)

// WriteCpio writes entries as an SVR4 (newc) cpio stream to w
func WriteCpio(ctx context.Context, w io.Writer, entries []payload.Entry, progress func(done, total int)) error {
	cw := cpio.NewWriter(w)

	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeCpioEntry(cw, e); err != nil {
			return err
		}
		if progress != nil {
			progress(i+1, len(entries))
		}
	}

	if err := cw.Close(); err != nil {
		return fmt.Errorf("closing cpio: %w", err)
	}
	return nil
}

func writeCpioEntry(cw *cpio.Writer, e payload.Entry) error {
	hdr := &cpio.Header{
		Name:    payload.RelPath(e),
		ModTime: e.ModTime,
		Links:   1,
	}
	perm := cpio.FileMode(e.Mode.Perm())

	switch e.Kind {
	case payload.KindDir:
		hdr.Name = "." + e.Path
		hdr.Mode = cpio.TypeDir | perm
		hdr.Links = 2
	case payload.KindSymlink:
		hdr.Mode = cpio.TypeSymlink | 0777
		hdr.Linkname = e.LinkTarget
		hdr.Size = int64(len(e.LinkTarget))
	default:
		hdr.Mode = cpio.TypeReg | perm
		hdr.Size = e.Size
	}

	if err := cw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("writing header for %s: %w", e.Path, err)
	}

	switch e.Kind {
	case payload.KindSymlink:
		if _, err := cw.Write([]byte(e.LinkTarget)); err != nil {
			return fmt.Errorf("writing link %s: %w", e.Path, err)
		}
	case payload.KindFile:
		f, err := e.Open()
		if err != nil {
			return fmt.Errorf("opening %s: %w", e.Source, err)
		}
		defer f.Close()
		if _, err := io.Copy(cw, f); err != nil {
			return fmt.Errorf("writing %s: %w", e.Path, err)
		}
	}
	return nil
}

// ListCpio lists the names in a cpio stream. If contents is not nil, regular
// file bodies are stored in it keyed by name.
func ListCpio(r io.Reader, contents map[string][]byte) ([]string, error) {
	cr := cpio.NewReader(r)
	var names []string
	for {
		hdr, err := cr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading cpio: %w", err)
		}
		names = append(names, hdr.Name)
		if contents != nil && hdr.Mode.IsRegular() {
			data, err := io.ReadAll(cr)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", hdr.Name, err)
			}
			contents[hdr.Name] = data
		}
	}
	return names, nil
}
