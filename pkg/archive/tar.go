package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"

	"github.com/sociomantic-tsunami/dmqpkg/pkg/payload"
)

// WriteTar writes entries as an uncompressed tar stream to w. Names are in
// "./usr/..." form and owned by root. progress, if not nil, is called after
// every entry.
func WriteTar(ctx context.Context, w io.Writer, entries []payload.Entry, progress func(done, total int)) error {
	tw := tar.NewWriter(w)

	root := &tar.Header{
		Name:     "./",
		Typeflag: tar.TypeDir,
		Mode:     0755,
		Uname:    "root",
		Gname:    "root",
		Format:   tar.FormatGNU,
	}
	if len(entries) > 0 {
		root.ModTime = entries[0].ModTime
	}
	if err := tw.WriteHeader(root); err != nil {
		return fmt.Errorf("writing root entry: %w", err)
	}

	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeTarEntry(tw, e); err != nil {
			return err
		}
		if progress != nil {
			progress(i+1, len(entries))
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("closing tar: %w", err)
	}
	return nil
}

func writeTarEntry(tw *tar.Writer, e payload.Entry) error {
	hdr := &tar.Header{
		Name:    payload.RelPath(e),
		Mode:    int64(e.Mode),
		ModTime: e.ModTime,
		Uname:   "root",
		Gname:   "root",
		Format:  tar.FormatGNU,
	}

	switch e.Kind {
	case payload.KindDir:
		hdr.Typeflag = tar.TypeDir
	case payload.KindSymlink:
		hdr.Typeflag = tar.TypeSymlink
		hdr.Linkname = e.LinkTarget
		hdr.Mode = 0777
	default:
		hdr.Typeflag = tar.TypeReg
		hdr.Size = e.Size
	}

	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("writing header for %s: %w", e.Path, err)
	}
	if e.Kind != payload.KindFile {
		return nil
	}

	f, err := e.Open()
	if err != nil {
		return fmt.Errorf("opening %s: %w", e.Source, err)
	}
	defer f.Close()

	written, err := io.Copy(tw, f)
	if err != nil {
		return fmt.Errorf("writing %s: %w", e.Path, err)
	}
	if written != e.Size {
		return fmt.Errorf("file size mismatch for %s: expected %d, got %d", e.Source, e.Size, written)
	}
	return nil
}

// TarEntry is a file read back from a tar stream
type TarEntry struct {
	Name     string
	Mode     int64
	Size     int64
	Linkname string
	IsDir    bool
}

// ListTar lists the entries of an uncompressed tar stream. If contents is
// not nil, regular file bodies are stored in it keyed by name.
func ListTar(r io.Reader, contents map[string][]byte) ([]TarEntry, error) {
	tr := tar.NewReader(r)
	var out []TarEntry
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading tar entry: %w", err)
		}
		out = append(out, TarEntry{
			Name:     hdr.Name,
			Mode:     hdr.Mode,
			Size:     hdr.Size,
			Linkname: hdr.Linkname,
			IsDir:    hdr.Typeflag == tar.TypeDir,
		})
		if contents != nil && hdr.Typeflag == tar.TypeReg {
			data, err := io.ReadAll(tr)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", hdr.Name, err)
			}
			contents[hdr.Name] = data
		}
	}
	return out, nil
}
