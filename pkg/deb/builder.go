package deb

import (
	"archive/tar"
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/blakesmith/ar"
	"go.uber.org/zap"

	"github.com/sociomantic-tsunami/dmqpkg/pkg/archive"
	"github.com/sociomantic-tsunami/dmqpkg/pkg/definition"
	"github.com/sociomantic-tsunami/dmqpkg/pkg/payload"
)

// NewBuilder creates a new Debian package builder
func NewBuilder(cfg *Config) *Builder {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Compression == "" {
		cfg.Compression = DefaultCompression
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			l, err := zap.NewDevelopment()
			if err == nil {
				logger = l.Sugar().Named("deb")
			}
		}
		if logger == nil {
			logger = zap.NewNop().Sugar()
		}
	}

	return &Builder{config: cfg, logger: logger}
}

// FileName returns <package>_<version>_<arch>.deb
func FileName(c *Control) string {
	return fmt.Sprintf("%s_%s_%s.deb", c.Package, c.Version, c.Architecture)
}

// Build resolves the mappings of def under root and writes the package into
// outDir. It returns the path of the .deb.
func (b *Builder) Build(ctx context.Context, def definition.Definition, root, outDir string, progress func(done, total int)) (string, error) {
	entries, err := payload.Resolve(root, def.Args)
	if err != nil {
		return "", fmt.Errorf("resolving payload: %w", err)
	}
	b.logger.Debugf("Resolved %d payload entries", len(entries))

	ctrl := NewControl(def.Options, payload.InstalledSize(entries))
	if ctrl.Architecture == "" {
		arch, err := DetectArchitecture()
		if err != nil {
			arch = ArchAll
		}
		ctrl.Architecture = arch.String()
	}
	if arch, err := ParseArchitecture(ctrl.Architecture); err == nil {
		ctrl.Architecture = arch.String()
	} else {
		return "", fmt.Errorf("invalid architecture: %s", ctrl.Architecture)
	}

	out, err := archive.Create(outDir, FileName(ctrl))
	if err != nil {
		return "", err
	}
	defer out.Abort()

	if err := b.write(ctx, out, ctrl, entries, progress, outDir); err != nil {
		return "", err
	}

	path, err := out.Commit()
	if err != nil {
		return "", err
	}
	b.logger.Infof("Wrote %s", path)
	return path, nil
}

// Write writes a complete .deb for ctrl and entries to w
func (b *Builder) Write(ctx context.Context, w io.Writer, ctrl *Control, entries []payload.Entry, progress func(done, total int)) error {
	return b.write(ctx, w, ctrl, entries, progress, b.config.TempDir)
}

// write streams the package to w. The compressed data member is spooled to a
// temporary file in spoolDir because its ar header needs the size up front.
func (b *Builder) write(ctx context.Context, w io.Writer, ctrl *Control, entries []payload.Entry, progress func(done, total int), spoolDir string) error {
	modTime := time.Now()
	if len(entries) > 0 {
		modTime = entries[0].ModTime
	}

	b.logger.Debugf("Building control member for %s %s", ctrl.Package, ctrl.Version)
	md5sums, err := md5Sums(entries)
	if err != nil {
		return err
	}
	control, err := controlMember(ctrl, md5sums, modTime)
	if err != nil {
		return err
	}

	b.logger.Debugf("Building data member (%s)", b.config.Compression)
	data, size, err := spoolData(ctx, spoolDir, b.config.Compression, entries, progress)
	if err != nil {
		return err
	}
	defer func() {
		data.Close()
		os.Remove(data.Name())
	}()

	aw := ar.NewWriter(w)
	if err := aw.WriteGlobalHeader(); err != nil {
		return fmt.Errorf("writing ar header: %w", err)
	}
	for _, m := range []struct {
		name string
		body []byte
	}{
		{MemberBinary, []byte(BinaryVersion)},
		{MemberControl, control},
	} {
		if err := aw.WriteHeader(arHeader(m.name, int64(len(m.body)), modTime)); err != nil {
			return fmt.Errorf("writing ar member %s: %w", m.name, err)
		}
		// one Write per member, the ar writer pads per call
		if _, err := aw.Write(m.body); err != nil {
			return fmt.Errorf("writing ar member %s: %w", m.name, err)
		}
		b.logger.Debugf("  %s (%d bytes)", m.name, len(m.body))
	}

	name := MemberData + archive.Extension(b.config.Compression)
	if err := aw.WriteHeader(arHeader(name, size, modTime)); err != nil {
		return fmt.Errorf("writing ar member %s: %w", name, err)
	}
	// copied past the ar writer, which would pad every chunk
	if _, err := io.Copy(w, data); err != nil {
		return fmt.Errorf("writing ar member %s: %w", name, err)
	}
	if size%2 == 1 {
		if _, err := w.Write([]byte{'\n'}); err != nil {
			return fmt.Errorf("padding ar member %s: %w", name, err)
		}
	}
	b.logger.Debugf("  %s (%d bytes)", name, size)

	return nil
}

func arHeader(name string, size int64, modTime time.Time) *ar.Header {
	return &ar.Header{Name: name, ModTime: modTime, Mode: 0644, Size: size}
}

// spoolData writes the compressed data tar to a temporary file and returns
// it rewound, together with its size
func spoolData(ctx context.Context, dir, compression string, entries []payload.Entry, progress func(done, total int)) (*os.File, int64, error) {
	f, err := os.CreateTemp(dir, ".dmqpkg-data-*")
	if err != nil {
		return nil, 0, fmt.Errorf("creating data spool: %w", err)
	}
	fail := func(err error) (*os.File, int64, error) {
		f.Close()
		os.Remove(f.Name())
		return nil, 0, err
	}

	cw, err := archive.NewCompressor(f, compression)
	if err != nil {
		return fail(err)
	}
	if err := archive.WriteTar(ctx, cw, entries, progress); err != nil {
		cw.Close()
		return fail(fmt.Errorf("writing data member: %w", err))
	}
	if err := cw.Close(); err != nil {
		return fail(fmt.Errorf("flushing data member: %w", err))
	}

	size, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return fail(fmt.Errorf("sizing data member: %w", err))
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fail(fmt.Errorf("rewinding data member: %w", err))
	}
	return f, size, nil
}

func md5Sums(entries []payload.Entry) (string, error) {
	var lines []string
	for _, e := range entries {
		if e.Kind != payload.KindFile {
			continue
		}
		f, err := e.Open()
		if err != nil {
			return "", fmt.Errorf("opening %s: %w", e.Source, err)
		}
		h := md5.New()
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return "", fmt.Errorf("hashing %s: %w", e.Source, err)
		}
		lines = append(lines, fmt.Sprintf("%s  %s\n", hex.EncodeToString(h.Sum(nil)), strings.TrimPrefix(e.Path, "/")))
	}
	sort.Strings(lines)
	return strings.Join(lines, ""), nil
}

func controlMember(ctrl *Control, md5sums string, modTime time.Time) ([]byte, error) {
	var buf bytes.Buffer
	cw, err := archive.NewCompressor(&buf, archive.CompressionGzip)
	if err != nil {
		return nil, err
	}
	tw := tar.NewWriter(cw)

	files := []struct {
		name string
		body string
	}{
		{"./control", ctrl.String()},
		{"./md5sums", md5sums},
	}

	if err := tw.WriteHeader(&tar.Header{
		Name: "./", Typeflag: tar.TypeDir, Mode: 0755, ModTime: modTime,
		Uname: "root", Gname: "root", Format: tar.FormatGNU,
	}); err != nil {
		return nil, fmt.Errorf("writing control tar: %w", err)
	}
	for _, f := range files {
		hdr := &tar.Header{
			Name: f.name, Typeflag: tar.TypeReg, Mode: 0644, Size: int64(len(f.body)), ModTime: modTime,
			Uname: "root", Gname: "root", Format: tar.FormatGNU,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return nil, fmt.Errorf("writing %s header: %w", f.name, err)
		}
		if _, err := io.WriteString(tw, f.body); err != nil {
			return nil, fmt.Errorf("writing %s: %w", f.name, err)
		}
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("closing control tar: %w", err)
	}
	if err := cw.Close(); err != nil {
		return nil, fmt.Errorf("closing control gzip: %w", err)
	}
	return buf.Bytes(), nil
}
