package deb

import (
	"bytes"
	"context"
	"crypto/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sociomantic-tsunami/dmqpkg/pkg/archive"
	"github.com/sociomantic-tsunami/dmqpkg/pkg/definition"
	"github.com/sociomantic-tsunami/dmqpkg/pkg/payload"
)

func writeReadme(t *testing.T, root string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.rst"), []byte("DMQ node\n========\n"), 0644))
}

func TestNewControl(t *testing.T) {
	def := definition.Defaults(definition.Vars{Name: "dmqnode", Suffix: "-d2", Version: "1.4.0", Iteration: "3", Arch: "amd64"})

	c := NewControl(def.Options, 1025)

	assert.Equal(t, "dmqnode-d2", c.Package)
	assert.Equal(t, "1.4.0-3", c.Version)
	assert.Equal(t, "amd64", c.Architecture)
	assert.Equal(t, int64(2), c.InstalledSize)
	assert.Equal(t, DefaultSection, c.Section)
	assert.Equal(t, DefaultPriority, c.Priority)
	assert.Equal(t, definition.DefaultURL, c.Homepage)
	assert.Equal(t, definition.DefaultDescription, c.Synopsis())
}

func TestNewControlDefaultVersion(t *testing.T) {
	c := NewControl(definition.Options{Name: "dmqnode"}, 0)
	assert.Equal(t, definition.DefaultVersion, c.Version)

	c = NewControl(definition.Options{Name: "dmqnode", Iteration: "2"}, 0)
	assert.Equal(t, definition.DefaultVersion+"-2", c.Version)
}

func TestControlStringRoundTrip(t *testing.T) {
	c := &Control{
		Package:       "dmqnode",
		Version:       "1.0.0-1",
		Architecture:  "amd64",
		Maintainer:    definition.DefaultMaintainer,
		InstalledSize: 12,
		Depends:       []string{"libc6", "liblzo2-2"},
		Section:       "net",
		Priority:      "optional",
		Homepage:      definition.DefaultURL,
		Vendor:        definition.DefaultVendor,
		Description:   "short line\nfirst paragraph\n\nsecond paragraph",
	}

	text := c.String()
	assert.Contains(t, text, "Package: dmqnode\n")
	assert.Contains(t, text, "Depends: libc6, liblzo2-2\n")
	assert.Contains(t, text, "Description: short line\n first paragraph\n .\n second paragraph\n")
	assert.NotContains(t, text, "License:")

	parsed, err := ParseControl(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, c, parsed)
}

func TestParseControlRequiresPackage(t *testing.T) {
	_, err := ParseControl(strings.NewReader("Version: 1.0\n"))
	assert.Error(t, err)
}

func TestControlOptions(t *testing.T) {
	c := &Control{Package: "dmqnode", Version: "1.2.3-4", Homepage: definition.DefaultURL}
	opts := c.Options()
	assert.Equal(t, "1.2.3", opts.Version)
	assert.Equal(t, "4", opts.Iteration)
	assert.Equal(t, definition.DefaultURL, opts.URL)
}

func TestArchitecture(t *testing.T) {
	a, err := ParseArchitecture("amd64")
	require.NoError(t, err)
	assert.Equal(t, ArchAmd64, a)

	a, err = ParseArchitecture("ppc64le")
	require.NoError(t, err)
	assert.Equal(t, ArchPpc64el, a)

	_, err = ParseArchitecture("vax")
	assert.Error(t, err)

	assert.True(t, ArchAll.IsValid())
	assert.False(t, Architecture("x86_64").IsValid())
}

func TestBuildAndInspect(t *testing.T) {
	for _, comp := range []string{archive.CompressionXz, archive.CompressionGzip, archive.CompressionZstd} {
		t.Run(comp, func(t *testing.T) {
			root := t.TempDir()
			out := t.TempDir()
			writeReadme(t, root)

			def := definition.Defaults(definition.Vars{Name: "dmqnode", Suffix: "-d2", Version: "1.0.0", Arch: "amd64"})
			b := NewBuilder(&Config{Compression: comp})

			path, err := b.Build(context.Background(), def, root, out, nil)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(out, "dmqnode-d2_1.0.0_amd64.deb"), path)

			raw, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(raw, []byte("!<arch>\n")))

			contents := make(map[string][]byte)
			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()
			pkg, err := Read(f, contents)
			require.NoError(t, err)

			assert.Equal(t, "dmqnode-d2", pkg.Control.Package)
			assert.Equal(t, definition.DefaultURL, pkg.Control.Homepage)
			assert.Equal(t, definition.DefaultMaintainer, pkg.Control.Maintainer)
			assert.Equal(t, definition.DefaultVendor, pkg.Control.Vendor)
			assert.Equal(t, definition.DefaultDescription, pkg.Control.Synopsis())
			assert.Equal(t, int64(1), pkg.Control.InstalledSize)

			readme := "./usr/share/doc/dmqnode-d2/README.rst"
			assert.Contains(t, pkg.Files, readme)
			assert.Contains(t, pkg.Files, "./usr/share/doc/dmqnode-d2/")
			assert.Equal(t, "DMQ node\n========\n", string(contents[readme]))
			assert.Len(t, pkg.MD5Sums["usr/share/doc/dmqnode-d2/README.rst"], 32)
		})
	}
}

func TestInspectFile(t *testing.T) {
	root := t.TempDir()
	writeReadme(t, root)
	def := definition.Defaults(definition.Vars{Name: "dmqnode", Version: "2.0.0", Arch: "all"})

	path, err := NewBuilder(nil).Build(context.Background(), def, root, t.TempDir(), nil)
	require.NoError(t, err)

	pkg, err := Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, "dmqnode", pkg.Control.Package)
	assert.Equal(t, "2.0.0", pkg.Control.Version)
	assert.Equal(t, "all", pkg.Control.Architecture)
}

func TestBuildProgress(t *testing.T) {
	root := t.TempDir()
	writeReadme(t, root)
	def := definition.Defaults(definition.Vars{Name: "dmqnode", Version: "1.0.0", Arch: "amd64"})

	entries, err := payload.Resolve(root, def.Args)
	require.NoError(t, err)

	var calls, lastTotal int
	var buf bytes.Buffer
	err = NewBuilder(nil).Write(context.Background(), &buf, NewControl(def.Options, 0), entries, func(done, total int) {
		calls++
		lastTotal = total
	})
	require.NoError(t, err)
	assert.Equal(t, len(entries), calls)
	assert.Equal(t, len(entries), lastTotal)
}

func TestBuildMissingSource(t *testing.T) {
	def := definition.Defaults(definition.Vars{Name: "dmqnode", Arch: "amd64"})
	out := t.TempDir()

	_, err := NewBuilder(nil).Build(context.Background(), def, t.TempDir(), out, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, definition.ErrSourceNotFound)

	left, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestBuildCancelled(t *testing.T) {
	root := t.TempDir()
	writeReadme(t, root)
	def := definition.Defaults(definition.Vars{Name: "dmqnode", Arch: "amd64"})
	out := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewBuilder(nil).Build(ctx, def, root, out, nil)
	assert.ErrorIs(t, err, context.Canceled)

	left, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestBuildLargePayloadSpooled(t *testing.T) {
	for _, size := range []int{1 << 20, 1<<20 + 1, 1<<20 + 2, 1<<20 + 3} {
		root := t.TempDir()
		out := t.TempDir()
		body := make([]byte, size)
		_, err := rand.Read(body)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(root, "dmqnode"), body, 0755))

		def := definition.Defaults(definition.Vars{Name: "dmqnode", Version: "1.0.0", Arch: "amd64"})
		def.Args = []definition.Mapping{{Source: "dmqnode", Dest: "/usr/sbin/dmqnode"}}

		path, err := NewBuilder(&Config{Compression: archive.CompressionGzip}).Build(context.Background(), def, root, out, nil)
		require.NoError(t, err)

		left, err := os.ReadDir(out)
		require.NoError(t, err)
		require.Len(t, left, 1, "spool file left behind")
		assert.Equal(t, filepath.Base(path), left[0].Name())

		f, err := os.Open(path)
		require.NoError(t, err)
		contents := make(map[string][]byte)
		pkg, err := Read(f, contents)
		f.Close()
		require.NoError(t, err)
		assert.Equal(t, "dmqnode", pkg.Control.Package)
		assert.True(t, bytes.Equal(body, contents["./usr/sbin/dmqnode"]), "payload of %d bytes differs", size)
	}
}

func TestWriteSpoolsToTempDir(t *testing.T) {
	root := t.TempDir()
	writeReadme(t, root)
	def := definition.Defaults(definition.Vars{Name: "dmqnode", Version: "1.0.0", Arch: "amd64"})
	entries, err := payload.Resolve(root, def.Args)
	require.NoError(t, err)

	spool := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, NewBuilder(&Config{TempDir: spool}).Write(context.Background(), &buf, NewControl(def.Options, 0), entries, nil))

	left, err := os.ReadDir(spool)
	require.NoError(t, err)
	assert.Empty(t, left)

	pkg, err := Read(&buf, nil)
	require.NoError(t, err)
	assert.Contains(t, pkg.Files, "./usr/share/doc/dmqnode/README.rst")
}

func TestReadRejectsNonDeb(t *testing.T) {
	_, err := Read(strings.NewReader("not an archive"), nil)
	assert.Error(t, err)
}
