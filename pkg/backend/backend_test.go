package backend

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sociomantic-tsunami/dmqpkg/pkg/archive"
	"github.com/sociomantic-tsunami/dmqpkg/pkg/core"
	"github.com/sociomantic-tsunami/dmqpkg/pkg/deb"
	"github.com/sociomantic-tsunami/dmqpkg/pkg/definition"
)

func fixture(t *testing.T) (definition.Definition, *core.BuildOptions) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.rst"), []byte("DMQ node\n"), 0644))

	def := definition.Defaults(definition.Vars{Name: "dmqnode", Version: "1.0.0", Arch: "amd64"})
	return def, &core.BuildOptions{Root: root, OutputDir: t.TempDir()}
}

func TestNewUnsupported(t *testing.T) {
	_, err := New("msi", nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestNewNames(t *testing.T) {
	for _, bt := range AllBackends {
		b, err := New(bt, nil)
		require.NoError(t, err)
		assert.Equal(t, string(bt), b.Name())
		assert.NotEmpty(t, bt.Description())
		assert.NoError(t, b.Close())
	}
}

func TestDebBackend(t *testing.T) {
	def, opts := fixture(t)

	b, err := New(BackendDeb, nil)
	require.NoError(t, err)

	art, err := b.Build(context.Background(), def, opts)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(opts.OutputDir, "dmqnode_1.0.0_amd64.deb"), art.Path)
	assert.Equal(t, "deb", art.Format)
	assert.Len(t, art.SHA256, 64)

	info, err := os.Stat(art.Path)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), art.Size)

	pkg, err := deb.Inspect(art.Path)
	require.NoError(t, err)
	assert.Equal(t, "dmqnode", pkg.Control.Package)
}

func TestArchiveBackends(t *testing.T) {
	tests := []struct {
		backend     BackendType
		compression string
		want        string
	}{
		{BackendTar, "", "dmqnode-1.0.0.tar.xz"},
		{BackendTar, "gz", "dmqnode-1.0.0.tar.gz"},
		{BackendTar, "zstd", "dmqnode-1.0.0.tar.zst"},
		{BackendCpio, "", "dmqnode-1.0.0.cpio.gz"},
		{BackendCpio, "zst", "dmqnode-1.0.0.cpio.zst"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			def, opts := fixture(t)
			opts.Compression = tt.compression

			b, err := New(tt.backend, nil)
			require.NoError(t, err)

			art, err := b.Build(context.Background(), def, opts)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(opts.OutputDir, tt.want), art.Path)
			assert.Equal(t, string(tt.backend), art.Format)
		})
	}
}

func TestArchiveBackendDefaultVersion(t *testing.T) {
	def, opts := fixture(t)
	def.Options.Version = ""
	def.Options.Iteration = "1"

	b, err := New(BackendTar, nil)
	require.NoError(t, err)

	art, err := b.Build(context.Background(), def, opts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(opts.OutputDir, "dmqnode-"+definition.DefaultVersion+"-1.tar.xz"), art.Path)
}

func TestCpioRejectsExplicitXz(t *testing.T) {
	def, opts := fixture(t)
	opts.Compression = "xz"

	b, err := New(BackendCpio, nil)
	require.NoError(t, err)

	_, err = b.Build(context.Background(), def, opts)
	assert.ErrorIs(t, err, archive.ErrUnsupportedCompression)
}

func TestFpmBackend(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture")
	}
	def, opts := fixture(t)

	fake := filepath.Join(t.TempDir(), "fpm")
	script := "#!/bin/sh\nout=\"$FAKE_FPM_OUT\"\necho package > \"$out\"\necho \"Created package {:path=>\\\"$out\\\"}\"\n"
	require.NoError(t, os.WriteFile(fake, []byte(script), 0755))
	t.Setenv("FAKE_FPM_OUT", filepath.Join(opts.OutputDir, "dmqnode-1.0.0-1.x86_64.rpm"))

	cfg := DefaultConfig()
	cfg.FpmPath = fake
	assert.True(t, Available(BackendFpmRPM, cfg))

	b, err := New(BackendFpmRPM, cfg)
	require.NoError(t, err)

	art, err := b.Build(context.Background(), def, opts)
	require.NoError(t, err)
	assert.Equal(t, "fpm-rpm", art.Format)
	assert.Equal(t, int64(8), art.Size)
}

func TestAvailable(t *testing.T) {
	assert.True(t, Available(BackendDeb, nil))
	assert.False(t, Available("msi", nil))
	assert.False(t, Available(BackendFpmDeb, &Config{FpmPath: filepath.Join(t.TempDir(), "nope")}))
}
