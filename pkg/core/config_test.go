package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultFormat, cfg.Format)
	assert.Equal(t, "dmqnode", cfg.Name)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	t.Setenv(EnvOutputDir, "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("suffix: -d2\nformat: tar\ncompression: zst\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "tar", cfg.Format)
	assert.Equal(t, "zst", cfg.Compression)
	assert.Equal(t, "dmqnode-d2", cfg.Vars().FullName())
	assert.Equal(t, DefaultFpmPath, cfg.FpmPath)
}

func TestLoadConfigEnvOutputDir(t *testing.T) {
	t.Setenv(EnvOutputDir, "/tmp/dmq-out")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_dir: ./pkgs\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/dmq-out", cfg.OutputDir)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"unknown key": "colour: blue\n",
		"bad format":  "format: msi\n",
		"bad type":    "debug: maybe\n",
		"bad yaml":    "format: [deb\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	t.Setenv(EnvOutputDir, "")
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Suffix = "-d2"
	cfg.Debug = true

	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
