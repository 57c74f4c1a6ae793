package rpm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	tests := []struct {
		file      string
		name      string
		version   string
		iteration string
		files     []string
	}{
		{
			file:      "empty-0.1-1.x86_64.rpm",
			name:      "empty",
			version:   "0.1",
			iteration: "1",
		},
		{
			file:      "payload-test-0.1-w9.gzdio.x86_64.rpm",
			name:      "payload-test",
			version:   "0.1",
			iteration: "w9.gzdio",
			files:     []string{"/usr/share/payload-test.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			pkg, err := Inspect(filepath.Join("testdata", tt.file))
			require.NoError(t, err)

			assert.Equal(t, tt.name, pkg.Options.Name)
			assert.Equal(t, tt.version, pkg.Options.Version)
			assert.Equal(t, tt.iteration, pkg.Options.Iteration)
			assert.Equal(t, "x86_64", pkg.Options.Arch)
			assert.Equal(t, "Public Domain", pkg.Options.License)
			assert.Equal(t, "Description", pkg.Options.Description)
			for _, f := range tt.files {
				assert.Contains(t, pkg.Files, f)
			}
			for _, d := range pkg.Options.Depends {
				assert.NotContains(t, d, "rpmlib(")
			}
		})
	}
}

func TestInspectNotAnRpm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.rpm")
	require.NoError(t, os.WriteFile(path, []byte("definitely not an rpm"), 0644))

	_, err := Inspect(path)
	assert.Error(t, err)

	_, err = Inspect(filepath.Join(t.TempDir(), "missing.rpm"))
	assert.Error(t, err)
}

func TestVerifyMissingKeyring(t *testing.T) {
	_, err := Verify(filepath.Join("testdata", "empty-0.1-1.x86_64.rpm"), filepath.Join(t.TempDir(), "none.asc"))
	assert.Error(t, err)
}
