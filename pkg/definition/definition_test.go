package definition

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	tests := []struct {
		name     string
		vars     Vars
		fullname string
	}{
		{"no suffix", Vars{Name: "dmqnode"}, "dmqnode"},
		{"d2 suffix", Vars{Name: "dmqnode", Suffix: "-d2"}, "dmqnode-d2"},
		{"empty name falls back", Vars{Suffix: "-xenial"}, "dmqnode-xenial"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := Defaults(tt.vars)

			assert.Equal(t, tt.fullname, def.Options.Name)
			assert.Equal(t, "https://github.com/sociomantic-tsunami/dmqnode", def.Options.URL)
			assert.Equal(t, "dunnhumby Germany GmbH <tsunami@sociomantic.com>", def.Options.Maintainer)
			assert.Equal(t, "dunnhumby Germany GmbH", def.Options.Vendor)
			assert.Equal(t, "The DMQ node is a server implementing one node for a network message queue.", def.Options.Description)

			require.Len(t, def.Args, 1)
			assert.Equal(t, "README.rst=/usr/share/doc/"+tt.fullname+"/", def.Args[0].String())
		})
	}
}

func TestDefaultsIsPure(t *testing.T) {
	v := Vars{Name: "dmqnode", Suffix: "-d2"}

	first := Defaults(v)
	first.Append(Mapping{Source: "x", Dest: "/y"})
	second := Defaults(v)

	assert.Len(t, second.Args, 1)
	assert.Equal(t, Defaults(v), second)
}

func TestApplyAppendsEveryTime(t *testing.T) {
	v := Vars{Name: "dmqnode"}
	var def Definition

	def.Apply(v)
	def.Apply(v)

	require.Len(t, def.Args, 2)
	assert.Equal(t, def.Args[0], def.Args[1])
	assert.Equal(t, "README.rst=/usr/share/doc/dmqnode/", def.Args[1].String())
	assert.Equal(t, "dmqnode", def.Options.Name)
}

func TestApplyOverridesExistingOptions(t *testing.T) {
	def := Definition{
		Options: Options{Name: "old", Vendor: "someone", License: "BSL-1.0"},
		Args:    []Mapping{{Source: "bin/dmqnode", Dest: "/usr/sbin/"}},
	}

	def.Apply(Vars{Name: "dmqnode", Suffix: "-d2"})

	assert.Equal(t, "dmqnode-d2", def.Options.Name)
	assert.Equal(t, DefaultVendor, def.Options.Vendor)
	assert.Equal(t, "BSL-1.0", def.Options.License)
	assert.Equal(t, []string{
		"bin/dmqnode=/usr/sbin/",
		"README.rst=/usr/share/doc/dmqnode-d2/",
	}, def.ArgStrings())
}

func TestParseMapping(t *testing.T) {
	tests := []struct {
		in      string
		want    Mapping
		wantErr bool
	}{
		{in: "README.rst=/usr/share/doc/dmqnode/", want: Mapping{"README.rst", "/usr/share/doc/dmqnode/"}},
		{in: "a=b=c", want: Mapping{"a", "b=c"}},
		{in: " build/dmqnode = /usr/sbin/dmqnode ", want: Mapping{"build/dmqnode", "/usr/sbin/dmqnode"}},
		{in: "README.rst", wantErr: true},
		{in: "=/usr/share", wantErr: true},
		{in: "README.rst=", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMapping(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMapping)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMappingIsDirDest(t *testing.T) {
	assert.True(t, ReadmeMapping("dmqnode").IsDirDest())
	assert.False(t, Mapping{Source: "a", Dest: "/etc/dmqnode/config.ini"}.IsDirDest())
}

func TestValidate(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.rst"), []byte("DMQ node\n"), 0644))

	t.Run("defaults pass", func(t *testing.T) {
		assert.NoError(t, Defaults(DefaultVars()).Validate(root))
	})

	t.Run("missing readme", func(t *testing.T) {
		err := Defaults(DefaultVars()).Validate(t.TempDir())
		assert.ErrorIs(t, err, ErrSourceNotFound)
	})

	t.Run("empty name and description", func(t *testing.T) {
		def := Defaults(DefaultVars())
		def.Options.Name = ""
		def.Options.Description = "  "

		err := def.Validate(root)
		require.ErrorIs(t, err, ErrMissingField)
		assert.Contains(t, err.Error(), "name")
		assert.Contains(t, err.Error(), "description")
	})

	t.Run("relative destination", func(t *testing.T) {
		def := Defaults(DefaultVars())
		def.Append(Mapping{Source: "README.rst", Dest: "usr/share/doc"})
		assert.ErrorIs(t, def.Validate(root), ErrRelativeDest)
	})
}

func TestValidateSchema(t *testing.T) {
	require.NoError(t, ValidateSchema(Defaults(Vars{Name: "dmqnode", Suffix: "-d2"})))

	def := Defaults(DefaultVars())
	def.Options.URL = "github.com/sociomantic-tsunami/dmqnode"
	assert.Error(t, ValidateSchema(def))

	def = Defaults(DefaultVars())
	def.Options.Name = "DMQ Node"
	assert.Error(t, ValidateSchema(def))
}

func TestLoad(t *testing.T) {
	src := `
args = ["build/dmqnode=/usr/sbin/{fullname}", "deploy/dmqnode.service=/lib/systemd/system/{fullname}.service"]

[options]
license = "BSL-1.0"
depends = ["libebtree6", "libglib2.0-0"]
description = """{name} server.

Longer text."""
`
	v := Vars{Name: "dmqnode", Suffix: "-d2", Version: "1.5.0"}
	def, err := Load(strings.NewReader(src), v)
	require.NoError(t, err)

	assert.Equal(t, "dmqnode-d2", def.Options.Name)
	assert.Equal(t, DefaultMaintainer, def.Options.Maintainer)
	assert.Equal(t, "BSL-1.0", def.Options.License)
	assert.Equal(t, []string{"libebtree6", "libglib2.0-0"}, def.Options.Depends)
	assert.Equal(t, "dmqnode server.", def.Summary())
	assert.Equal(t, "1.5.0", def.Options.Version)
	assert.Equal(t, []string{
		"README.rst=/usr/share/doc/dmqnode-d2/",
		"build/dmqnode=/usr/sbin/dmqnode-d2",
		"deploy/dmqnode.service=/lib/systemd/system/dmqnode-d2.service",
	}, def.ArgStrings())
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(strings.NewReader("[options]\nhomepage = \"x\"\n"), DefaultVars())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "homepage")
}

func TestEncodeRoundTrip(t *testing.T) {
	def := Defaults(Vars{Name: "dmqnode", Suffix: "-d2"})
	def.Append(Mapping{Source: "bin/dmqnode", Dest: "/usr/sbin/"})

	var sb strings.Builder
	require.NoError(t, Encode(&sb, def))

	loaded, err := Load(strings.NewReader(sb.String()), Vars{Name: "dmqnode", Suffix: "-d2"})
	require.NoError(t, err)

	// Loading merges over the defaults, so the README entry appears twice.
	assert.Equal(t, []string{
		"README.rst=/usr/share/doc/dmqnode-d2/",
		"README.rst=/usr/share/doc/dmqnode-d2/",
		"bin/dmqnode=/usr/sbin/",
	}, loaded.ArgStrings())
	assert.Equal(t, def.Options.Name, loaded.Options.Name)
}
